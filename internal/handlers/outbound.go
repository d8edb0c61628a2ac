package handlers

import (
	"github.com/pkg/errors"

	"github.com/StoreStation/vibeclient/internal/conn"
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

// typeKeyOf maps a packet's concrete Go type to the string
// mcproto.Registry registers it under (its bare type name — see
// mcproto.Registry.Register/std.go). Nothing in mcproto derives this
// from reflection at runtime (conn.go's own error paths only use
// fmt.Sprintf("%T", ...) for messages, never for lookup), so every
// serverbound type this package's systems can produce needs an entry
// here.
func typeKeyOf(p mcproto.Packet) (string, error) {
	switch p.(type) {
	case *mcproto.AcceptTeleportation:
		return "AcceptTeleportation", nil
	case *mcproto.ChatMessage:
		return "ChatMessage", nil
	case *mcproto.ClientCommand:
		return "ClientCommand", nil
	case *mcproto.ContainerClick:
		return "ContainerClick", nil
	case *mcproto.ContainerClose:
		return "ContainerClose", nil
	case *mcproto.Interact:
		return "Interact", nil
	case *mcproto.KeepAlive:
		return "KeepAlive", nil
	case *mcproto.MovePlayerPos:
		return "MovePlayerPos", nil
	case *mcproto.MovePlayerPosRot:
		return "MovePlayerPosRot", nil
	case *mcproto.MovePlayerRot:
		return "MovePlayerRot", nil
	case *mcproto.MovePlayerStatusOnly:
		return "MovePlayerStatusOnly", nil
	case *mcproto.PlayerAction:
		return "PlayerAction", nil
	case *mcproto.SetCarriedItem:
		return "SetCarriedItem", nil
	case *mcproto.UseItemOn:
		return "UseItemOn", nil
	case *mcproto.UseItem:
		return "UseItem", nil
	case *mcproto.SwingArm:
		return "SwingArm", nil
	default:
		return "", errors.Errorf("handlers: no registered type key for %T", p)
	}
}

// FlushOutbound drains every SendPacketEvent pushed this GameTick and
// writes each to c, in push order (spec.md §4.11 "a single consumer
// drains [SendPacketEvent] once per GameTick and writes each packet to
// the wire"). Errors from individual writes are collected but don't
// stop the drain, since a single bad packet shouldn't strand the rest
// of the tick's outgoing traffic unsent.
func FlushOutbound(w *ecs.World, c *conn.Conn) error {
	var firstErr error
	for _, ev := range ecs.DrainEvents[ecs.SendPacketEvent](w) {
		key, err := typeKeyOf(ev.Packet)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := c.WritePacket(key, ev.Packet); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "handlers: writing %s", key)
			}
		}
	}
	return firstErr
}
