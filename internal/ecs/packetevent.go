package ecs

import "github.com/StoreStation/vibeclient/internal/mcproto"

// SendPacketEvent is the one event type every system that wants to
// talk to the server pushes: physics' movement-packet decision,
// internal/interact's block/mining actions, internal/inventory's
// container clicks. A single consumer (internal/handlers, wired to the
// live internal/conn.Conn) drains it once per GameTick and writes each
// packet to the wire — grounded on azalea's `original_source`
// SendPacketEvent/handle_send_packet_event convention (see
// azalea-client/src/packet_handling/game.rs's usage throughout
// interact.rs/movement.rs), generalized from Bevy's per-entity event
// payload to this module's plain Handle.
type SendPacketEvent struct {
	Entity Handle
	Packet mcproto.Packet
}
