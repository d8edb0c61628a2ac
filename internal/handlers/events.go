// Package handlers wires clientbound Game-phase packets onto the
// entity/world store and, in the other direction, drains the ECS's
// outgoing SendPacketEvent queue onto the wire (spec.md §4.11 "for
// each clientbound packet, apply its effect to the entity/world store
// and emit domain events"). Grounded on the teacher's
// pkg/server/packet_handler.go and pkg/server/server.go dispatch
// switches (handlePlayPacket, handleConnection's read loop),
// generalized from the server's serverbound dispatch to this client's
// clientbound one.
package handlers

import (
	"github.com/StoreStation/vibeclient/internal/chatcomp"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

// Event is the closed set of domain events a Session reports to its
// owner (spec.md §6 "EventReceiver yields: Login, Tick, Chat, AddPlayer,
// RemovePlayer, Death, Packet, Disconnect"). Unlike ecs.Event queues
// (internal and per-tick), these cross the package boundary to
// whatever drives the public Client API.
type Event interface{ isEvent() }

// LoginEvent fires once Game phase starts and the local player entity
// exists.
type LoginEvent struct{}

func (LoginEvent) isEvent() {}

// TickEvent fires once per GameTick, after every system has run.
type TickEvent struct{}

func (TickEvent) isEvent() {}

// ChatEvent reports a decoded player or system chat message. Message is
// the opaque structured chat component spec.md §1 says this core never
// renders — a caller either displays it (chatcomp.Component.String())
// or reads the flattened text (chatcomp.Component.PlainText()).
type ChatEvent struct {
	Sender  string // empty for SystemChat
	Message chatcomp.Component
}

func (ChatEvent) isEvent() {}

// PlayerInfo identifies a player-kind entity for Add/RemovePlayerEvent.
type PlayerInfo struct {
	Name string
}

// AddPlayerEvent reports a new player-kind entity. Dispatch does not
// emit it: AddEntity carries only a numeric entity type, which
// Dispatch stores as an "entity_type:N" placeholder kind and never
// maps to a player kind.
type AddPlayerEvent struct{ Info PlayerInfo }

func (AddPlayerEvent) isEvent() {}

// RemovePlayerEvent fires when a previously added player-kind entity
// is removed.
type RemovePlayerEvent struct{ Info PlayerInfo }

func (RemovePlayerEvent) isEvent() {}

// DeathEvent fires when the local player's health reaches zero.
// Reason is empty: vanilla's SetHealth carries no death message, that
// arrives (if at all) as a separate SystemChat the caller can
// correlate via ChatEvent.
type DeathEvent struct{ Reason string }

func (DeathEvent) isEvent() {}

// PacketEvent mirrors every decoded clientbound packet, letting a
// caller observe ones this package doesn't otherwise surface.
type PacketEvent struct{ Packet mcproto.Packet }

func (PacketEvent) isEvent() {}

// DisconnectEvent fires exactly once, when Session.Run stops, whether
// the connection's read loop ended or Run's context was cancelled
// (spec.md §7 "Disconnect event is
// emitted exactly once").
type DisconnectEvent struct{ Reason string }

func (DisconnectEvent) isEvent() {}
