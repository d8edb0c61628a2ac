package ecs

import (
	"math"

	"github.com/google/uuid"
)

// Position is an entity's location in its instance (spec.md §3
// "Position (Vec3). Three 64-bit floats.").
type Position struct {
	X, Y, Z   float64
	Instance  string
}

// ChunkX and ChunkZ are the chunk coordinates containing p.
func (p Position) ChunkX() int32 { return int32(math.Floor(p.X)) >> 4 }
func (p Position) ChunkZ() int32 { return int32(math.Floor(p.Z)) >> 4 }

// Rotation is an entity's look direction in degrees.
type Rotation struct {
	Yaw, Pitch float32
}

// Velocity is an entity's current velocity vector, in blocks/tick.
type Velocity struct {
	X, Y, Z float64
}

// Physics marks an entity as subject to the per-tick integration in
// internal/physics (spec.md §4.7 "Runs once per GameTick for every
// entity with Physics + Position").
type Physics struct {
	OnGround  bool
	Sprinting bool
	Sneaking  bool
	Jumping   bool
}

// Metadata identifies an entity the way the protocol does: a
// server-local numeric id and (for players) a UUID, plus its kind
// (spec.md §9 "entity kind... table is process-wide read-only data").
type Metadata struct {
	MinecraftID int32
	UUID        uuid.UUID
	Kind        string // e.g. "minecraft:player", "minecraft:zombie"
	Name        string // player display name, empty for non-players
}

// Health tracks an entity's last-known health, set from SetHealth
// packets for the local player and absent for most remote entities
// (the protocol doesn't broadcast remote entity health directly).
type Health struct {
	Current float32
	Food    int32
	Saturation float32
}

// LocalPlayer tags exactly one entity: the client's own player,
// distinguishing it from every other tracked entity in queries.
type LocalPlayer struct{}

// GameMode holds the local player's current game mode, set from
// login/respawn/GameEvent packets (spec.md §4.8: the hit-result ray
// range depends on GameMode being creative or not).
type GameMode struct {
	Mode int8 // 0=survival, 1=creative, 2=adventure, 3=spectator
}

const (
	GameModeSurvival  int8 = 0
	GameModeCreative  int8 = 1
	GameModeAdventure int8 = 2
	GameModeSpectator int8 = 3
)

// WalkInput is the movement impulse an entity wants to apply this
// GameTick (spec.md §4.7 step 1's Forward/Strafe inputs), consumed by
// internal/physics.Step and written by higher-level control surfaces:
// internal/pathfinder's move execution, and Client.walk/sprint at the
// public API layer.
type WalkInput struct {
	Forward, Strafe float64
}

// Sequence is the local player's CurrentSequenceNumber (spec.md §3):
// a monotonic counter, one tick of state per block interaction sent,
// echoed back by the server's ack and never shared across connections.
type Sequence struct {
	Next int32
}

// Advance returns the next sequence number and increments the
// counter, per spec.md §9 "Sequence numbers... strictly monotonic per
// local player".
func (s *Sequence) Advance() int32 {
	s.Next++
	return s.Next
}
