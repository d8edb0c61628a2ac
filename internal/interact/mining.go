package interact

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/physics"
	"github.com/StoreStation/vibeclient/internal/world"
)

// MiningPhase names which state of spec.md §4.8's mining state machine
// an entity is in.
type MiningPhase int

const (
	MiningIdle MiningPhase = iota
	MiningCooldown
	MiningActive
)

// miningCooldownTicks is imposed after a finished break (an aborted
// one removes Mining with no cooldown),
// mirroring vanilla's brief post-break attack/use cooldown. Not named
// in spec.md's prose beyond "imposed after certain interactions"; this
// exact duration is this package's own choice since mining.rs itself
// was not part of the retrieved original_source pack (see
// _INDEX.md — only interact.rs and plugins/interact.rs were).
const miningCooldownTicks = 5

// Mining is the per-entity mining-state component (spec.md §4.8
// "Mining. State machine per entity").
type Mining struct {
	Phase             MiningPhase
	RemainingCooldown int
	Pos               world.BlockPos
	BlockState        world.BlockState
	Progress          float64 // 0..1
}

// StartMiningEvent begins breaking the block at Pos (spec.md §6
// Client.mine(pos)).
type StartMiningEvent struct {
	Entity ecs.Handle
	Pos    world.BlockPos
}

// Mine queues a StartMiningEvent for entity.
func Mine(w *ecs.World, entity ecs.Handle, pos world.BlockPos) {
	ecs.PushEvent(w, StartMiningEvent{Entity: entity, Pos: pos})
}

// MiningInput is the per-tick digging context a caller supplies, so
// this package stays independent of internal/inventory and
// internal/physics. internal/handlers' Session passes ToolMultiplier 1
// (no held-item lookup) and OnGround from ecs.Physics, and leaves the
// other fields at their zero values.
type MiningInput struct {
	ToolMultiplier float64 // 1.0 for bare hands or a mismatched tool; BlockInfo.BestToolMultiplier when correct
	OnGround       bool
	Underwater     bool
	HasteLevel     int
	FatigueLevel   int
}

// HandleStartMiningEvent begins a Mining{} state for the targeted
// block, replacing any prior Mining/Cooldown state and sending the
// initial StartDigging action (spec.md §4.8).
func HandleStartMiningEvent(w *ecs.World, lookup InstanceLookup) {
	for _, ev := range ecs.DrainEvents[StartMiningEvent](w) {
		inst, ok := lookupInstance(w, lookup, ev.Entity)
		if !ok {
			continue
		}
		state, ok := inst.GetBlockState(ev.Pos)
		if !ok || world.Info(state).Hardness < 0 {
			continue // not loaded, or unbreakable (e.g. bedrock)
		}

		ecs.Insert(w, ev.Entity, Mining{Phase: MiningActive, Pos: ev.Pos, BlockState: state})
		seq := advanceSequence(w, ev.Entity)
		ecs.Trigger(w, ecs.SendPacketEvent{Entity: ev.Entity, Packet: &mcproto.PlayerAction{
			Action:   mcproto.PlayerActionStartDigging,
			X:        ev.Pos.X, Y: ev.Pos.Y, Z: ev.Pos.Z,
			Face:     int8(physics.DirUp),
			Sequence: seq,
		}})
	}
}

// TickMining advances every entity's Mining state by one GameTick:
// ticks down Cooldown, and for Mining{} re-ray-picks (aborting if the
// target moved, was unloaded, or stopped being breakable), increments
// Progress, and finishes the break once Progress reaches 1 (spec.md
// §4.8 "Mining"). input supplies the digging-speed inputs per entity.
func TickMining(w *ecs.World, lookup InstanceLookup, input func(ecs.Handle) MiningInput) {
	// Query1 holds the world's read lock for the duration of its
	// callback, so the per-entity mutations below (Insert/Remove/Get,
	// all of which take the write lock) must happen after it returns
	// rather than nested inside it.
	type entry struct {
		h      ecs.Handle
		mining Mining
	}
	var active []entry
	ecs.Query1[Mining](w, nil, func(h ecs.Handle, mining Mining) {
		active = append(active, entry{h, mining})
	})

	for _, e := range active {
		h, mining := e.h, e.mining
		if mining.Phase == MiningCooldown {
			mining.RemainingCooldown--
			if mining.RemainingCooldown <= 0 {
				ecs.Remove[Mining](w, h)
			} else {
				ecs.Insert(w, h, mining)
			}
			continue
		}
		if mining.Phase != MiningActive {
			continue
		}

		inst, ok := lookupInstance(w, lookup, h)
		if !ok {
			abortMining(w, h, mining)
			continue
		}
		current, ok := inst.GetBlockState(mining.Pos)
		if !ok || current != mining.BlockState || world.Info(current).Hardness < 0 {
			abortMining(w, h, mining)
			continue
		}
		hitComp, hasHit := ecs.Get[HitResultComponent](w, h)
		if !hasHit || !hitComp.Hit || hitComp.Block != mining.Pos {
			abortMining(w, h, mining)
			continue
		}

		mining.Progress += miningRate(world.Info(current), input(h))
		if mining.Progress >= 1 {
			finishMining(w, lookup, h, mining, hitComp.Face)
			continue
		}
		ecs.Insert(w, h, mining)
	}
}

func abortMining(w *ecs.World, h ecs.Handle, mining Mining) {
	seq := advanceSequence(w, h)
	ecs.Trigger(w, ecs.SendPacketEvent{Entity: h, Packet: &mcproto.PlayerAction{
		Action:   mcproto.PlayerActionCancelDigging,
		X:        mining.Pos.X, Y: mining.Pos.Y, Z: mining.Pos.Z,
		Face:     int8(physics.DirUp),
		Sequence: seq,
	}})
	ecs.Remove[Mining](w, h)
}

func finishMining(w *ecs.World, lookup InstanceLookup, h ecs.Handle, mining Mining, face physics.Direction) {
	seq := advanceSequence(w, h)
	ecs.Trigger(w, ecs.SendPacketEvent{Entity: h, Packet: &mcproto.PlayerAction{
		Action:   mcproto.PlayerActionFinishDigging,
		X:        mining.Pos.X, Y: mining.Pos.Y, Z: mining.Pos.Z,
		Face:     int8(face),
		Sequence: seq,
	}})

	if inst, ok := lookupInstance(w, lookup, h); ok {
		inst.SetBlockState(mining.Pos, world.AirState)
	}
	ecs.Insert(w, h, Mining{Phase: MiningCooldown, RemainingCooldown: miningCooldownTicks})
}

// miningRate computes this tick's progress delta. It follows the
// shape of vanilla's destroy-progress formula (tool speed over block
// hardness, penalized under water and off the ground, scaled by
// haste/mining-fatigue) without reproducing its exact constants, since
// no source carrying them (e.g. an azalea-physics mining/digging
// module) was part of the retrieved original_source pack.
func miningRate(info world.BlockInfo, in MiningInput) float64 {
	if info.Hardness <= 0 {
		return 1 // instant break
	}
	speed := in.ToolMultiplier
	if in.HasteLevel > 0 {
		speed *= 1 + 0.2*float64(in.HasteLevel)
	}
	if in.FatigueLevel > 0 {
		speed *= math.Pow(0.3, float64(in.FatigueLevel))
	}
	if in.Underwater {
		speed /= 5
	}
	if !in.OnGround {
		speed /= 5
	}
	const ticksPerSecond = 20.0
	return speed / info.Hardness / ticksPerSecond / 1.5
}
