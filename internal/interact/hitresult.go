// Package interact runs the block-interaction and mining systems
// spec.md §4.8 (C8) describes: the local player's ray-picked hit
// result, right-click/use-item packet formation, and the progressive
// block-break state machine. The teacher's pkg/server is purely
// server-authoritative (no client-side interaction of its own, per
// pvp_test.go), so this package is grounded directly on azalea's
// original_source azalea-client/src/interact.rs and
// plugins/interact.rs, reworked onto this module's ecs.World/
// internal/physics instead of Bevy ECS/components.
package interact

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/physics"
	"github.com/StoreStation/vibeclient/internal/world"
)

const (
	creativePickRange = 6.0
	survivalPickRange = 4.5
	eyeHeight         = 1.62
)

// InstanceLookup resolves the Instance an entity's Position.Instance
// names; callers (internal/handlers) supply this from whatever store
// backs a world name, mirroring internal/physics' own lookup callback.
type InstanceLookup func(name string) (*world.Instance, bool)

// HitResultComponent is the local player's current ray-pick target
// (spec.md §4.8 "Hit-result component"). internal/handlers' Session
// refreshes it once per GameTick; it runs no Update schedule, so the
// hit result is not refreshed between game ticks.
type HitResultComponent struct {
	physics.HitResult
}

// UpdateHitResult recomputes every local player's hit result from its
// eye position and look direction, grounded on azalea's
// original_source update_hit_result_component/pick_block.
// internal/handlers runs it in the GameTick schedule, after physics.
func UpdateHitResult(w *ecs.World, lookup InstanceLookup) {
	// Query3 holds the world's read lock for its callback's duration;
	// Insert takes the write lock, so results are collected here and
	// written back only after the query returns.
	type result struct {
		h   ecs.Handle
		hit HitResultComponent
	}
	var results []result
	ecs.Query3[ecs.Position, ecs.Rotation, ecs.GameMode](w, []ecs.Filter{ecs.With[ecs.LocalPlayer]()}, func(h ecs.Handle, pos ecs.Position, rot ecs.Rotation, mode ecs.GameMode) {
		inst, ok := lookup(pos.Instance)
		if !ok {
			return
		}
		pickRange := survivalPickRange
		if mode.Mode == ecs.GameModeCreative {
			pickRange = creativePickRange
		}
		eye := [3]float64{pos.X, pos.Y + eyeHeight, pos.Z}
		dir := lookVector(rot)
		to := [3]float64{
			eye[0] + dir[0]*pickRange,
			eye[1] + dir[1]*pickRange,
			eye[2] + dir[2]*pickRange,
		}
		hit := physics.Trace(inst, eye, to, nil)
		results = append(results, result{h, HitResultComponent{hit}})
	})
	for _, r := range results {
		ecs.Insert(w, r.h, r.hit)
	}
}

// lookVector converts yaw/pitch degrees into a unit direction vector,
// matching azalea's view_vector/LookDirection convention: yaw 0 faces
// +Z, increasing toward -X as the player turns right; pitch 0 is
// horizontal, positive pitch looks down.
func lookVector(rot ecs.Rotation) [3]float64 {
	yaw := float64(rot.Yaw) * math.Pi / 180
	pitch := float64(rot.Pitch) * math.Pi / 180
	xzLen := math.Cos(pitch)
	return [3]float64{
		-xzLen * math.Sin(yaw),
		-math.Sin(pitch),
		xzLen * math.Cos(yaw),
	}
}

func lookupInstance(w *ecs.World, lookup InstanceLookup, h ecs.Handle) (*world.Instance, bool) {
	pos, ok := ecs.Get[ecs.Position](w, h)
	if !ok {
		return nil, false
	}
	return lookup(pos.Instance)
}

func advanceSequence(w *ecs.World, h ecs.Handle) int32 {
	var seq int32
	ecs.Mutate(w, h, func(s *ecs.Sequence) { seq = s.Advance() })
	return seq
}

func blockCenter(pos world.BlockPos) [3]float64 {
	return [3]float64{float64(pos.X) + 0.5, float64(pos.Y) + 0.5, float64(pos.Z) + 0.5}
}
