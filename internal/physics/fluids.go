package physics

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/world"
)

const (
	fluidGravity  = 0.02
	fluidBuoyancy = 0.04
	swimFriction  = 0.8
	flowPush      = 0.014
)

// InFluid reports the fluid state an entity's AABB currently
// intersects, per spec.md §4.7 "Fluids. When the entity's AABB
// intersects a fluid state with amount > 0...". Returns ok=false when
// no loaded block under the box carries a fluid.
func InFluid(inst *world.Instance, pos ecs.Position) (world.FluidState, bool) {
	box := playerAABB(pos)
	minX, maxX := int32(box.MinX), int32(box.MaxX)
	minY, maxY := int32(box.MinY), int32(box.MaxY)
	minZ, maxZ := int32(box.MinZ), int32(box.MaxZ)

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				fluid := inst.GetFluidState(world.BlockPos{X: x, Y: y, Z: z})
				if fluid.Kind != world.FluidEmpty && fluid.Level > 0 {
					return fluid, true
				}
			}
		}
	}
	return world.FluidState{}, false
}

// ApplyBuoyancy adjusts velocity for a tick spent inside a fluid:
// an upward buoyancy term replaces normal gravity, and horizontal
// movement is scaled down (spec.md §4.7 "apply an upward buoyancy term
// and scale horizontal friction; swimming mode sets a different gravity
// constant"), grounded on azalea's original_source fluid handling
// referenced from clip.rs's FluidPickType (the swim-speed constants
// themselves are this package's own tuning, since azalea-physics's
// lib.rs with the exact numbers was not part of the retrieved pack).
func ApplyBuoyancy(vx, vy, vz float64) (float64, float64, float64) {
	vy += fluidBuoyancy - fluidGravity
	vx *= swimFriction
	vz *= swimFriction
	return vx, vy, vz
}

// FlowDirection computes the horizontal unit vector flowing water (or
// lava) pushes an entity standing in it, derived from the fluid-level
// gradient across the four cardinal neighbors of the block at the
// entity's feet: flow points from a higher Level (fuller, nearer a
// source) toward a lower one (shallower, nearer the fluid's edge), the
// same direction the fluid itself spreads. A neighbor occupied by a
// solid block blocks flow that direction entirely; one with no fluid
// at all (air, or a different fluid kind) counts as the steepest
// possible drop. No original_source file carries vanilla's actual
// getFlow accumulation (clip.rs only resolves ray/shape clipping, never
// push direction), so this is a direct implementation of the
// level-gradient rule spec.md §4.7 itself states, not a ported
// algorithm — see DESIGN.md for the resulting scope note on the exact
// AFK-pool cycle.
func FlowDirection(inst *world.Instance, at world.BlockPos) (dx, dz float64) {
	here := inst.GetFluidState(at)
	if here.Kind == world.FluidEmpty {
		return 0, 0
	}

	type offset struct {
		dx, dz int32
		vx, vz float64
	}
	neighbors := []offset{
		{1, 0, 1, 0},
		{-1, 0, -1, 0},
		{0, 1, 0, 1},
		{0, -1, 0, -1},
	}

	for _, n := range neighbors {
		pos := world.BlockPos{X: at.X + n.dx, Y: at.Y, Z: at.Z + n.dz}
		if state, ok := inst.GetBlockState(pos); ok && world.Info(state).Solid {
			continue
		}
		neighborLevel := uint8(0)
		if fluid := inst.GetFluidState(pos); fluid.Kind == here.Kind {
			neighborLevel = fluid.Level
		}
		if neighborLevel >= here.Level {
			continue
		}
		weight := float64(here.Level - neighborLevel)
		dx += n.vx * weight
		dz += n.vz * weight
	}

	length := math.Hypot(dx, dz)
	if length < 1e-9 {
		return 0, 0
	}
	return dx / length, dz / length
}
