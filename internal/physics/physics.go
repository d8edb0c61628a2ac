// Package physics runs the per-GameTick movement integration spec.md
// §4.7 describes (C7): impulse → gravity → friction → swept-AABB
// collision → send-decision. Grounded on azalea's original_source
// azalea-client/src/movement.rs (ai_step/tick_controls/send_position)
// and azalea-physics/src/clip.rs (the DDA block traversal reused here
// for collision sweeps), since the teacher has no client-side movement
// code of its own — pkg/server's player state is server-authoritative.
package physics

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/world"
)

const (
	gravity        = 0.08
	horizontalDrag = 0.91
	verticalDrag   = 0.98
	stepHeight     = 0.6
	eyeHeight      = 1.62
	playerWidth    = 0.6
	playerHeight   = 1.8

	walkSpeed   = 0.1
	sprintBoost = 1.3
)

// Input is the set of control impulses an entity wants to apply this
// tick (spec.md §4.7 step 1), named after azalea's WalkDirection/
// jumping/sprinting controls in movement.rs.
type Input struct {
	Forward, Strafe float64 // -1..1 local-frame impulse, azalea's zza/xxa
	Sprinting       bool
	Sneaking        bool
	Jumping         bool
}

// SendDecision names which serverbound movement packet a tick should
// emit, per spec.md §4.7 step 9.
type SendDecision int

const (
	SendNone SendDecision = iota
	SendPosRot
	SendPos
	SendRot
	SendStatusOnly
)

// TickState is the per-entity bookkeeping movement.rs's PhysicsState
// keeps between ticks (last sent position/rotation, the 20-tick
// position-remainder counter).
type TickState struct {
	LastSentX, LastSentY, LastSentZ float64
	LastSentYaw, LastSentPitch      float32
	LastOnGround                    bool
	PositionRemainder               int
}

// instanceLookup resolves the Instance an entity's Position.Instance
// names; internal/handlers supplies this from its world.Store.
type instanceLookup func(name string) (*world.Instance, bool)

// Step runs one GameTick of physics for a single entity: integrates
// velocity, collides it against the instance's block shapes, writes
// the clamped result back to Position/Velocity/Physics, and returns the
// movement packet decision spec.md §4.7 step 9 describes. Step takes no
// dt: each call advances exactly one 20Hz GameTick. A jump impulse
// clears ph.Jumping, so Jumping acts as a one-shot request.
func Step(lookup instanceLookup, pos *ecs.Position, vel *ecs.Velocity, rot ecs.Rotation, ph *ecs.Physics, state *TickState, in Input) SendDecision {
	inst, ok := lookup(pos.Instance)
	if !ok {
		return SendNone
	}

	yaw := float64(rot.Yaw) * math.Pi / 180

	speed := walkSpeed
	if in.Sprinting {
		speed *= sprintBoost
	}
	forward := in.Forward * speed
	strafe := in.Strafe * speed

	sin, cos := math.Sin(yaw), math.Cos(yaw)
	impulseX := strafe*cos - forward*sin
	impulseZ := forward*cos + strafe*sin

	vel.X += impulseX
	vel.Z += impulseZ

	if in.Jumping && ph.OnGround {
		vel.Y = 0.42
		ph.Jumping = false
	}

	if _, inFluid := InFluid(inst, *pos); inFluid {
		vel.X, vel.Y, vel.Z = ApplyBuoyancy(vel.X, vel.Y, vel.Z)
		feet := world.BlockPos{X: int32(math.Floor(pos.X)), Y: int32(math.Floor(pos.Y)), Z: int32(math.Floor(pos.Z))}
		if fdx, fdz := FlowDirection(inst, feet); fdx != 0 || fdz != 0 {
			vel.X += fdx * flowPush
			vel.Z += fdz * flowPush
		}
	} else {
		vel.Y -= gravity
		groundFriction := blockBelowSlipperiness(inst, *pos) * horizontalDrag
		vel.X *= groundFriction
		vel.Z *= groundFriction
		vel.Y *= verticalDrag
	}

	box := playerAABB(*pos)
	dx, dy, dz := clampDelta(inst, box, vel.X, vel.Y, vel.Z)

	wasOnGround := ph.OnGround
	ph.OnGround = vel.Y < 0 && dy != vel.Y

	hCollided := dx != vel.X || dz != vel.Z
	if hCollided {
		vel.X, vel.Z = 0, 0
	}
	if dy != vel.Y {
		vel.Y = 0
	}

	pos.X += dx
	pos.Y += dy
	pos.Z += dz
	_ = wasOnGround

	return sendDecision(state, *pos, rot, ph.OnGround)
}

func sendDecision(state *TickState, pos ecs.Position, rot ecs.Rotation, onGround bool) SendDecision {
	state.PositionRemainder++

	dx := pos.X - state.LastSentX
	dy := pos.Y - state.LastSentY
	dz := pos.Z - state.LastSentZ
	movedEnough := dx*dx+dy*dy+dz*dz > 2.0e-4*2.0e-4
	sendingPosition := movedEnough || state.PositionRemainder >= 20
	sendingRotation := rot.Yaw != state.LastSentYaw || rot.Pitch != state.LastSentPitch

	var decision SendDecision
	switch {
	case sendingPosition && sendingRotation:
		decision = SendPosRot
	case sendingPosition:
		decision = SendPos
	case sendingRotation:
		decision = SendRot
	case state.LastOnGround != onGround:
		decision = SendStatusOnly
	default:
		decision = SendNone
	}

	if sendingPosition {
		state.LastSentX, state.LastSentY, state.LastSentZ = pos.X, pos.Y, pos.Z
		state.PositionRemainder = 0
	}
	if sendingRotation {
		state.LastSentYaw, state.LastSentPitch = rot.Yaw, rot.Pitch
	}
	state.LastOnGround = onGround
	return decision
}

func playerAABB(pos ecs.Position) world.AABB {
	half := playerWidth / 2
	return world.AABB{
		MinX: pos.X - half, MinY: pos.Y, MinZ: pos.Z - half,
		MaxX: pos.X + half, MaxY: pos.Y + playerHeight, MaxZ: pos.Z + half,
	}
}

func blockBelowSlipperiness(inst *world.Instance, pos ecs.Position) float64 {
	below := world.BlockPos{X: int32(math.Floor(pos.X)), Y: int32(math.Floor(pos.Y)) - 1, Z: int32(math.Floor(pos.Z))}
	state, ok := inst.GetBlockState(below)
	if !ok {
		return 0.6
	}
	return world.Info(state).Slipperiness
}

// clampDelta implements spec.md §4.7 step 6: clip each axis (y, x, z,
// in that order) against every block collision shape the swept box
// could touch, reducing the delta to the largest value that doesn't
// overlap, then attempts a step-up when a horizontal axis was blocked
// and the vertical delta is within stepHeight.
func clampDelta(inst *world.Instance, box world.AABB, vx, vy, vz float64) (dx, dy, dz float64) {
	shapes := collectShapes(inst, box, vx, vy, vz)

	dy = clampAxis(box, shapes, axisY, vy)
	box = box.Offset(0, dy, 0)

	dx = clampAxis(box, shapes, axisX, vx)
	box = box.Offset(dx, 0, 0)

	dz = clampAxis(box, shapes, axisZ, vz)
	box = box.Offset(0, 0, dz)

	if (dx != vx || dz != vz) && math.Abs(vy) <= stepHeight {
		steppedBox := world.AABB{
			MinX: box.MinX - dx, MinY: box.MinY - dy + stepHeight, MinZ: box.MinZ - dz,
			MaxX: box.MaxX - dx, MaxY: box.MaxY - dy + stepHeight, MaxZ: box.MaxZ - dz,
		}
		stepShapes := collectShapes(inst, steppedBox, vx, 0, vz)
		stepDX := clampAxis(steppedBox, stepShapes, axisX, vx)
		stepDZ := clampAxis(steppedBox.Offset(stepDX, 0, 0), stepShapes, axisZ, vz)
		if stepDX*stepDX+stepDZ*stepDZ > dx*dx+dz*dz {
			dx, dz = stepDX, stepDZ
			dy = stepHeight
		}
	}
	return dx, dy, dz
}

type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// clampAxis reduces delta along axis to the largest magnitude that
// keeps box (swept by delta on that axis alone) from overlapping any
// shape in shapes.
func clampAxis(box world.AABB, shapes []world.AABB, ax axis, delta float64) float64 {
	if delta == 0 {
		return 0
	}
	for _, s := range shapes {
		delta = clipOne(box, s, ax, delta)
	}
	return delta
}

func clipOne(box, shape world.AABB, ax axis, delta float64) float64 {
	var boxMin, boxMax, shapeMin, shapeMax float64
	switch ax {
	case axisX:
		boxMin, boxMax, shapeMin, shapeMax = box.MinX, box.MaxX, shape.MinX, shape.MaxX
	case axisY:
		boxMin, boxMax, shapeMin, shapeMax = box.MinY, box.MaxY, shape.MinY, shape.MaxY
	default:
		boxMin, boxMax, shapeMin, shapeMax = box.MinZ, box.MaxZ, shape.MinZ, shape.MaxZ
	}

	if !overlapsOtherAxes(box, shape, ax) {
		return delta
	}

	if delta > 0 && boxMax <= shapeMin {
		if max := shapeMin - boxMax; max < delta {
			return math.Max(max, 0)
		}
	} else if delta < 0 && boxMin >= shapeMax {
		if max := shapeMax - boxMin; max > delta {
			return math.Min(max, 0)
		}
	}
	return delta
}

func overlapsOtherAxes(box, shape world.AABB, skip axis) bool {
	overlap := func(minA, maxA, minB, maxB float64) bool { return minA < maxB && maxA > minB }
	xOK := skip == axisX || overlap(box.MinX, box.MaxX, shape.MinX, shape.MaxX)
	yOK := skip == axisY || overlap(box.MinY, box.MaxY, shape.MinY, shape.MaxY)
	zOK := skip == axisZ || overlap(box.MinZ, box.MaxZ, shape.MinZ, shape.MaxZ)
	return xOK && yOK && zOK
}

// collectShapes gathers world-space AABBs for every block collision
// shape in the region the entity box could sweep through this tick.
func collectShapes(inst *world.Instance, box world.AABB, vx, vy, vz float64) []world.AABB {
	minX := int32(math.Floor(math.Min(box.MinX, box.MinX+vx)))
	maxX := int32(math.Floor(math.Max(box.MaxX, box.MaxX+vx)))
	minY := int32(math.Floor(math.Min(box.MinY, box.MinY+vy)))
	maxY := int32(math.Floor(math.Max(box.MaxY, box.MaxY+vy)))
	minZ := int32(math.Floor(math.Min(box.MinZ, box.MinZ+vz)))
	maxZ := int32(math.Floor(math.Max(box.MaxZ, box.MaxZ+vz)))

	var shapes []world.AABB
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				state, ok := inst.GetBlockState(world.BlockPos{X: x, Y: y, Z: z})
				if !ok {
					continue
				}
				shape := world.Info(state).CollisionShape
				for _, b := range shape.Boxes() {
					shapes = append(shapes, b.Offset(float64(x), float64(y), float64(z)))
				}
			}
		}
	}
	return shapes
}
