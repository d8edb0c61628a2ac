package physics

import (
	"testing"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/world"
)

// flatInstance builds a single-section instance with a solid stone
// floor at y=0 spanning the whole 16x16 column at (0,0), and air
// everywhere else, for exercising gravity/collision without needing a
// real server connection.
func flatInstance(t *testing.T) *world.Instance {
	t.Helper()
	inst := world.NewInstance("minecraft:overworld", 0, 16)
	col := world.NewChunkColumn(0, 0, 0, 1)
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			col.SetBlockState(x, 0, z, world.BlockState(1)) // stone
		}
	}
	inst.LoadChunk(col)
	return inst
}

func lookupFor(inst *world.Instance) instanceLookup {
	return func(name string) (*world.Instance, bool) {
		if name != inst.Name {
			return nil, false
		}
		return inst, true
	}
}

// emptyInstance builds a single loaded, otherwise all-air chunk at
// (chunkX, chunkZ), for scenarios that place exactly one block and
// don't want a flatInstance's full stone floor interfering.
func emptyInstance(t *testing.T, chunkX, chunkZ int32) *world.Instance {
	t.Helper()
	inst := world.NewInstance("minecraft:overworld", 64, 16)
	inst.LoadChunk(world.NewChunkColumn(chunkX, chunkZ, 64, 1))
	return inst
}

func TestStepGravityAndLanding(t *testing.T) {
	inst := flatInstance(t)
	lookup := lookupFor(inst)

	pos := &ecs.Position{X: 5, Y: 5, Z: 5, Instance: inst.Name}
	vel := &ecs.Velocity{}
	rot := ecs.Rotation{}
	ph := &ecs.Physics{}
	state := &TickState{}

	for i := 0; i < 200 && !ph.OnGround; i++ {
		Step(lookup, pos, vel, rot, ph, state, Input{})
	}

	if !ph.OnGround {
		t.Fatalf("entity never landed after 200 ticks, pos=%+v vel=%+v", pos, vel)
	}
	if pos.Y < 1 || pos.Y > 1.5 {
		t.Fatalf("expected entity to settle just above the floor (y~1), got y=%v", pos.Y)
	}
	if vel.Y != 0 {
		t.Fatalf("expected vertical velocity to zero out on landing, got %v", vel.Y)
	}
}

func TestStepHorizontalCollisionAgainstWall(t *testing.T) {
	inst := flatInstance(t)
	// Build a wall one block south (+Z) of the entity's start, reaching
	// from floor to well above player height.
	for y := int32(0); y < 5; y++ {
		inst.SetBlockState(world.BlockPos{X: 5, Y: y, Z: 6}, world.BlockState(1))
	}
	lookup := lookupFor(inst)

	pos := &ecs.Position{X: 5, Y: 1, Z: 5, Instance: inst.Name}
	vel := &ecs.Velocity{}
	rot := ecs.Rotation{} // yaw 0 => forward impulse increases +Z toward the wall
	ph := &ecs.Physics{OnGround: true}
	state := &TickState{}

	for i := 0; i < 50; i++ {
		Step(lookup, pos, vel, rot, ph, state, Input{Forward: 1})
	}

	if pos.Z >= 6 {
		t.Fatalf("expected the wall to stop forward movement before z=6, got z=%v", pos.Z)
	}
}

// settle runs Step for n ticks with no input and returns the final
// position, for the spec.md §8 "spawn above a partial-shape block,
// settle after 20 ticks" scenarios.
func settle(inst *world.Instance, pos *ecs.Position, n int) {
	lookup := lookupFor(inst)
	vel := &ecs.Velocity{}
	rot := ecs.Rotation{}
	ph := &ecs.Physics{}
	state := &TickState{}
	for i := 0; i < n; i++ {
		Step(lookup, pos, vel, rot, ph, state, Input{})
	}
}

func TestStepBottomSlabCollision(t *testing.T) {
	inst := emptyInstance(t, 0, 0)
	inst.SetBlockState(world.BlockPos{X: 0, Y: 69, Z: 0}, world.BlockState(100))

	pos := &ecs.Position{X: 0.5, Y: 71, Z: 0.5, Instance: inst.Name}
	settle(inst, pos, 20)

	if pos.Y != 69.5 {
		t.Fatalf("expected to settle on the bottom slab at y=69.5, got %v", pos.Y)
	}
}

func TestStepTopSlabCollision(t *testing.T) {
	inst := emptyInstance(t, 0, 0)
	inst.SetBlockState(world.BlockPos{X: 0, Y: 69, Z: 0}, world.BlockState(101))

	pos := &ecs.Position{X: 0.5, Y: 71, Z: 0.5, Instance: inst.Name}
	settle(inst, pos, 20)

	if pos.Y != 70.0 {
		t.Fatalf("expected to settle on the top slab at y=70.0, got %v", pos.Y)
	}
}

func TestStepWeirdWallCollision(t *testing.T) {
	inst := emptyInstance(t, 0, 0)
	inst.SetBlockState(world.BlockPos{X: 0, Y: 69, Z: 0}, world.BlockState(102))

	pos := &ecs.Position{X: 0.5, Y: 73, Z: 0.5, Instance: inst.Name}
	settle(inst, pos, 20)

	if pos.Y != 70.5 {
		t.Fatalf("expected to settle on the wall's center post at y=70.5, got %v", pos.Y)
	}
}

func TestStepNegativeCoordinatesWeirdWallCollision(t *testing.T) {
	inst := emptyInstance(t, -1, -1)
	inst.SetBlockState(world.BlockPos{X: -8, Y: 69, Z: -8}, world.BlockState(102))

	pos := &ecs.Position{X: -7.5, Y: 73, Z: -7.5, Instance: inst.Name}
	settle(inst, pos, 20)

	if pos.Y != 70.5 {
		t.Fatalf("expected to settle on the wall's center post at y=70.5, got %v", pos.Y)
	}
}

func TestSendDecisionThresholds(t *testing.T) {
	state := &TickState{}
	pos := ecs.Position{X: 0, Y: 0, Z: 0}
	rot := ecs.Rotation{}

	if d := sendDecision(state, pos, rot, false); d != SendNone {
		t.Fatalf("first call with no change: want SendNone, got %v", d)
	}

	if d := sendDecision(state, pos, rot, false); d != SendNone {
		t.Fatalf("unchanged position/rotation/ground: want SendNone, got %v", d)
	}

	moved := pos
	moved.X += 1.0
	if d := sendDecision(state, moved, rot, false); d != SendPos {
		t.Fatalf("position moved past threshold: want SendPos, got %v", d)
	}

	turned := rot
	turned.Yaw = 90
	if d := sendDecision(state, moved, turned, false); d != SendRot {
		t.Fatalf("only rotation changed: want SendRot, got %v", d)
	}

	moved2 := moved
	moved2.X += 1.0
	turned2 := turned
	turned2.Pitch = 30
	if d := sendDecision(state, moved2, turned2, false); d != SendPosRot {
		t.Fatalf("position and rotation both changed: want SendPosRot, got %v", d)
	}

	if d := sendDecision(state, moved2, turned2, true); d != SendStatusOnly {
		t.Fatalf("only on-ground flipped: want SendStatusOnly, got %v", d)
	}
}

func TestSendDecisionPositionRemainderForcesResend(t *testing.T) {
	state := &TickState{}
	pos := ecs.Position{}
	rot := ecs.Rotation{}

	var last SendDecision
	for i := 0; i < 20; i++ {
		last = sendDecision(state, pos, rot, false)
	}
	if last != SendPos {
		t.Fatalf("20th tick with unchanged position should force a resend, got %v", last)
	}
}

func TestTraceHitsFloorFromAbove(t *testing.T) {
	inst := flatInstance(t)
	res := Trace(inst, [3]float64{5.5, 5, 5.5}, [3]float64{5.5, -1, 5.5}, nil)

	if !res.Hit {
		t.Fatalf("expected the downward ray to hit the floor")
	}
	if res.Block != (world.BlockPos{X: 5, Y: 0, Z: 5}) {
		t.Fatalf("expected to hit block (5,0,5), got %+v", res.Block)
	}
	if res.Face != DirUp {
		t.Fatalf("expected to enter through the top face, got %v", res.Face)
	}
	if res.Inside {
		t.Fatalf("ray started above the floor, should not report inside")
	}
}

func TestTraceStartsInsideBlock(t *testing.T) {
	inst := flatInstance(t)
	res := Trace(inst, [3]float64{5.5, 0.5, 5.5}, [3]float64{5.5, -1, 5.5}, nil)

	if !res.Hit || !res.Inside {
		t.Fatalf("expected a hit with inside=true when starting inside a solid block, got %+v", res)
	}
	if res.Block != (world.BlockPos{X: 5, Y: 0, Z: 5}) {
		t.Fatalf("expected the starting block itself, got %+v", res.Block)
	}
}

func TestTraceMissesOverAir(t *testing.T) {
	inst := flatInstance(t)
	res := Trace(inst, [3]float64{5.5, 5, 5.5}, [3]float64{5.5, 3, 5.5}, nil)

	if res.Hit {
		t.Fatalf("expected no hit when the ray never reaches the floor, got %+v", res)
	}
}

func TestInFluidDetectsWater(t *testing.T) {
	inst := flatInstance(t)
	inst.SetBlockState(world.BlockPos{X: 5, Y: 1, Z: 5}, world.BlockState(9)) // water

	pos := ecs.Position{X: 5, Y: 1, Z: 5, Instance: inst.Name}
	fluid, ok := InFluid(inst, pos)
	if !ok {
		t.Fatalf("expected the player AABB to intersect the water block")
	}
	if fluid.Kind != world.FluidWater {
		t.Fatalf("expected water, got %+v", fluid)
	}
}

func TestApplyBuoyancyReplacesGravityAndScalesHorizontal(t *testing.T) {
	vx, vy, vz := ApplyBuoyancy(1.0, -0.5, 1.0)
	if vy <= -0.5 {
		t.Fatalf("expected buoyancy to reduce the magnitude of downward velocity, got %v", vy)
	}
	if vx >= 1.0 || vz >= 1.0 {
		t.Fatalf("expected horizontal velocity to be scaled down by swim friction, got vx=%v vz=%v", vx, vz)
	}
}

func TestFlowDirectionPointsTowardLowerLevelNeighbor(t *testing.T) {
	inst := flatInstance(t)
	inst.SetBlockState(world.BlockPos{X: 5, Y: 1, Z: 5}, world.BlockState(9))   // water, level 8 (source)
	inst.SetBlockState(world.BlockPos{X: 6, Y: 1, Z: 5}, world.BlockState(114)) // water, level 4
	inst.SetBlockState(world.BlockPos{X: 4, Y: 1, Z: 5}, world.BlockState(1))   // stone, blocks west
	inst.SetBlockState(world.BlockPos{X: 5, Y: 1, Z: 4}, world.BlockState(1))   // stone, blocks north
	inst.SetBlockState(world.BlockPos{X: 5, Y: 1, Z: 6}, world.BlockState(1))   // stone, blocks south

	dx, dz := FlowDirection(inst, world.BlockPos{X: 5, Y: 1, Z: 5})
	if dx <= 0 {
		t.Fatalf("expected flow to point toward the lower water level (+x), got dx=%v dz=%v", dx, dz)
	}
	if dz != 0 {
		t.Fatalf("expected no z component with north/south blocked, got dz=%v", dz)
	}
}

func TestStepAppliesFlowPushWhileInFluid(t *testing.T) {
	inst := flatInstance(t)
	for y := int32(1); y <= 2; y++ {
		inst.SetBlockState(world.BlockPos{X: 5, Y: y, Z: 5}, world.BlockState(9))   // source
		inst.SetBlockState(world.BlockPos{X: 6, Y: y, Z: 5}, world.BlockState(114)) // shallower neighbor
		inst.SetBlockState(world.BlockPos{X: 4, Y: y, Z: 5}, world.BlockState(1))   // stone, blocks west
		inst.SetBlockState(world.BlockPos{X: 5, Y: y, Z: 4}, world.BlockState(1))   // stone, blocks north
		inst.SetBlockState(world.BlockPos{X: 5, Y: y, Z: 6}, world.BlockState(1))   // stone, blocks south
	}
	lookup := lookupFor(inst)
	pos := &ecs.Position{X: 5.5, Y: 1, Z: 5.5, Instance: inst.Name}
	vel := &ecs.Velocity{}
	rot := ecs.Rotation{}
	ph := &ecs.Physics{}
	state := &TickState{}

	Step(lookup, pos, vel, rot, ph, state, Input{})

	if vel.X <= 0 {
		t.Fatalf("expected flowing water to push velocity toward the lower level (+x), got vel=%+v", vel)
	}
}
