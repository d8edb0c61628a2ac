package pathfinder

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/interact"
	"github.com/StoreStation/vibeclient/internal/world"
)

// Edge is one candidate move out of a node, generalizing basic.rs's
// astar::Movement{target, data}: a destination plus the cost of
// getting there and the behavior for executing it.
type Edge struct {
	Target    RelBlockPos
	Cost      float64
	Execute   func(ExecuteCtx)
	IsReached func(IsReachedCtx) bool
}

// MoveGenCtx is passed to every move generator (basic.rs's
// PathfinderCtx, narrowed to what this package's generators need): the
// memoized world view plus the origin a search's RelBlockPos values
// are relative to.
type MoveGenCtx struct {
	World  *CachedWorld
	Origin world.BlockPos
}

// Generate appends every edge reachable from node to edges, running
// the six move generators spec.md §4.10 names (basic.rs's
// basic_move).
func (ctx MoveGenCtx) Generate(node RelBlockPos) []Edge {
	var edges []Edge
	edges = forwardMove(ctx, node, edges)
	edges = ascendMove(ctx, node, edges)
	edges = descendMove(ctx, node, edges)
	edges = diagonalMove(ctx, node, edges)
	edges = descendForward1Move(ctx, node, edges)
	edges = downwardMove(ctx, node, edges)
	return edges
}

func forwardMove(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	for _, dir := range cardinalDirections {
		target := pos.Add(dir)
		cost := SprintOneBlockCost
		breakCost := ctx.World.CostForStanding(target.Abs(ctx.Origin))
		if math.IsInf(breakCost, 1) {
			continue
		}
		cost += breakCost
		edges = append(edges, Edge{
			Target: target, Cost: cost,
			Execute:   executeForwardMove,
			IsReached: defaultIsReached,
		})
	}
	return edges
}

func executeForwardMove(ctx ExecuteCtx) {
	center := ctx.Target.Center(ctx.Origin)
	if ctx.MineWhileAtStart(ctx.Target.Up(1)) {
		return
	}
	if ctx.MineWhileAtStart(ctx.Target) {
		return
	}
	ctx.LookAt(center)
	ctx.Sprint()
}

func ascendMove(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	for _, dir := range cardinalDirections {
		target := pos.Add(RelBlockPos{X: dir.X, Y: 1, Z: dir.Z})

		breakCost1 := ctx.World.CostForBreaking(pos.Up(2).Abs(ctx.Origin))
		if math.IsInf(breakCost1, 1) {
			continue
		}
		breakCost2 := ctx.World.CostForStanding(target.Abs(ctx.Origin))
		if math.IsInf(breakCost2, 1) {
			continue
		}
		cost := SprintOneBlockCost + JumpPenalty + JumpOneBlockCost + breakCost1 + breakCost2
		edges = append(edges, Edge{
			Target: target, Cost: cost,
			Execute:   executeAscendMove,
			IsReached: ascendIsReached,
		})
	}
	return edges
}

func executeAscendMove(ctx ExecuteCtx) {
	if ctx.MineWhileAtStart(ctx.Start.Up(2)) {
		return
	}
	if ctx.MineWhileAtStart(ctx.Target) {
		return
	}
	if ctx.MineWhileAtStart(ctx.Target.Up(1)) {
		return
	}

	targetCenter := ctx.Target.Center(ctx.Origin)
	ctx.LookAt(targetCenter)
	ctx.Walk()

	xAxis := absInt32(ctx.Start.X - ctx.Target.X)
	zAxis := absInt32(ctx.Start.Z - ctx.Target.Z)
	flatDistance := float64(xAxis)*(targetCenter[0]-ctx.Position[0]) + float64(zAxis)*(targetCenter[2]-ctx.Position[2])
	sideDistance := float64(zAxis)*math.Abs(targetCenter[0]-ctx.Position[0]) + float64(xAxis)*math.Abs(targetCenter[2]-ctx.Position[2])
	lateralMotion := float64(xAxis)*ctx.Velocity[2] + float64(zAxis)*ctx.Velocity[0]
	if math.Abs(lateralMotion) > 0.1 {
		return
	}
	if flatDistance > 1.2 || sideDistance > 0.2 {
		return
	}
	if blockPosAt(ctx.Position) == ctx.Start.Abs(ctx.Origin) {
		ctx.Jump()
	}
}

func ascendIsReached(c IsReachedCtx) bool {
	p := blockPosAt(c.Position)
	return p == c.Target.Abs(c.Origin) || p == c.Target.Down(1).Abs(c.Origin)
}

func descendMove(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	for _, dir := range cardinalDirections {
		newHoriz := pos.Add(dir)

		breakCost1 := ctx.World.CostForPassing(newHoriz.Abs(ctx.Origin))
		if math.IsInf(breakCost1, 1) {
			continue
		}

		fallDistance := ctx.World.FallDistance(newHoriz.Abs(ctx.Origin))
		if fallDistance > 3 {
			continue
		}
		if fallDistance == 0 {
			fallDistance = 1
		}

		target := newHoriz.Down(fallDistance)

		var breakCost2 float64
		if fallDistance == 1 {
			breakCost2 = ctx.World.CostForStanding(target.Abs(ctx.Origin))
			if math.IsInf(breakCost2, 1) {
				continue
			}
		} else if !ctx.World.IsStandable(target.Abs(ctx.Origin)) {
			continue
		}

		fallCost := FallNBlocksCost[fallDistance]
		cost := WalkOffBlockCost + math.Max(fallCost, CenterAfterFallCost) + breakCost1 + breakCost2
		edges = append(edges, Edge{
			Target: target, Cost: cost,
			Execute:   executeDescendMove,
			IsReached: descendIsReached,
		})
	}
	return edges
}

func executeDescendMove(ctx ExecuteCtx) {
	for i := ctx.Start.Y - ctx.Target.Y + 1; i >= 0; i-- {
		if ctx.MineWhileAtStart(ctx.Target.Up(i)) {
			return
		}
	}

	startCenter := ctx.Start.Center(ctx.Origin)
	center := ctx.Target.Center(ctx.Origin)

	horizFromTarget := horizontalDistance(center, ctx.Position)
	horizFromStart := horizontalDistance(startCenter, ctx.Position)

	destAhead := [3]float64{
		startCenter[0] + (center[0]-startCenter[0])*1.5,
		center[1],
		startCenter[2] + (center[2]-startCenter[2])*1.5,
	}

	if blockPosAt(ctx.Position) != ctx.Target.Abs(ctx.Origin) || horizFromTarget > 0.25 {
		if horizFromStart < 1.25 {
			ctx.LookAt(destAhead)
			ctx.Walk()
		} else {
			ctx.LookAt(center)
			ctx.Walk()
		}
	} else {
		ctx.StopWalking()
	}
}

func descendIsReached(c IsReachedCtx) bool {
	destAhead := RelBlockPos{
		X: c.Start.X + (c.Target.X-c.Start.X)*2,
		Y: c.Target.Y,
		Z: c.Start.Z + (c.Target.Z-c.Start.Z)*2,
	}
	p := blockPosAt(c.Position)
	return (p == c.Target.Abs(c.Origin) || p == destAhead.Abs(c.Origin)) && (c.Position[1]-float64(c.Target.Abs(c.Origin).Y) < 0.5)
}

func descendForward1Move(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	for _, dir := range cardinalDirections {
		gapHoriz := pos.Add(dir)
		newHoriz := pos.Add(RelBlockPos{X: dir.X * 2, Y: dir.Y, Z: dir.Z * 2})

		gapFall := ctx.World.FallDistance(gapHoriz.Abs(ctx.Origin))
		fallDistance := ctx.World.FallDistance(newHoriz.Abs(ctx.Origin))
		if fallDistance == 0 || fallDistance > 3 || gapFall < fallDistance {
			continue
		}

		target := newHoriz.Down(fallDistance)

		if !ctx.World.IsPassable(newHoriz.Abs(ctx.Origin)) {
			continue
		}
		if !ctx.World.IsPassable(gapHoriz.Abs(ctx.Origin)) {
			continue
		}
		if !ctx.World.IsStandable(target.Abs(ctx.Origin)) {
			continue
		}

		fallCost := FallNBlocksCost[fallDistance]
		cost := WalkOffBlockCost + WalkOneBlockCost + math.Max(fallCost, CenterAfterFallCost)
		edges = append(edges, Edge{
			Target: target, Cost: cost,
			Execute:   executeDescendMove,
			IsReached: descendIsReached,
		})
	}
	return edges
}

func diagonalMove(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	for _, dir := range cardinalDirections {
		right := rightOf(dir)
		offset := RelBlockPos{X: dir.X + right.X, Y: 0, Z: dir.Z + right.Z}
		leftPos := RelBlockPos{X: pos.X + dir.X, Y: pos.Y, Z: pos.Z + dir.Z}
		rightPos := RelBlockPos{X: pos.X + right.X, Y: pos.Y, Z: pos.Z + right.Z}

		cost := SprintOneBlockCost*math.Sqrt2 + 0.001

		leftPassable := ctx.World.IsPassable(leftPos.Abs(ctx.Origin))
		rightPassable := ctx.World.IsPassable(rightPos.Abs(ctx.Origin))
		if !leftPassable && !rightPassable {
			continue
		}
		if !leftPassable || !rightPassable {
			cost += WalkOneBlockCost / 2
		}

		target := pos.Add(offset)
		if !ctx.World.IsStandable(target.Abs(ctx.Origin)) {
			continue
		}

		edges = append(edges, Edge{
			Target: target, Cost: cost,
			Execute:   executeDiagonalMove,
			IsReached: defaultIsReached,
		})
	}
	return edges
}

func executeDiagonalMove(ctx ExecuteCtx) {
	ctx.LookAt(ctx.Target.Center(ctx.Origin))
	ctx.Sprint()
}

// downwardMove mines straight down, only offered when the block two
// below is solid ground to land on (basic.rs's downward_move).
func downwardMove(ctx MoveGenCtx, pos RelBlockPos, edges []Edge) []Edge {
	if !ctx.World.IsBlockSolid(pos.Down(2).Abs(ctx.Origin)) {
		return edges
	}
	breakCost := ctx.World.CostForBreaking(pos.Down(1).Abs(ctx.Origin))
	if math.IsInf(breakCost, 1) {
		return edges
	}
	cost := FallNBlocksCost[1] + breakCost
	target := pos.Down(1)
	edges = append(edges, Edge{
		Target: target, Cost: cost,
		Execute:   executeDownwardMove,
		IsReached: defaultIsReached,
	})
	return edges
}

func executeDownwardMove(ctx ExecuteCtx) {
	targetCenter := ctx.Target.Center(ctx.Origin)
	horizFromTarget := horizontalDistance(targetCenter, ctx.Position)

	switch {
	case horizFromTarget > 0.25:
		ctx.LookAt(targetCenter)
		ctx.Walk()
	case ctx.MineWhileAtStart(ctx.Target):
		ctx.StopWalking()
	case blockPosAt(ctx.Position) != ctx.Target.Abs(ctx.Origin):
		ctx.LookAt(targetCenter)
		ctx.Walk()
	default:
		ctx.StopWalking()
	}
}

// defaultIsReached is satisfied once the entity's feet occupy the
// target block (basic.rs's default_is_reached).
func defaultIsReached(c IsReachedCtx) bool {
	return blockPosAt(c.Position) == c.Target.Abs(c.Origin)
}

// IsReachedCtx is the read-only state an edge's IsReached predicate
// inspects each tick (basic.rs's IsReachedCtx).
type IsReachedCtx struct {
	Target   RelBlockPos
	Start    RelBlockPos
	Origin   world.BlockPos
	Position [3]float64
}

// ExecuteCtx is the mutable per-tick context an edge's Execute closure
// uses to drive movement (basic.rs's ExecuteCtx), generalized off
// ecs.World/internal/interact rather than Bevy's Commands/
// MessageWriter set.
type ExecuteCtx struct {
	Entity   ecs.Handle
	Target   RelBlockPos
	Start    RelBlockPos
	Origin   world.BlockPos
	Position [3]float64
	Velocity [3]float64

	world *ecs.World
	inst  *world.Instance
}

// LookAt points the entity's rotation at a world-space point (basic.rs
// ExecuteCtx::look_at), using the inverse of internal/interact's
// yaw/pitch convention (yaw 0 faces +Z, pitch 0 horizontal).
func (c ExecuteCtx) LookAt(point [3]float64) {
	eye := [3]float64{c.Position[0], c.Position[1] + eyeHeightConst, c.Position[2]}
	dx := point[0] - eye[0]
	dy := point[1] - eye[1]
	dz := point[2] - eye[2]
	horiz := math.Sqrt(dx*dx + dz*dz)
	yaw := math.Atan2(-dx, dz) * 180 / math.Pi
	pitch := math.Atan2(-dy, horiz) * 180 / math.Pi
	ecs.Insert(c.world, c.Entity, ecs.Rotation{Yaw: float32(yaw), Pitch: float32(pitch)})
}

const eyeHeightConst = 1.62

// Sprint sets the entity's desired movement to sprinting forward
// (basic.rs's ctx.sprint(SprintDirection::Forward)).
func (c ExecuteCtx) Sprint() {
	ecs.Mutate(c.world, c.Entity, func(in *ecs.WalkInput) { in.Forward, in.Strafe = 1, 0 })
	ecs.Mutate(c.world, c.Entity, func(p *ecs.Physics) { p.Sprinting = true })
}

// Walk sets the entity's desired movement to walking forward without
// sprinting (basic.rs's ctx.walk(WalkDirection::Forward)).
func (c ExecuteCtx) Walk() {
	ecs.Mutate(c.world, c.Entity, func(in *ecs.WalkInput) { in.Forward, in.Strafe = 1, 0 })
	ecs.Mutate(c.world, c.Entity, func(p *ecs.Physics) { p.Sprinting = false })
}

// StopWalking zeroes the entity's movement impulse (basic.rs's
// ctx.walk(WalkDirection::None)).
func (c ExecuteCtx) StopWalking() {
	ecs.Mutate(c.world, c.Entity, func(in *ecs.WalkInput) { in.Forward, in.Strafe = 0, 0 })
	ecs.Mutate(c.world, c.Entity, func(p *ecs.Physics) { p.Sprinting = false })
}

// Jump requests one jump impulse (basic.rs's ctx.jump()) by setting
// ecs.Physics.Jumping; internal/physics.Step applies the impulse the
// next tick the entity is on the ground and clears the flag.
func (c ExecuteCtx) Jump() {
	ecs.Mutate(c.world, c.Entity, func(p *ecs.Physics) { p.Jumping = true })
}

// MineWhileAtStart begins (or continues) breaking pos if it isn't
// already passable, returning true if mining is in progress and the
// move's execute closure should wait rather than also move this tick
// (basic.rs's ExecuteCtx::mine_while_at_start).
func (c ExecuteCtx) MineWhileAtStart(rel RelBlockPos) bool {
	pos := rel.Abs(c.Origin)
	if c.inst == nil {
		return false
	}
	state, ok := c.inst.GetBlockState(pos)
	if !ok || !world.Info(state).Solid {
		return false
	}
	if mining, ok := ecs.Get[interact.Mining](c.world, c.Entity); ok && mining.Phase == interact.MiningActive && mining.Pos == pos {
		return true // already breaking this block, don't restart its progress
	}
	interact.Mine(c.world, c.Entity, pos)
	return true
}

func blockPosAt(p [3]float64) world.BlockPos {
	return world.BlockPos{X: int32(math.Floor(p[0])), Y: int32(math.Floor(p[1])), Z: int32(math.Floor(p[2]))}
}

func horizontalDistance(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dz*dz)
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
