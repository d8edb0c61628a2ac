package pathfinder

import (
	"testing"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/world"
)

// flatInstance builds a single-section instance with a solid stone
// floor at y=0 across the whole 16x16 column at (0,0).
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

func lookupFor(inst *world.Instance) WorldLookup {
	return func(name string) (*world.Instance, bool) {
		if name != inst.Name {
			return nil, false
		}
		return inst, true
	}
}

func TestSearchFlatFloorFindsDirectPath(t *testing.T) {
	inst := flatInstance(t)
	cw := NewCachedWorld(inst, nil)

	start := world.BlockPos{X: 2, Y: 1, Z: 2}
	goal := BlockPosGoal{Target: world.BlockPos{X: 6, Y: 1, Z: 2}}

	res := Search(cw, start, goal, SearchOptions{WeightEpsilon: 1.0})
	if !res.Found || res.Partial {
		t.Fatalf("expected a full path, got %+v", res)
	}
	if len(res.Path) == 0 {
		t.Fatalf("expected a non-empty path")
	}

	pos := start
	for _, edge := range res.Path {
		pos = edge.Target.Abs(start)
	}
	if pos != goal.Target {
		t.Fatalf("path doesn't end at goal: got %+v want %+v", pos, goal.Target)
	}
}

func TestSearchNoPathWhenWalledIn(t *testing.T) {
	inst := flatInstance(t)
	// Wall the start block in on all four sides with unbreakable
	// bedrock, floor to well above head height, so no move generator can
	// ever escape it (moves may mine through stone, so stone would not).
	for y := int32(1); y < 6; y++ {
		inst.SetBlockState(world.BlockPos{X: 1, Y: y, Z: 2}, world.BlockState(7))
		inst.SetBlockState(world.BlockPos{X: 3, Y: y, Z: 2}, world.BlockState(7))
		inst.SetBlockState(world.BlockPos{X: 2, Y: y, Z: 1}, world.BlockState(7))
		inst.SetBlockState(world.BlockPos{X: 2, Y: y, Z: 3}, world.BlockState(7))
	}
	cw := NewCachedWorld(inst, nil)

	start := world.BlockPos{X: 2, Y: 1, Z: 2}
	goal := BlockPosGoal{Target: world.BlockPos{X: 20, Y: 1, Z: 20}}

	res := Search(cw, start, goal, SearchOptions{WeightEpsilon: 1.0})
	if res.Found {
		t.Fatalf("expected no path out of a sealed box, got %+v", res)
	}
}

func TestSearchReturnsPartialPathWhenBudgetExpires(t *testing.T) {
	inst := flatInstance(t)
	cw := NewCachedWorld(inst, nil)

	start := world.BlockPos{X: 8, Y: 1, Z: 8}
	// Goal far outside the loaded floor, with a budget of 1ns so the
	// very first deadline check (before any node is even popped) trips
	// and the search falls back to its best-seen node.
	goal := BlockPosGoal{Target: world.BlockPos{X: 500, Y: 1, Z: 500}}

	res := Search(cw, start, goal, SearchOptions{WeightEpsilon: 1.0, TimeBudget: 1})
	if !res.Found || !res.Partial {
		t.Fatalf("expected a partial fallback path, got %+v", res)
	}
}

func TestCachedWorldIsStandableRequiresFootingAndHeadroom(t *testing.T) {
	inst := flatInstance(t)
	cw := NewCachedWorld(inst, nil)

	if !cw.IsStandable(world.BlockPos{X: 5, Y: 1, Z: 5}) {
		t.Fatalf("expected (5,1,5) to be standable on the stone floor")
	}
	if cw.IsStandable(world.BlockPos{X: 5, Y: 0, Z: 5}) {
		t.Fatalf("(5,0,5) is inside solid stone, should not be standable")
	}
	if cw.IsStandable(world.BlockPos{X: 100, Y: 1, Z: 100}) {
		t.Fatalf("unloaded block should not be standable")
	}
}

func TestCachedWorldCostForBreakingMemoizes(t *testing.T) {
	inst := flatInstance(t)
	cw := NewCachedWorld(inst, nil)

	pos := world.BlockPos{X: 5, Y: 0, Z: 5}
	first := cw.CostForBreaking(pos)
	if first <= 0 {
		t.Fatalf("expected a positive cost to break solid stone, got %v", first)
	}
	inst.SetBlockState(pos, world.BlockState(0)) // change underlying world after first read
	second := cw.CostForBreaking(pos)
	if second != first {
		t.Fatalf("expected memoized cost to stick despite world mutation: first=%v second=%v", first, second)
	}
}

func TestGotoStartsSearchAndExecutesToGoal(t *testing.T) {
	w := ecs.NewWorld()
	inst := flatInstance(t)
	lookup := lookupFor(inst)

	h := w.Spawn()
	ecs.Insert(w, h, ecs.Position{X: 2.5, Y: 1, Z: 2.5, Instance: inst.Name})
	ecs.Insert(w, h, ecs.Velocity{})
	ecs.Insert(w, h, ecs.Physics{OnGround: true})
	ecs.Insert(w, h, ecs.WalkInput{})

	goal := BlockPosGoal{Target: world.BlockPos{X: 4, Y: 1, Z: 2}}
	Goto(w, h, goal)

	HandleGotoEvent(w, lookup, func(entity ecs.Handle, inst *world.Instance, start world.BlockPos, goal Goal, gen int) {
		cw := NewCachedWorld(inst, nil)
		res := Search(cw, start, goal, SearchOptions{WeightEpsilon: 1.0})
		ApplySearchResult(w, entity, start, gen, res)
	})

	pf, ok := ecs.Get[Pathfinder](w, h)
	if !ok {
		t.Fatalf("expected a Pathfinder component after Goto+HandleGotoEvent")
	}
	if pf.IsCalculating {
		t.Fatalf("expected IsCalculating to be cleared once ApplySearchResult ran synchronously")
	}

	ep, ok := ecs.Get[ExecutingPath](w, h)
	if !ok || len(ep.Path) == 0 {
		t.Fatalf("expected a non-empty ExecutingPath after a successful search, got %+v ok=%v", ep, ok)
	}

	for i := 0; i < 200; i++ {
		ep, ok := ecs.Get[ExecutingPath](w, h)
		if !ok {
			break
		}
		// No physics runs here, so stand the entity on the current edge's
		// target in place of the movement its Execute closure requests.
		if len(ep.Path) > 0 {
			c := ep.Path[0].Target.Center(ep.Origin)
			ecs.Insert(w, h, ecs.Position{X: c[0], Y: c[1], Z: c[2], Instance: inst.Name})
		}
		TickExecutingPath(w, lookup, nil)
	}

	if _, ok := ecs.Get[ExecutingPath](w, h); ok {
		t.Fatalf("expected ExecutingPath to be cleared once the goal is reached")
	}
	if pos, _ := ecs.Get[ecs.Position](w, h); blockPosAt([3]float64{pos.X, pos.Y, pos.Z}) != goal.Target {
		t.Fatalf("expected the entity to end on the goal block %+v, got %+v", goal.Target, pos)
	}
}

func TestStopClearsPathfinderAndExecutingPath(t *testing.T) {
	w := ecs.NewWorld()
	h := w.Spawn()
	ecs.Insert(w, h, Pathfinder{IsCalculating: true})
	ecs.Insert(w, h, ExecutingPath{Path: []Edge{{}}})

	Stop(w, h)
	inst := flatInstance(t)
	HandleGotoEvent(w, lookupFor(inst), func(ecs.Handle, *world.Instance, world.BlockPos, Goal, int) {
		t.Fatalf("Stop should not trigger a new search")
	})

	if _, ok := ecs.Get[Pathfinder](w, h); ok {
		t.Fatalf("expected Pathfinder to be removed after Stop")
	}
	if _, ok := ecs.Get[ExecutingPath](w, h); ok {
		t.Fatalf("expected ExecutingPath to be removed after Stop")
	}
}

func TestApplySearchResultIgnoresStaleGeneration(t *testing.T) {
	w := ecs.NewWorld()
	h := w.Spawn()
	ecs.Insert(w, h, Pathfinder{IsCalculating: true, generation: 1})

	ApplySearchResult(w, h, world.BlockPos{}, 0, Result{Found: true, Path: []Edge{{}}})

	if _, ok := ecs.Get[ExecutingPath](w, h); ok {
		t.Fatalf("a stale (generation 0) result should not install an ExecutingPath when current generation is 1")
	}
	pf, _ := ecs.Get[Pathfinder](w, h)
	if !pf.IsCalculating {
		t.Fatalf("stale result should not clear IsCalculating either")
	}
}

func TestApplySearchResultNotFoundClearsExecutingPath(t *testing.T) {
	w := ecs.NewWorld()
	h := w.Spawn()
	ecs.Insert(w, h, Pathfinder{IsCalculating: true})
	ecs.Insert(w, h, ExecutingPath{Path: []Edge{{}}})

	ApplySearchResult(w, h, world.BlockPos{}, 0, Result{Found: false})

	if _, ok := ecs.Get[ExecutingPath](w, h); ok {
		t.Fatalf("expected ExecutingPath removed when the search found no path")
	}
}
