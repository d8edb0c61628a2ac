package pathfinder

import (
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/interact"
	"github.com/StoreStation/vibeclient/internal/world"
)

// extendSearchWithinNodes kicks off a background extension search once
// fewer than this many unconsumed nodes remain on a partial path
// (spec.md §4.10 "When fewer than N remaining nodes and the path is
// partial, kick off an extension search asynchronously").
const extendSearchWithinNodes = 5

// moveTimeoutTicks bounds how long a single edge may run before the
// controller gives up on it and replans (spec.md §4.10 step 2). Not
// pinned by any retrieved source; chosen generously relative to a
// sprint-one-block's ~4-5 tick duration.
const moveTimeoutTicks = 60

// Pathfinder is the per-entity component tracking whether a
// background search is in flight (spec.md §4.10 "The ECS side exposes
// a Pathfinder{is_calculating, …} component").
type Pathfinder struct {
	Goal          Goal
	IsCalculating bool
	generation    int // bumped on every new Goto, so a stale worker result is discarded
}

// ExecutingPath is the per-entity execution-controller state (spec.md
// §4.10 "Execution controller (ExecutingPath)"). Path holds only
// unconsumed edges: TickExecutingPath pops the head off as each node
// is reached, so splicing an extension search's result is a plain
// append.
type ExecutingPath struct {
	Path               []Edge
	LastReachedNode    RelBlockPos
	Origin             world.BlockPos
	IsPathPartial      bool
	TicksSinceReached  int
	extensionRequested bool
}

// GotoEvent requests a new path to goal (spec.md §6 Client.goto(goal)).
type GotoEvent struct {
	Entity ecs.Handle
	Goal   Goal
}

// Goto queues a GotoEvent for entity.
func Goto(w *ecs.World, entity ecs.Handle, goal Goal) {
	ecs.PushEvent(w, GotoEvent{Entity: entity, Goal: goal})
}

// StopEvent cancels any in-progress or queued path for an entity.
type StopEvent struct {
	Entity ecs.Handle
}

// Stop cancels entity's current goal, in-flight search, and executing
// path.
func Stop(w *ecs.World, entity ecs.Handle) {
	ecs.PushEvent(w, StopEvent{Entity: entity})
}

// WorldLookup resolves the Instance an entity's Position.Instance
// names, matching internal/physics and internal/interact's own
// lookup-callback convention.
type WorldLookup = interact.InstanceLookup

// HandleGotoEvent drains queued GotoEvent/StopEvent and starts
// background searches (spec.md §4.10 "Only one search per entity is
// outstanding at a time"). Searcher is supplied by the caller
// (Worker.Search) so this package's event handling stays independent
// of how a search is actually scheduled onto a goroutine.
func HandleGotoEvent(w *ecs.World, lookup WorldLookup, searcher func(entity ecs.Handle, inst *world.Instance, start world.BlockPos, goal Goal, gen int)) {
	for _, ev := range ecs.DrainEvents[StopEvent](w) {
		ecs.Remove[Pathfinder](w, ev.Entity)
		ecs.Remove[ExecutingPath](w, ev.Entity)
	}

	for _, ev := range ecs.DrainEvents[GotoEvent](w) {
		pos, ok := ecs.Get[ecs.Position](w, ev.Entity)
		if !ok {
			continue
		}
		inst, ok := lookup(pos.Instance)
		if !ok {
			continue
		}
		gen := 0
		if pf, ok := ecs.Get[Pathfinder](w, ev.Entity); ok {
			gen = pf.generation + 1
		}
		ecs.Insert(w, ev.Entity, Pathfinder{Goal: ev.Goal, IsCalculating: true, generation: gen})
		start := world.BlockPos{X: int32(floor(pos.X)), Y: int32(floor(pos.Y)), Z: int32(floor(pos.Z))}
		searcher(ev.Entity, inst, start, ev.Goal, gen)
	}
}

// ApplySearchResult installs a finished (possibly background) search
// result onto entity, unless a newer Goto superseded it (gen
// mismatch) or the entity's Pathfinder/path state has since been
// cleared (e.g. by Stop).
func ApplySearchResult(w *ecs.World, entity ecs.Handle, origin world.BlockPos, gen int, res Result) {
	pf, ok := ecs.Get[Pathfinder](w, entity)
	if !ok || pf.generation != gen {
		return
	}
	ecs.Mutate(w, entity, func(p *Pathfinder) { p.IsCalculating = false })

	if !res.Found {
		ecs.Remove[ExecutingPath](w, entity)
		return
	}

	if existing, ok := ecs.Get[ExecutingPath](w, entity); ok && len(existing.Path) > 0 {
		splicePath(w, entity, existing, origin, res)
		return
	}

	ecs.Insert(w, entity, ExecutingPath{
		Path:          res.Path,
		Origin:        origin,
		IsPathPartial: res.Partial,
	})
}

// splicePath grafts an extension search's result onto the tail of the
// currently executing path (spec.md §4.10 "when it returns, splice at
// last_reached_node"). existing.Path already holds only the edges not
// yet reached, so the splice is a plain append after them — but res was
// produced by a fresh Search with its own origin (the tail node the
// extension started from), so every edge's RelBlockPos must first be
// rebased onto existing.Origin before appending.
func splicePath(w *ecs.World, entity ecs.Handle, existing ExecutingPath, extensionOrigin world.BlockPos, res Result) {
	rebased := make([]Edge, len(res.Path))
	for i, e := range res.Path {
		e.Target = originOffset(existing.Origin, e.Target.Abs(extensionOrigin))
		rebased[i] = e
	}
	spliced := append(append([]Edge{}, existing.Path...), rebased...)
	ecs.Insert(w, entity, ExecutingPath{
		Path:              spliced,
		LastReachedNode:   existing.LastReachedNode,
		Origin:            existing.Origin,
		IsPathPartial:     res.Partial,
		TicksSinceReached: existing.TicksSinceReached,
	})
}

func floor(v float64) float64 {
	if v >= 0 {
		return float64(int64(v))
	}
	i := int64(v)
	if float64(i) != v {
		i--
	}
	return float64(i)
}

// TickExecutingPath advances every entity's ExecutingPath by one
// GameTick (spec.md §4.10 "Execution controller... On each GameTick").
// lookup resolves world instances; kickExtension is called (at most
// once per entity per call) when the remaining path is short and
// partial, so the caller can schedule a background extension search.
func TickExecutingPath(w *ecs.World, lookup WorldLookup, kickExtension func(entity ecs.Handle, inst *world.Instance, start world.BlockPos, goal Goal, gen int)) {
	type entry struct {
		h  ecs.Handle
		ep ExecutingPath
	}
	var active []entry
	ecs.Query1[ExecutingPath](w, nil, func(h ecs.Handle, ep ExecutingPath) {
		active = append(active, entry{h, ep})
	})

	for _, e := range active {
		h, ep := e.h, e.ep
		pos, ok := ecs.Get[ecs.Position](w, h)
		if !ok {
			continue
		}
		inst, ok := lookup(pos.Instance)
		if !ok {
			continue
		}

		if len(ep.Path) == 0 {
			ecs.Remove[ExecutingPath](w, h)
			continue
		}

		position := [3]float64{pos.X, pos.Y, pos.Z}
		vel, _ := ecs.Get[ecs.Velocity](w, h)

		edge := ep.Path[0]
		isReached := edge.IsReached(IsReachedCtx{
			Target: edge.Target, Start: ep.LastReachedNode, Origin: ep.Origin, Position: position,
		})

		if isReached {
			ep.Path = ep.Path[1:]
			ep.LastReachedNode = edge.Target
			ep.TicksSinceReached = 0
			if len(ep.Path) == 0 {
				ecs.Remove[ExecutingPath](w, h)
				continue
			}
		} else {
			ep.TicksSinceReached++
			if ep.TicksSinceReached > moveTimeoutTicks {
				ecs.Remove[ExecutingPath](w, h)
				replan(w, h)
				continue
			}
		}

		if obstructed(inst, ep) {
			ecs.Remove[ExecutingPath](w, h)
			replan(w, h)
			continue
		}

		edge = ep.Path[0]
		ctx := ExecuteCtx{
			Entity: h, Target: edge.Target, Start: ep.LastReachedNode, Origin: ep.Origin,
			Position: position, Velocity: [3]float64{vel.X, vel.Y, vel.Z},
			world: w, inst: inst,
		}
		edge.Execute(ctx)

		if len(ep.Path) < extendSearchWithinNodes && ep.IsPathPartial && !ep.extensionRequested && kickExtension != nil {
			ep.extensionRequested = true
			if pf, ok := ecs.Get[Pathfinder](w, h); ok {
				kickExtension(h, inst, ep.Path[len(ep.Path)-1].Target.Abs(ep.Origin), pf.Goal, pf.generation)
			}
		}

		ecs.Insert(w, h, ep)
	}
}

// replan re-queues a GotoEvent using the entity's existing Goal, or
// does nothing if it no longer has a Pathfinder (e.g. Stop raced with
// this tick).
func replan(w *ecs.World, h ecs.Handle) {
	pf, ok := ecs.Get[Pathfinder](w, h)
	if !ok || pf.Goal == nil {
		return
	}
	ecs.PushEvent(w, GotoEvent{Entity: h, Goal: pf.Goal})
}

// obstructed checks whether the blocks the current and next move
// reference still have the standable/passable/solid property they had
// when planned (spec.md §4.10 step 3).
func obstructed(inst *world.Instance, ep ExecutingPath) bool {
	cw := NewCachedWorld(inst, nil)
	check := func(rel RelBlockPos) bool {
		return cw.IsStandable(rel.Abs(ep.Origin))
	}
	if !check(ep.Path[0].Target) {
		return true
	}
	if len(ep.Path) > 1 && !check(ep.Path[1].Target) {
		return true
	}
	return false
}
