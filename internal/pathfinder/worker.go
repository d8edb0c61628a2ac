package pathfinder

import (
	"context"
	"sync"
	"time"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/world"
	"golang.org/x/sync/errgroup"
)

// Worker schedules background A* searches off the GameTick thread
// (spec.md §4.10 "Concurrency of search. Only one search per entity is
// outstanding at a time; search itself runs off the tick thread and
// publishes its Result back onto the ECS world on completion").
//
// Grounded on azalea's own search-on-a-separate-thread split between
// moves/basic.rs's pure move generation and the game loop that drives
// ExecutingPath; azalea schedules its search with a bevy task pool,
// which wasn't part of the retrieved pack, so the scheduling mechanism
// here is built with golang.org/x/sync/errgroup instead; this worker is
// the module's only user of errgroup.
type Worker struct {
	ctx      context.Context
	lookup   WorldLookup
	toolMult ToolMultiplierFunc
	opt      SearchOptions

	mu      sync.Mutex
	pending map[ecs.Handle]context.CancelFunc
}

// NewWorker returns a Worker driving pathfinding for the lifetime of
// ctx (typically the owning connection's context, so every in-flight
// search is cancelled when the connection goes away). lookup resolves
// an entity's Position.Instance to a *world.Instance; toolMult may be
// nil (bare-hands cost estimate).
func NewWorker(ctx context.Context, lookup WorldLookup, toolMult ToolMultiplierFunc, opt SearchOptions) *Worker {
	return &Worker{ctx: ctx, lookup: lookup, toolMult: toolMult, opt: opt, pending: map[ecs.Handle]context.CancelFunc{}}
}

// Tick drains Goto/Stop events and advances every ExecutingPath by one
// GameTick. Matches ecs.System's signature so internal/handlers can
// register it directly into the GameTick schedule.
func (wk *Worker) Tick(w *ecs.World, dt float64) {
	HandleGotoEvent(w, wk.lookup, func(entity ecs.Handle, inst *world.Instance, start world.BlockPos, goal Goal, gen int) {
		wk.start(w, entity, inst, start, goal, gen)
	})
	TickExecutingPath(w, wk.lookup, func(entity ecs.Handle, inst *world.Instance, start world.BlockPos, goal Goal, gen int) {
		wk.start(w, entity, inst, start, goal, gen)
	})

	for _, ev := range ecs.DrainEvents[StopEvent](w) {
		wk.cancel(ev.Entity)
	}
}

// start launches a background search for entity, cancelling any
// search already outstanding for it (spec.md §4.10 "Only one search
// per entity is outstanding at a time").
func (wk *Worker) start(w *ecs.World, entity ecs.Handle, inst *world.Instance, origin world.BlockPos, goal Goal, gen int) {
	wk.cancel(entity)

	searchCtx, cancel := context.WithCancel(wk.ctx)
	wk.mu.Lock()
	wk.pending[entity] = cancel
	wk.mu.Unlock()

	g, gctx := errgroup.WithContext(searchCtx)
	g.Go(func() error {
		cw := NewCachedWorld(inst, wk.toolMult)
		res := Search(cw, origin, goal, wk.opt)

		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}

		ApplySearchResult(w, entity, origin, gen, res)
		return nil
	})

	go func() {
		_ = g.Wait()
		wk.mu.Lock()
		if wk.pending[entity] != nil {
			delete(wk.pending, entity)
		}
		wk.mu.Unlock()
	}()
}

func (wk *Worker) cancel(entity ecs.Handle) {
	wk.mu.Lock()
	cancel, ok := wk.pending[entity]
	if ok {
		delete(wk.pending, entity)
	}
	wk.mu.Unlock()
	if ok {
		cancel()
	}
}

// DefaultSearchOptions matches spec.md §4.10's suggested 1-second time
// budget with a small epsilon favoring progress over raw heuristic
// distance when a search times out partway.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{TimeBudget: time.Second, WeightEpsilon: 1.0}
}
