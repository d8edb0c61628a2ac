package pathfinder

import (
	"container/heap"
	"time"

	"github.com/StoreStation/vibeclient/internal/world"
)

// Result is what a search produces (spec.md §4.10 "Search"):
// Partial is true when the time budget expired before the goal (or an
// exhausted frontier) was reached, in which case Path is the best node
// seen by lowest heuristic+g·ε.
type Result struct {
	Path    []Edge
	Partial bool
	Found   bool // false only when the frontier was exhausted with no path at all
}

// SearchOptions tunes one Search call.
type SearchOptions struct {
	// TimeBudget bounds how long Search runs before falling back to a
	// partial path (spec.md §4.10 "a time budget (configurable, e.g. 1
	// s)"). Zero means "no budget" (run to exhaustion).
	TimeBudget time.Duration
	// WeightEpsilon scales g in the partial-path tiebreak heuristic +
	// g·ε (spec.md §4.10), preferring nodes that made more progress
	// when several are similarly close to the goal by heuristic alone.
	WeightEpsilon float64
}

type openEntry struct {
	node RelBlockPos
	f    float64
	seq  int // insertion order, breaks exact f ties deterministically
	index int
}

type openHeap []*openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	e := x.(*openEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

type nodeState struct {
	g      float64
	cameBy *Edge
	cameFrom RelBlockPos
	closed bool
}

// Search runs A* from start toward goal (spec.md §4.10 "Search. A*;
// the f-score is g + heuristic(target); closed-set uses the
// RelBlockPos"). start/target are absolute; the search's own origin is
// start, so every RelBlockPos produced internally stays small.
//
// azalea ships an MTD(f)-style bidirectional refinement alongside
// plain A* (mtdstarlite.rs); only plain A* is implemented here, left
// as a possible follow-up rather than a second search strategy, since
// the testable properties this module's tests assume only cover one
// documented algorithm.
func Search(cw *CachedWorld, start world.BlockPos, goal Goal, opt SearchOptions) Result {
	origin := start
	genCtx := MoveGenCtx{World: cw, Origin: origin}
	startRel := RelBlockPos{}

	states := map[RelBlockPos]*nodeState{startRel: {g: 0}}
	open := &openHeap{}
	heap.Init(open)
	entries := map[RelBlockPos]*openEntry{}
	seq := 0

	push := func(n RelBlockPos, f float64) {
		seq++
		e := &openEntry{node: n, f: f, seq: seq}
		entries[n] = e
		heap.Push(open, e)
	}
	push(startRel, goal.Heuristic(start))

	var best RelBlockPos = startRel
	bestScore := goal.Heuristic(start)

	deadline := time.Time{}
	if opt.TimeBudget > 0 {
		deadline = time.Now().Add(opt.TimeBudget)
	}

	for open.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Result{Path: reconstruct(states, best, origin), Partial: true, Found: true}
		}

		cur := heap.Pop(open).(*openEntry)
		delete(entries, cur.node)
		st := states[cur.node]
		if st.closed {
			continue
		}
		st.closed = true

		curAbs := cur.node.Abs(origin)
		if goal.Success(curAbs) {
			return Result{Path: reconstruct(states, cur.node, origin), Partial: false, Found: true}
		}

		score := goal.Heuristic(curAbs) + st.g*opt.WeightEpsilon
		if score < bestScore {
			bestScore = score
			best = cur.node
		}

		for _, edge := range genCtx.Generate(cur.node) {
			neighborG := st.g + edge.Cost
			ns, ok := states[edge.Target]
			if !ok {
				ns = &nodeState{g: positiveInf}
				states[edge.Target] = ns
			}
			if ns.closed || neighborG >= ns.g {
				continue
			}
			edgeCopy := edge
			ns.g = neighborG
			ns.cameBy = &edgeCopy
			ns.cameFrom = cur.node

			f := neighborG + goal.Heuristic(edge.Target.Abs(origin))
			if existing, ok := entries[edge.Target]; ok {
				existing.f = f
				heap.Fix(open, existing.index)
			} else {
				push(edge.Target, f)
			}
		}
	}

	if best == startRel {
		return Result{Found: false}
	}
	return Result{Path: reconstruct(states, best, origin), Partial: true, Found: true}
}

const positiveInf = 1e18

// reconstruct walks cameBy links from node back to the search origin
// and returns the edges in traversal order.
func reconstruct(states map[RelBlockPos]*nodeState, node RelBlockPos, origin world.BlockPos) []Edge {
	var path []Edge
	for {
		st := states[node]
		if st == nil || st.cameBy == nil {
			break
		}
		path = append(path, *st.cameBy)
		node = st.cameFrom
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
