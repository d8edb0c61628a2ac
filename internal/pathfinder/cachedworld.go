package pathfinder

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/world"
)

// ToolMultiplierFunc estimates the dig-speed multiplier the searching
// entity would apply to state, letting a caller wire in the currently
// held item (internal/inventory, internal/handlers) without this
// package depending on either. A nil func (the zero value used by
// NewCachedWorld's default) assumes bare hands (multiplier 1), which
// is always a safe (if pessimistic) estimate for planning purposes.
type ToolMultiplierFunc func(world.BlockState) float64

// CachedWorld memoizes the standable/passable/solid predicates and
// mining-cost lookups a single search repeatedly asks about the same
// handful of blocks (spec.md §4.10 "Mining-cost and standable/
// passable/solid predicates are served by a CachedWorld that memoizes
// per-BlockPos results during one search"). Grounded on basic.rs's
// `ctx.world` calls (cost_for_standing/cost_for_breaking_block/
// cost_for_passing/fall_distance/is_standable/is_passable/
// is_block_solid); azalea's own caching layer wasn't part of the
// retrieved original_source pack, so the memoization strategy here
// (one map per predicate, keyed by absolute world.BlockPos) is this
// package's own, built to the shape those call sites need.
type CachedWorld struct {
	inst     *world.Instance
	toolMult ToolMultiplierFunc

	breakCost   map[world.BlockPos]float64
	passCost    map[world.BlockPos]float64
	fallDist    map[world.BlockPos]int32
	standable   map[world.BlockPos]bool
	passable    map[world.BlockPos]bool
	blockSolid  map[world.BlockPos]bool
}

// NewCachedWorld wraps inst for one search. toolMult may be nil (bare
// hands).
func NewCachedWorld(inst *world.Instance, toolMult ToolMultiplierFunc) *CachedWorld {
	return &CachedWorld{
		inst:       inst,
		toolMult:   toolMult,
		breakCost:  map[world.BlockPos]float64{},
		passCost:   map[world.BlockPos]float64{},
		fallDist:   map[world.BlockPos]int32{},
		standable:  map[world.BlockPos]bool{},
		passable:   map[world.BlockPos]bool{},
		blockSolid: map[world.BlockPos]bool{},
	}
}

func (cw *CachedWorld) info(pos world.BlockPos) (world.BlockInfo, bool) {
	state, ok := cw.inst.GetBlockState(pos)
	if !ok {
		return world.BlockInfo{}, false
	}
	return world.Info(state), true
}

// IsBlockSolid reports whether pos is solid, matching basic.rs's
// is_block_solid (used by downward_move to check the landing block).
// An unloaded block is conservatively treated as not solid, so a
// search never plans through chunks it can't yet see.
func (cw *CachedWorld) IsBlockSolid(pos world.BlockPos) bool {
	if v, ok := cw.blockSolid[pos]; ok {
		return v
	}
	info, ok := cw.info(pos)
	v := ok && info.Solid
	cw.blockSolid[pos] = v
	return v
}

// IsPassable reports whether an entity's body could occupy pos
// without mining it first (basic.rs's is_passable).
func (cw *CachedWorld) IsPassable(pos world.BlockPos) bool {
	if v, ok := cw.passable[pos]; ok {
		return v
	}
	info, ok := cw.info(pos)
	v := ok && !info.Solid
	cw.passable[pos] = v
	return v
}

// IsStandable reports whether pos has solid footing and two clear
// body blocks above it (basic.rs's is_standable).
func (cw *CachedWorld) IsStandable(pos world.BlockPos) bool {
	if v, ok := cw.standable[pos]; ok {
		return v
	}
	v := cw.IsBlockSolid(pos.Down(1)) && cw.IsPassable(pos) && cw.IsPassable(pos.Up(1))
	cw.standable[pos] = v
	return v
}

// CostForBreaking estimates the edge-cost of clearing pos if it isn't
// already passable, or 0 if it already is. math.Inf(1) means
// unbreakable or not loaded (basic.rs's cost_for_breaking_block).
func (cw *CachedWorld) CostForBreaking(pos world.BlockPos) float64 {
	if v, ok := cw.breakCost[pos]; ok {
		return v
	}
	v := cw.computeBreakCost(pos)
	cw.breakCost[pos] = v
	return v
}

func (cw *CachedWorld) computeBreakCost(pos world.BlockPos) float64 {
	info, ok := cw.info(pos)
	if !ok {
		return math.Inf(1)
	}
	if !info.Solid {
		return 0
	}
	if info.Hardness < 0 {
		return math.Inf(1)
	}
	mult := 1.0
	if cw.toolMult != nil {
		if state, ok := cw.inst.GetBlockState(pos); ok {
			mult = cw.toolMult(state)
		}
	}
	if mult <= 0 {
		mult = 0.01
	}
	seconds := info.Hardness / (info.BestToolMultiplier * mult) / 1.5
	return MiningCostUnit(seconds)
}

// CostForStanding is the cost to make pos safe to stand at: solid
// footing required (returns +Inf if the footing isn't already solid —
// forward/ascend moves never create new footing, only descend does),
// plus breaking whatever occupies the two body blocks (basic.rs's
// cost_for_standing).
func (cw *CachedWorld) CostForStanding(pos world.BlockPos) float64 {
	if !cw.IsBlockSolid(pos.Down(1)) {
		return math.Inf(1)
	}
	feet := cw.CostForBreaking(pos)
	if math.IsInf(feet, 1) {
		return feet
	}
	head := cw.CostForBreaking(pos.Up(1))
	if math.IsInf(head, 1) {
		return head
	}
	return feet + head
}

// CostForPassing is the cost to clear a single body-height block so an
// entity can walk through it horizontally without needing footing
// underneath (basic.rs's cost_for_passing, used by descend_move before
// the entity falls through).
func (cw *CachedWorld) CostForPassing(pos world.BlockPos) float64 {
	return cw.CostForBreaking(pos)
}

// maxFallScan bounds how far FallDistance looks before giving up;
// descend_move rejects anything past 3 blocks anyway, so 6 gives
// enough headroom to distinguish ">3" from "never lands" without
// scanning indefinitely into unloaded terrain.
const maxFallScan = 6

// FallDistance counts how many blocks pos would fall before landing
// on solid ground, assuming the entity is standing at pos's Y level
// (basic.rs's fall_distance). Returns maxFallScan if no solid ground
// is found within range.
func (cw *CachedWorld) FallDistance(pos world.BlockPos) int32 {
	if v, ok := cw.fallDist[pos]; ok {
		return v
	}
	var n int32
	for ; n < maxFallScan; n++ {
		if cw.IsBlockSolid(pos.Down(n + 1)) {
			break
		}
	}
	cw.fallDist[pos] = n
	return n
}
