// Package pathfinder implements spec.md §4.10 (C10): a move-graph over
// the block grid, an A* search with partial-path fallback, and an
// execution controller that drives the local player's movement inputs
// one edge at a time. Grounded directly on azalea's original_source
// azalea/src/pathfinder/moves/basic.rs for the six move generators and
// their execute/is_reached closures — the teacher has no pathfinding
// code of its own, so this package's shape comes entirely from that
// source, reworked from Bevy's Commands/MessageWriter onto this
// module's ecs.World.
package pathfinder

// Cost constants, named after basic.rs's costs::* imports. No
// azalea-pathfinder/src/costs.rs was part of the retrieved
// original_source pack (only moves/basic.rs, mtdstarlite.rs, and
// execute/simulation.rs were — see _INDEX.md), so the exact values
// here are this package's own tuning: consistent with basic.rs's cost
// shape (one walked or sprinted block is the base cost, 5.0 or 4.633
// here; jumping and breaking
// blocks add penalties, falling is cheap but bounded), not ported from
// a retrieved source.
const (
	WalkOneBlockCost    = 5.0
	SprintOneBlockCost  = 4.633
	WalkOffBlockCost    = WalkOneBlockCost * 0.8
	JumpPenalty         = 2.0
	CenterAfterFallCost = WalkOneBlockCost - 3.0
)

// JumpOneBlockCost is a *float64 in basic.rs (`*JUMP_ONE_BLOCK_COST`,
// a lazily-computed constant derived from jump physics); here it's
// just a plain constant since this package doesn't model jump-arc
// physics separately from internal/physics.
const JumpOneBlockCost = 5.852

// FallNBlocksCost[n] is the cost of a fall of n blocks (index 0 is
// unused; vanilla fall damage starts to matter past 3 blocks, which is
// why descend_move forbids anything longer).
var FallNBlocksCost = [4]float64{0, 0.0, 1.0, 2.0}

// MiningCostUnit converts a mining duration (seconds, from
// internal/interact's digging-speed model) into a pathfinder edge-cost
// unit, so breaking a clearly-in-the-way block is only preferred over
// a much longer walk. math.Inf(1) is reserved as "cannot be mined
// within this search" (e.g. unbreakable, or no tool info available).
func MiningCostUnit(seconds float64) float64 {
	return seconds * 20 // one GameTick's worth of cost per tick spent mining
}
