// Package world adapts the teacher's pkg/world flat chunk model
// (pkg/world/chunk.go's superflat byte-array generator) into the
// client-side store spec.md §4.6 describes: paletted 16×16×16
// sections inside chunk columns, grouped by dimension instance.
package world

import "fmt"

// BlockState is a non-negative integer naming a (block kind,
// property-tuple) combination from the closed global palette. Air is
// state 0 (spec.md §3 invariant).
type BlockState uint32

const AirState BlockState = 0

// FluidKind classifies the fluid, if any, a block state carries.
type FluidKind uint8

const (
	FluidEmpty FluidKind = iota
	FluidWater
	FluidLava
)

// FluidState is derived from a BlockState (spec.md §4.6
// get_fluid_state).
type FluidState struct {
	Kind    FluidKind
	Level   uint8 // 0..=8
	Falling bool
}

// BlockInfo is the compile-time, read-only data every BlockState maps
// to (spec.md §3 "Block state" and §9 "Global state"). The real game
// ships thousands of these generated from block-registry data; this
// implementation carries the subset spec.md's testable properties (§8)
// exercise, plus a generic fallback so an unknown state id never
// panics.
type BlockInfo struct {
	Name              string
	Solid             bool
	Waterlogged       bool
	Slipperiness      float64 // friction multiplier, default 0.6
	CollisionShape    Shape
	MotionBlocking    bool // counts for the MotionBlocking heightmap
	Fluid             FluidState
	Hardness          float64 // seconds-equivalent mining hardness; <0 means unbreakable
	BestToolMultiplier float64 // dig-speed multiplier when held tool is "correct" for this block
}

var defaultBlockInfo = BlockInfo{
	Name:               "minecraft:unknown",
	Solid:              true,
	Slipperiness:       0.6,
	CollisionShape:     FullCubeShape,
	MotionBlocking:     true,
	Hardness:           1.5,
	BestToolMultiplier: 1,
}

var airBlockInfo = BlockInfo{
	Name:               "minecraft:air",
	Solid:              false,
	Slipperiness:       0.6,
	CollisionShape:     EmptyShape,
	MotionBlocking:     false,
	Hardness:           0,
	BestToolMultiplier: 1,
}

// Registry is the process-wide, never-mutated-after-init palette
// lookup (spec.md §9 "Global state. The compile-time block palette...
// Initialize at startup; never mutate."). Built once at package
// initialization from a small hand-registered table covering the
// blocks the bundled tests and pathfinder/physics code exercise (stone,
// grass, dirt, bedrock, water and its flowing levels, lava, oak log,
// ice, stone slabs, a cobblestone wall) — the full vanilla palette is tens of
// thousands of states and is out of scope for a headless test client.
type Registry struct {
	byState map[BlockState]BlockInfo
}

var globalRegistry = newRegistry()

func newRegistry() *Registry {
	r := &Registry{byState: map[BlockState]BlockInfo{
		AirState: airBlockInfo,
	}}
	r.register(1, BlockInfo{Name: "minecraft:stone", Solid: true, Slipperiness: 0.6, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: 1.5, BestToolMultiplier: 8})
	r.register(2, BlockInfo{Name: "minecraft:grass_block", Solid: true, Slipperiness: 0.6, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: 0.6, BestToolMultiplier: 4.5})
	r.register(3, BlockInfo{Name: "minecraft:dirt", Solid: true, Slipperiness: 0.6, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: 0.5, BestToolMultiplier: 4.5})
	r.register(7, BlockInfo{Name: "minecraft:bedrock", Solid: true, Slipperiness: 0.6, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: -1, BestToolMultiplier: 1})
	r.register(9, BlockInfo{Name: "minecraft:water", Solid: false, Slipperiness: 0.6, CollisionShape: EmptyShape, MotionBlocking: false, Fluid: FluidState{Kind: FluidWater, Level: 8}, Hardness: -1, BestToolMultiplier: 1})
	r.register(11, BlockInfo{Name: "minecraft:lava", Solid: false, Slipperiness: 0.6, CollisionShape: EmptyShape, MotionBlocking: false, Fluid: FluidState{Kind: FluidLava, Level: 8}, Hardness: -1, BestToolMultiplier: 1})
	r.register(17, BlockInfo{Name: "minecraft:oak_log", Solid: true, Slipperiness: 0.6, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: 2, BestToolMultiplier: 6})
	r.register(79, BlockInfo{Name: "minecraft:ice", Solid: true, Slipperiness: 0.98, CollisionShape: FullCubeShape, MotionBlocking: true, Hardness: 0.5, BestToolMultiplier: 4.5})

	// Slab and wall shapes (spec.md §8 physics scenarios 2-5): real
	// vanilla geometry, partial AABBs against the already-general
	// Shape/AABB union internal/physics's swept collision clips
	// against — no special-casing needed beyond registering the box.
	r.register(100, BlockInfo{Name: "minecraft:stone_slab[type=bottom]", Solid: true, Slipperiness: 0.6, CollisionShape: bottomSlabShape, MotionBlocking: true, Hardness: 2, BestToolMultiplier: 8})
	r.register(101, BlockInfo{Name: "minecraft:stone_slab[type=top]", Solid: true, Slipperiness: 0.6, CollisionShape: topSlabShape, MotionBlocking: true, Hardness: 2, BestToolMultiplier: 8})
	r.register(102, BlockInfo{Name: "minecraft:cobblestone_wall[low=true,up=false]", Solid: true, Slipperiness: 0.6, CollisionShape: lowWallShape, MotionBlocking: true, Hardness: 2, BestToolMultiplier: 8})

	// Flowing-water levels 1-7 (8 is the source, already registered as
	// state 9 above), one state per level the same way vanilla assigns
	// a distinct block state to each water level — needed so
	// internal/physics.FlowDirection has a real level gradient to read
	// across neighboring blocks instead of only ever seeing "source or
	// air".
	for level := BlockState(1); level <= 7; level++ {
		r.register(110+level, BlockInfo{
			Name:               fmt.Sprintf("minecraft:water[level=%d]", level),
			Solid:              false,
			Slipperiness:       0.6,
			CollisionShape:     EmptyShape,
			MotionBlocking:     false,
			Fluid:              FluidState{Kind: FluidWater, Level: uint8(level)},
			Hardness:           -1,
			BestToolMultiplier: 1,
		})
	}

	return r
}

// Bottom/top half-slab boxes (vanilla: 8px = 0.5 blocks tall) and a
// cobblestone wall with its center post plus four low (14px-tall,
// 6px-wide) side connections, all four sides present —
// the shape a wall surrounded by other walls/solid blocks takes, per
// azalea-physics's original_source test_weird_wall_collision fixture.
var (
	bottomSlabShape = NewShape([]AABB{{0, 0, 0, 1, 0.5, 1}})
	topSlabShape    = NewShape([]AABB{{0, 0.5, 0, 1, 1, 1}})
	lowWallShape    = NewShape([]AABB{
		{0.25, 0, 0.25, 0.75, 1.5, 0.75},    // center post
		{0.3125, 0, 0, 0.6875, 0.875, 0.5},  // north connection
		{0.3125, 0, 0.5, 0.6875, 0.875, 1},  // south connection
		{0, 0, 0.3125, 0.5, 0.875, 0.6875},  // west connection
		{0.5, 0, 0.3125, 1, 0.875, 0.6875},  // east connection
	})
)

func (r *Registry) register(id BlockState, info BlockInfo) {
	r.byState[id] = info
}

// Info looks up the compile-time data for a state, falling back to a
// conservative solid-cube default for any id this build didn't
// register by name.
func Info(state BlockState) BlockInfo {
	if state == AirState {
		return airBlockInfo
	}
	if info, ok := globalRegistry.byState[state]; ok {
		return info
	}
	return defaultBlockInfo
}

// Fluid returns the FluidState a block state carries (spec.md §4.6
// get_fluid_state).
func Fluid(state BlockState) FluidState {
	return Info(state).Fluid
}
