package world

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrChunkNotLoaded is returned by operations that need a chunk the
// instance doesn't currently hold (spec.md §7 "World/entity errors").
var ErrChunkNotLoaded = errors.New("world: chunk not loaded")

// ChunkPos identifies a chunk column within an instance.
type ChunkPos struct{ X, Z int32 }

// BlockPos identifies a single block. X and Z are unbounded; Y is
// constrained to an instance's [minY, minY+height) range (spec.md §3).
type BlockPos struct{ X, Y, Z int32 }

func (p BlockPos) Chunk() ChunkPos { return ChunkPos{X: p.X >> 4, Z: p.Z >> 4} }

// Instance is a dimension, keyed by a resource identifier like
// "minecraft:overworld" (spec.md §4.6 "Instance (dimension)").
// Generalizes the teacher's single hardcoded World (pkg/world/world.go)
// — which held exactly one world with a terrain Generator — into a
// map-of-chunks-only store with no generation, since a headless client
// only ever receives chunks from the server, never invents them.
//
// Locking follows the teacher's sync.RWMutex-guarded-map pattern
// (pkg/world/world.go's GetBlock/SetBlock double-checked locking),
// generalized per spec.md §9: reads may run concurrently, writes
// (including chunk insertion) take the single writer lock.
type Instance struct {
	Name string
	MinY int32
	Height int32

	mu     sync.RWMutex
	chunks map[ChunkPos]*ChunkColumn
}

// NewInstance creates an empty instance. minY/height come from the
// dimension-type registry entry captured at login (spec.md §4.6).
func NewInstance(name string, minY, height int32) *Instance {
	return &Instance{Name: name, MinY: minY, Height: height, chunks: map[ChunkPos]*ChunkColumn{}}
}

func (in *Instance) sectionCount() int { return int(in.Height) / SectionHeight }

// LoadChunk inserts or replaces a chunk column received from the
// server (on a ChunkDataAndLight packet, spec.md §4.6 "Chunks are
// created on receipt of a chunk-with-light packet").
func (in *Instance) LoadChunk(col *ChunkColumn) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.chunks[ChunkPos{X: col.X, Z: col.Z}] = col
}

// UnloadChunk drops a chunk unconditionally (spec.md §4.6 "dropped
// when no reference holds them" — the entity/view-distance bookkeeping
// that decides *when* to call this lives in internal/handlers).
func (in *Instance) UnloadChunk(pos ChunkPos) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.chunks, pos)
}

// Chunk returns the loaded column at pos, if any.
func (in *Instance) Chunk(pos ChunkPos) (*ChunkColumn, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	c, ok := in.chunks[pos]
	return c, ok
}

// GetBlockState implements spec.md §4.6's get_block_state: None (here,
// ok=false) if y is out of range or the chunk isn't loaded.
func (in *Instance) GetBlockState(pos BlockPos) (BlockState, bool) {
	if pos.Y < in.MinY || pos.Y >= in.MinY+in.Height {
		return AirState, false
	}
	in.mu.RLock()
	col, ok := in.chunks[pos.Chunk()]
	in.mu.RUnlock()
	if !ok {
		return AirState, false
	}
	lx, lz := int(pos.X&0xF), int(pos.Z&0xF)
	return col.GetBlockState(lx, pos.Y, lz)
}

// SetBlockState implements spec.md §4.6's set_block_state, returning
// the previous state and whether the write landed (false if the chunk
// wasn't loaded or y is out of range).
func (in *Instance) SetBlockState(pos BlockPos, state BlockState) (BlockState, bool) {
	if pos.Y < in.MinY || pos.Y >= in.MinY+in.Height {
		return AirState, false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	col, ok := in.chunks[pos.Chunk()]
	if !ok {
		return AirState, false
	}
	lx, lz := int(pos.X&0xF), int(pos.Z&0xF)
	return col.SetBlockState(lx, pos.Y, lz, state)
}

// GetFluidState derives the fluid at pos from its block state
// (spec.md §4.6 get_fluid_state).
func (in *Instance) GetFluidState(pos BlockPos) FluidState {
	state, ok := in.GetBlockState(pos)
	if !ok {
		return FluidState{}
	}
	return Fluid(state)
}

// ChunkCount reports how many columns are currently loaded, for
// telemetry and tests.
func (in *Instance) ChunkCount() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.chunks)
}
