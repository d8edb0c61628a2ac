package world

import (
	"io"

	"github.com/StoreStation/vibeclient/internal/buf"
)

const (
	SectionWidth   = 16
	SectionHeight  = 16
	BlocksPerSection = SectionWidth * SectionWidth * SectionHeight
	BiomesPerSection  = 4 * 4 * 4

	blockIndirectMaxBits = 8
	biomeIndirectMaxBits = 3
)

// ChunkSection is one 16×16×16 slab of a column: a paletted container
// of block states plus one of biomes, matching spec.md §4.6's "Chunk
// section" data model. Generalizes the teacher's pkg/world/chunk.go
// GenerateFlatChunkData, which wrote flat 2-byte-per-block arrays for
// a single hardcoded superflat layout — this instead decodes whatever
// paletted layout the server actually sends.
type ChunkSection struct {
	blocks          *PalettedContainer
	biomes          *PalettedContainer
	nonEmptyCount   int16
}

func blockIndex(x, y, z int) int { return (y*SectionWidth+z)*SectionWidth + x }
func biomeIndex(x, y, z int) int { return (y*4+z)*4 + x } // 4x4x4 biome grid

// GetBlockState returns the block state at the section-local
// coordinate (0..15 each axis).
func (s *ChunkSection) GetBlockState(x, y, z int) BlockState {
	return s.blocks.Get(blockIndex(x, y, z))
}

// SetBlockState writes a section-local block state, maintaining
// non_empty_block_count (spec.md §4.6).
func (s *ChunkSection) SetBlockState(x, y, z int, state BlockState) BlockState {
	prev := s.blocks.Set(blockIndex(x, y, z), state)
	if prev == AirState && state != AirState {
		s.nonEmptyCount++
	} else if prev != AirState && state == AirState {
		s.nonEmptyCount--
	}
	return prev
}

// IsEmpty reports whether every block in the section is air (a fast
// emptiness test, spec.md §4.6).
func (s *ChunkSection) IsEmpty() bool { return s.nonEmptyCount <= 0 }

// DecodeChunkSection reads one section as laid out in a chunk-with-
// light packet: non_empty_block_count (i16), then the block palette,
// then the biome palette (spec.md §4.6 "Chunk decode").
func DecodeChunkSection(r io.Reader) (*ChunkSection, error) {
	count, err := buf.ReadI16(r)
	if err != nil {
		return nil, err
	}
	blocks, err := DecodePalettedContainer(r, BlocksPerSection, blockIndirectMaxBits)
	if err != nil {
		return nil, err
	}
	biomes, err := DecodePalettedContainer(r, BiomesPerSection, biomeIndirectMaxBits)
	if err != nil {
		return nil, err
	}
	return &ChunkSection{blocks: blocks, biomes: biomes, nonEmptyCount: count}, nil
}

// HeightmapKind names one of the per-column heightmap variants
// spec.md §4.6 lists.
type HeightmapKind string

const (
	HeightmapWorldSurface   HeightmapKind = "WORLD_SURFACE"
	HeightmapMotionBlocking HeightmapKind = "MOTION_BLOCKING"
)

// ChunkColumn is a vertical stack of sections plus heightmaps (spec.md
// §4.6 "Chunk column"). Its reference count starts at 1 and nothing in
// this module calls addRef or release, so a column belongs to the one
// Instance that loaded it.
type ChunkColumn struct {
	X, Z       int32
	MinY       int32
	Sections   []*ChunkSection
	Heightmaps map[HeightmapKind][]int32 // 16*16 entries, highest-non-matching y per (x,z)

	refs int32
}

// NewChunkColumn allocates an all-air column with the given section
// count and base y.
func NewChunkColumn(x, z int32, minY int32, sectionCount int) *ChunkColumn {
	sections := make([]*ChunkSection, sectionCount)
	for i := range sections {
		sections[i] = &ChunkSection{
			blocks: NewPalettedContainer(BlocksPerSection, AirState),
			biomes: NewPalettedContainer(BiomesPerSection, 0),
		}
	}
	return &ChunkColumn{
		X: x, Z: z, MinY: minY,
		Sections:   sections,
		Heightmaps: map[HeightmapKind][]int32{},
		refs:       1,
	}
}

func (c *ChunkColumn) sectionIndexForY(y int32) (int, int, bool) {
	idx := int((y - c.MinY) / SectionHeight)
	if idx < 0 || idx >= len(c.Sections) {
		return 0, 0, false
	}
	local := int((y - c.MinY) % SectionHeight)
	if local < 0 {
		local += SectionHeight
	}
	return idx, local, true
}

// GetBlockState returns the global block state at a column-relative
// (x 0..15, world y, z 0..15) position, or (AirState, false) if y is
// out of range (spec.md §4.6 get_block_state "None if y out of
// range").
func (c *ChunkColumn) GetBlockState(x int, y int32, z int) (BlockState, bool) {
	secIdx, localY, ok := c.sectionIndexForY(y)
	if !ok {
		return AirState, false
	}
	return c.Sections[secIdx].GetBlockState(x, localY, z), true
}

// SetBlockState writes a column-relative block and updates the
// MotionBlocking heightmap by walking up or down from the change
// (spec.md §4.6 set_block_state). Returns the previous state and
// whether y was in range.
func (c *ChunkColumn) SetBlockState(x int, y int32, z int, state BlockState) (BlockState, bool) {
	secIdx, localY, ok := c.sectionIndexForY(y)
	if !ok {
		return AirState, false
	}
	prev := c.Sections[secIdx].SetBlockState(x, localY, z, state)
	c.updateHeightmap(x, y, z, prev, state)
	return prev, true
}

func (c *ChunkColumn) updateHeightmap(x int, y int32, z int, prev, next BlockState) {
	hm, ok := c.Heightmaps[HeightmapMotionBlocking]
	if !ok {
		hm = make([]int32, 16*16)
		for i := range hm {
			hm[i] = c.MinY
		}
		c.Heightmaps[HeightmapMotionBlocking] = hm
	}
	idx := z*16 + x
	top := hm[idx]
	wasMotionBlocking := Info(prev).MotionBlocking
	isMotionBlocking := Info(next).MotionBlocking

	switch {
	case isMotionBlocking && y+1 > top:
		hm[idx] = y + 1
	case wasMotionBlocking && !isMotionBlocking && y+1 == top:
		// The previous highest block was removed: walk down until we
		// find the next motion-blocking block or bottom out.
		newTop := c.MinY
		for scan := top - 2; scan >= c.MinY; scan-- {
			st, ok := c.GetBlockState(x, scan, z)
			if ok && Info(st).MotionBlocking {
				newTop = scan + 1
				break
			}
		}
		hm[idx] = newTop
	}
}

// TopY returns the MotionBlocking heightmap value for column-relative
// (x, z), i.e. the y just above the highest motion-blocking block.
func (c *ChunkColumn) TopY(x, z int) int32 {
	hm, ok := c.Heightmaps[HeightmapMotionBlocking]
	if !ok {
		return c.MinY
	}
	return hm[z*16+x]
}

func (c *ChunkColumn) addRef()     { c.refs++ }
func (c *ChunkColumn) release() int32 { c.refs--; return c.refs }
