package world

import "bytes"

// DecodeChunkColumn parses the "Data" field of a ChunkDataAndLight
// packet — sectionCount consecutive ChunkSection encodings, one per
// vertical slab from minY up (spec.md §4.6 "Chunk decode": "carries,
// per section in order"). Heightmaps arrive separately as NBT in the
// same packet and are rebuilt lazily here as blocks load, rather than
// trusted verbatim, so get_block_state/set_block_state stay consistent
// with whatever heightmap accessors observe.
func DecodeChunkColumn(x, z int32, minY, height int32, data []byte) (*ChunkColumn, error) {
	sectionCount := int(height) / SectionHeight
	r := bytes.NewReader(data)

	col := &ChunkColumn{
		X: x, Z: z, MinY: minY,
		Sections:   make([]*ChunkSection, sectionCount),
		Heightmaps: map[HeightmapKind][]int32{},
		refs:       1,
	}
	for i := 0; i < sectionCount; i++ {
		sec, err := DecodeChunkSection(r)
		if err != nil {
			return nil, err
		}
		col.Sections[i] = sec
	}
	col.rebuildMotionBlockingHeightmap()
	return col, nil
}

// rebuildMotionBlockingHeightmap scans every column from the top down
// once, used right after a full chunk decode rather than threading the
// incremental walk-up/walk-down logic SetBlockState uses through bulk
// loads.
func (c *ChunkColumn) rebuildMotionBlockingHeightmap() {
	hm := make([]int32, 16*16)
	top := c.MinY + int32(len(c.Sections))*SectionHeight
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			y := top
			for scan := top - 1; scan >= c.MinY; scan-- {
				st, ok := c.GetBlockState(x, scan, z)
				if ok && Info(st).MotionBlocking {
					y = scan + 1
					break
				}
				y = c.MinY
			}
			hm[z*16+x] = y
		}
	}
	c.Heightmaps[HeightmapMotionBlocking] = hm
}
