package world

import (
	"io"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// paletteKind names which of the four storage forms spec.md §4.6
// describes a container currently uses.
type paletteKind int

const (
	paletteSingleValue paletteKind = iota
	paletteLinear
	paletteHashmap
	paletteGlobal
)

const (
	linearMaxEntries  = 16
	hashmapMaxBits    = 8
	globalBitsPerElem = 15
)

// PalettedContainer is the bit-packed palette array backing one
// section's block states (or biomes, at a different resolution) per
// spec.md §4.6. It starts in the single-value form and grows through
// linear → hashmap → global as distinct values accumulate, matching
// vanilla's actual storage upgrade path; it never shrinks back down,
// mirroring the server's own behavior (the teacher's flat byte-array
// chunk storage in pkg/world/chunk.go has no equivalent, since its 1.8
// format always stores full 2-byte block ids — this container exists
// specifically to be more memory-frugal the way the modern format is).
type PalettedContainer struct {
	size     int // elementsPerSection, e.g. 4096 for blocks, 64 for biomes
	kind     paletteKind
	bitsPer  int
	palette  []BlockState // palette[i] = global id; unused when kind == global
	indexOf  map[BlockState]int
	single   BlockState
	data     []uint64 // packed storage for linear/hashmap/global
}

// NewPalettedContainer builds an empty container (all elements = fill)
// of the given element count, starting single-valued.
func NewPalettedContainer(size int, fill BlockState) *PalettedContainer {
	return &PalettedContainer{
		size:   size,
		kind:   paletteSingleValue,
		single: fill,
	}
}

// Get returns the global state id at the given flat index.
func (p *PalettedContainer) Get(idx int) BlockState {
	switch p.kind {
	case paletteSingleValue:
		return p.single
	case paletteGlobal:
		return BlockState(p.getBits(idx))
	default:
		return p.palette[p.getBits(idx)]
	}
}

// Set writes state at idx, growing the container's storage form if
// the new value doesn't fit the current palette (spec.md §4.6 "When a
// write causes the palette to outgrow its current form, the container
// is rebuilt in the next larger form, copying entries."). Returns the
// previous value.
func (p *PalettedContainer) Set(idx int, state BlockState) BlockState {
	prev := p.Get(idx)
	if prev == state {
		return prev
	}

	switch p.kind {
	case paletteSingleValue:
		if state == p.single {
			return prev
		}
		p.growTo(paletteLinear)
	}

	paletteIdx, ok := p.paletteIndex(state)
	if !ok {
		p.growTo(p.nextKindFor(len(p.palette) + 1))
		paletteIdx, _ = p.paletteIndex(state)
	}
	if p.kind == paletteGlobal {
		p.setBits(idx, int(state))
	} else {
		p.setBits(idx, paletteIdx)
	}
	return prev
}

const hashmapMaxEntries = 1 << hashmapMaxBits // 256

func (p *PalettedContainer) nextKindFor(paletteLen int) paletteKind {
	switch {
	case paletteLen <= linearMaxEntries:
		return paletteLinear
	case paletteLen <= hashmapMaxEntries:
		return paletteHashmap
	default:
		return paletteGlobal
	}
}

// paletteIndex finds state in the current palette, registering it (and
// reporting !ok so the caller upgrades storage) if it isn't present
// and the kind isn't global. Linear and hashmap forms use a fixed
// bits-per-entry (4 and 8 respectively, spec.md §4.6) sized to their
// maximum entry count, so capacity checks are exact entry-count
// comparisons rather than a variable bit width that would need
// re-widening mid-kind.
func (p *PalettedContainer) paletteIndex(state BlockState) (int, bool) {
	if p.kind == paletteGlobal {
		return int(state), true
	}
	if idx, ok := p.indexOf[state]; ok {
		return idx, true
	}
	if p.kind == paletteLinear && len(p.palette) >= linearMaxEntries {
		return 0, false
	}
	if p.kind == paletteHashmap && len(p.palette) >= hashmapMaxEntries {
		return 0, false
	}
	idx := len(p.palette)
	p.palette = append(p.palette, state)
	p.indexOf[state] = idx
	return idx, true
}

// growTo rebuilds storage in the requested (larger) form, copying
// every existing element across (spec.md §4.6).
func (p *PalettedContainer) growTo(kind paletteKind) {
	old := make([]BlockState, p.size)
	for i := range old {
		old[i] = p.Get(i)
	}

	// Re-derive a compact palette of distinct values up front so the
	// bits-per-entry width (and therefore the storage allocation) is
	// known before any bit is written, rather than growing mid-pass.
	uniq := map[BlockState]int{}
	var newPalette []BlockState
	for _, v := range old {
		if _, ok := uniq[v]; !ok {
			uniq[v] = len(newPalette)
			newPalette = append(newPalette, v)
		}
	}

	p.kind = kind
	switch kind {
	case paletteLinear:
		p.palette, p.indexOf = newPalette, uniq
		p.bitsPer = 4 // spec.md §4.6: "minimum of 4", capacity 16
	case paletteHashmap:
		p.palette, p.indexOf = newPalette, uniq
		p.bitsPer = hashmapMaxBits // fixed 8-bit width, capacity 256
	case paletteGlobal:
		p.palette, p.indexOf = nil, nil
		p.bitsPer = globalBitsPerElem
	}
	p.data = make([]uint64, wordsFor(p.size, p.bitsPer))

	for i, v := range old {
		if kind == paletteGlobal {
			p.setBitsRaw(i, int(v))
			continue
		}
		p.setBitsRaw(i, uniq[v])
	}
}

func (p *PalettedContainer) getBits(idx int) int {
	if p.bitsPer == 0 {
		return 0
	}
	bitPos := idx * p.bitsPer
	word := bitPos / 64
	offset := uint(bitPos % 64)
	mask := uint64(1)<<uint(p.bitsPer) - 1
	val := (p.data[word] >> offset) & mask
	if offset+uint(p.bitsPer) > 64 {
		rem := offset + uint(p.bitsPer) - 64
		val |= (p.data[word+1] & (uint64(1)<<rem - 1)) << (64 - offset)
	}
	return int(val)
}

func (p *PalettedContainer) setBits(idx, value int) { p.setBitsRaw(idx, value) }

func (p *PalettedContainer) setBitsRaw(idx, value int) {
	if p.bitsPer == 0 {
		return
	}
	bitPos := idx * p.bitsPer
	word := bitPos / 64
	offset := uint(bitPos % 64)
	mask := uint64(1)<<uint(p.bitsPer) - 1
	p.data[word] &^= mask << offset
	p.data[word] |= (uint64(value) & mask) << offset
	if offset+uint(p.bitsPer) > 64 {
		rem := offset + uint(p.bitsPer) - 64
		p.data[word+1] &^= uint64(1)<<rem - 1
		p.data[word+1] |= (uint64(value) & mask) >> (64 - offset)
	}
}

func wordsFor(size, bitsPer int) int {
	if bitsPer == 0 {
		return 0
	}
	totalBits := size * bitsPer
	return (totalBits + 63) / 64
}

// DecodePalettedContainer reads the wire form of a paletted container
// as carried in a chunk-with-light packet (spec.md §4.6 "Chunk
// decode"): a bits-per-entry byte, then either a single VarInt value
// (bitsPer == 0), an indirect palette (VarInt count + VarInt entries)
// followed by packed longs, or no palette at all for the direct/global
// form, followed by packed longs.
func DecodePalettedContainer(r io.Reader, size int, indirectMaxBits int) (*PalettedContainer, error) {
	bitsPerByte, err := buf.ReadU8(r)
	if err != nil {
		return nil, err
	}
	bitsPer := int(bitsPerByte)

	p := &PalettedContainer{size: size}

	if bitsPer == 0 {
		val, _, err := buf.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		p.kind = paletteSingleValue
		p.single = BlockState(val)
		return p, nil
	}

	if bitsPer <= indirectMaxBits {
		count, _, err := buf.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		p.palette = make([]BlockState, count)
		p.indexOf = map[BlockState]int{}
		for i := range p.palette {
			v, _, err := buf.ReadVarInt(r)
			if err != nil {
				return nil, err
			}
			p.palette[i] = BlockState(v)
			p.indexOf[BlockState(v)] = i
		}
		if bitsPer <= 4 {
			p.kind = paletteLinear
			p.bitsPer = 4
		} else {
			p.kind = paletteHashmap
			p.bitsPer = bitsPer
		}
	} else {
		p.kind = paletteGlobal
		p.bitsPer = bitsPer
	}

	numLongs, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	p.data = make([]uint64, numLongs)
	for i := range p.data {
		v, err := buf.ReadI64(r)
		if err != nil {
			return nil, err
		}
		p.data[i] = uint64(v)
	}
	// Set relies on the fixed hashmap/global widths, so repack a
	// container the wire sent at any other width.
	if (p.kind == paletteHashmap && p.bitsPer != hashmapMaxBits) || (p.kind == paletteGlobal && p.bitsPer != globalBitsPerElem) {
		p.growTo(p.kind)
	}
	return p, nil
}
