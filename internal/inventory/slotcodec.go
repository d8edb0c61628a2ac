package inventory

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// ErrComponentsUnsupported is returned by DecodeSlots when a slot
// carries one or more added components: the post-1.20.5 slot format
// only gives each added component a type id, not a self-describing
// length, so splitting the component payload requires a per-type
// schema table (azalea's original_source azalea-inventory/src/
// components.rs enumerates one, at ~40 component kinds). That table
// wasn't part of this package's retrieved grounding beyond the hashed-
// stack checksum primitive itself (see itemstack.go), so DecodeSlots
// covers exactly the wire shape every slot takes when its components
// are identical to the item's defaults (the common case for plain
// stacks of blocks and unenchanted, undamaged items) and reports this
// error the moment it can no longer locate the next slot's boundary.
var ErrComponentsUnsupported = errors.New("inventory: slot carries added components, no schema to skip them")

// itemIDToKind resolves a network item-id VarInt to its registry
// kind string. internal/world's compile-time block palette (spec.md §9
// "process-wide read-only data") doesn't cover items, so this is a
// caller-supplied lookup; a nil resolver yields a synthetic
// "item_id:N" placeholder kind, matching internal/handlers'
// AddEntity-type placeholder convention.
type itemIDResolver func(id int32) string

// DecodeSlots splits raw (SlotCount.RawSlots) into SlotCount ItemStack
// slots, as it arrives inside ContainerSetContent/ContainerSetSlot
// (spec.md §4.9 "server-driven set_content(window_id, slots)"). resolve
// may be nil.
func DecodeSlots(raw []byte, slotCount int32, resolve itemIDResolver) ([]*ItemStack, error) {
	r := newByteReader(raw)
	slots := make([]*ItemStack, slotCount)
	for i := int32(0); i < slotCount; i++ {
		count, _, err := buf.ReadVarInt(r)
		if err != nil {
			return slots[:i], errors.Wrap(err, "inventory: reading slot item count")
		}
		if count <= 0 {
			continue
		}
		itemID, _, err := buf.ReadVarInt(r)
		if err != nil {
			return slots[:i], errors.Wrap(err, "inventory: reading slot item id")
		}
		numAdd, _, err := buf.ReadVarInt(r)
		if err != nil {
			return slots[:i], errors.Wrap(err, "inventory: reading added-component count")
		}
		numRemove, _, err := buf.ReadVarInt(r)
		if err != nil {
			return slots[:i], errors.Wrap(err, "inventory: reading removed-component count")
		}
		if numAdd > 0 {
			return slots[:i], ErrComponentsUnsupported
		}
		for j := int32(0); j < numRemove; j++ {
			if _, _, err := buf.ReadVarInt(r); err != nil {
				return slots[:i], errors.Wrap(err, "inventory: reading removed-component type")
			}
		}
		kind := fmt.Sprintf("item_id:%d", itemID)
		if resolve != nil {
			kind = resolve(itemID)
		}
		slots[i] = &ItemStack{Kind: kind, Count: count}
	}
	return slots, nil
}

// byteReader adapts a []byte into the io.Reader the buf package reads
// from, tracking position so repeated ReadVarInt calls advance.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader { return &byteReader{data: data} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
