package inventory

import (
	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

// Player-inventory slot layout, fixed across every menu kind (spec.md
// §4.9 "always includes the player's 36-slot inventory + 9 hotbar
// mirror"), matching the teacher's Player.Inventory[45] layout: slot 0
// is the crafting/armor offset start in the teacher's 2x2 recipe book,
// but this client never crafts locally, so slots 1-4 here are simply
// reserved the way vanilla's own player-inventory menu does (armor
// occupies 5-8, main 9-35, hotbar 36-44).
const (
	PlayerInventorySize = 46 // crafting result(0) + crafting grid(1-4) + armor(5-8) + main(9-35) + hotbar(36-44) + offhand(45)
	MainStart           = 9
	MainEnd             = 35
	HotbarStart         = 36
	HotbarEnd           = 44
	OffhandSlot         = 45
)

// Menu is the closed set of slot-arrays describing one open UI (spec.md
// §4.9 "A menu is the closed set of slot-arrays..."). Slots holds every
// slot this menu exposes over the wire, container slots first followed
// by the player-inventory subrange the container always appends.
type Menu struct {
	WindowID     int32
	Kind         string
	Title        string
	StateID      int32
	Slots        []*ItemStack
	Carried      *ItemStack
	ContainerLen int // number of leading slots that belong to the container, not the player inventory

	// DragSlots/DragButton track an in-progress quick-craft (drag/paint)
	// gesture between its begin and end clicks, mirroring the teacher's
	// Player.DragSlots/DragButton fields.
	DragSlots  []int16
	DragButton int8
}

// PlayerMenu returns the always-open window-0 menu, used before any
// container is opened and restored by Close.
func PlayerMenu() *Menu {
	return &Menu{
		WindowID: 0,
		Kind:     "minecraft:inventory",
		Slots:    make([]*ItemStack, PlayerInventorySize),
	}
}

// Inventory is the local player's inventory component: the currently
// open menu plus the selected hotbar slot (spec.md §4.9 and §6
// Client.set_selected_hotbar_slot). internal/handlers installs one on
// the local player entity at login.
type Inventory struct {
	Open          *Menu
	SelectedSlot  int32 // 0..=8, relative to the hotbar
	pendingHotbar bool
}

// Open sets the container menu, keyed by a non-zero window_id (spec.md
// §4.9 "open(kind, window_id, title) — sets the container menu").
// trailingPlayerSlots is the player-inventory subrange (main + hotbar,
// in that order) the server always appends after the container's own
// slots, copied in so closing can hand them back to the window-0 menu.
func Open(w *ecs.World, entity ecs.Handle, windowID int32, kind, title string, containerSlotCount int, trailingPlayerSlots []*ItemStack) {
	ecs.Mutate(w, entity, func(inv *Inventory) {
		slots := make([]*ItemStack, containerSlotCount+len(trailingPlayerSlots))
		copy(slots[containerSlotCount:], trailingPlayerSlots)
		inv.Open = &Menu{
			WindowID:     windowID,
			Kind:         kind,
			Title:        title,
			Slots:        slots,
			ContainerLen: containerSlotCount,
		}
	})
}

// Close emits ContainerClose and resets the entity's menu to window 0,
// copying the player-slot subrange from the container menu back into
// the inventory menu (spec.md §4.9 "close(window_id)"). The packet is
// triggered after Mutate returns since ecs.Trigger acquires the same
// world lock Mutate already holds for the duration of its callback.
func Close(w *ecs.World, entity ecs.Handle) {
	var windowID int32
	var closed bool
	ecs.Mutate(w, entity, func(inv *Inventory) {
		if inv.Open == nil || inv.Open.WindowID == 0 {
			return
		}
		windowID = inv.Open.WindowID
		playerSlots := inv.Open.Slots[inv.Open.ContainerLen:]
		restored := PlayerMenu()
		copy(restored.Slots[PlayerInventorySize-len(playerSlots):], playerSlots)
		inv.Open = restored
		closed = true
	})
	if !closed {
		return
	}
	ecs.Trigger(w, ecs.SendPacketEvent{Entity: entity, Packet: &mcproto.ContainerClose{WindowID: windowID}})
}

// SetContent replaces every slot in the entity's open menu at once
// (spec.md §4.9 "set_content(window_id, slots) — server-driven").
// Mismatched window_id is ignored: a late SetContent for a menu the
// client has already closed must not resurrect it.
func SetContent(w *ecs.World, entity ecs.Handle, windowID int32, stateID int32, slots []*ItemStack, carried *ItemStack) {
	ecs.Mutate(w, entity, func(inv *Inventory) {
		if inv.Open == nil || inv.Open.WindowID != windowID {
			return
		}
		inv.Open.StateID = stateID
		inv.Open.Slots = slots
		inv.Open.Carried = carried
	})
}

// Click computes the new slot state for op locally against entity's
// open menu, then emits one ContainerClick naming exactly what changed
// (spec.md §4.9 "click(op) — computes the new slot state locally ...
// then emits ContainerClick{...}"). entity must already carry an
// Inventory component; a missing one (or no open menu) makes Click a
// no-op, matching Mutate's own "absent component" semantics.
func Click(w *ecs.World, entity ecs.Handle, op ClickOp) {
	var windowID, stateID int32
	var carried *ItemStack
	var hasMenu bool
	changedSlots := map[int16][]byte{}
	ecs.Mutate(w, entity, func(inv *Inventory) {
		if inv.Open == nil {
			return
		}
		hasMenu = true
		m := inv.Open
		windowID, stateID = m.WindowID, m.StateID
		for _, idx := range applyClick(m, op) {
			changedSlots[idx] = HashStack(m.Slots[idx])
		}
		carried = m.Carried
	})
	if !hasMenu {
		return
	}
	ecs.Trigger(w, ecs.SendPacketEvent{Entity: entity, Packet: &mcproto.ContainerClick{
		WindowID:     windowID,
		StateID:      stateID,
		Slot:         op.Slot,
		Button:       op.Button,
		ClickType:    op.ClickType,
		ChangedSlots: changedSlots,
		Carried:      HashStack(carried),
	}})
}

// SetSelectedHotbarSlot updates which hotbar slot is active, emitting
// SetCarriedItem on the next tick only if it actually changed (spec.md
// §4.9 "set_selected_hotbar_slot(0..=8) — emits SetCarriedItem at the
// next tick if it changed").
func SetSelectedHotbarSlot(w *ecs.World, entity ecs.Handle, slot int32) {
	ecs.Mutate(w, entity, func(inv *Inventory) {
		if slot < 0 || slot > 8 || slot == inv.SelectedSlot {
			return
		}
		inv.SelectedSlot = slot
		inv.pendingHotbar = true
	})
}

// FlushSelectedHotbarSlot sends the pending SetCarriedItem packets
// queued by SetSelectedHotbarSlot calls since the last GameTick.
// Intended to run once per GameTick, after all Client.set_selected_hotbar_slot
// calls for the tick have landed.
func FlushSelectedHotbarSlot(w *ecs.World) {
	// Query1 holds the world's read lock for its callback's duration;
	// Insert/Trigger below take the write lock, so pending entities are
	// collected first and flushed only after the query returns.
	type pending struct {
		h    ecs.Handle
		slot int32
	}
	var flush []pending
	ecs.Query1[Inventory](w, nil, func(h ecs.Handle, inv Inventory) {
		if inv.pendingHotbar {
			flush = append(flush, pending{h, inv.SelectedSlot})
		}
	})
	for _, p := range flush {
		ecs.Mutate(w, p.h, func(inv *Inventory) { inv.pendingHotbar = false })
		ecs.Trigger(w, ecs.SendPacketEvent{Entity: p.h, Packet: &mcproto.SetCarriedItem{Slot: int16(p.slot)}})
	}
}
