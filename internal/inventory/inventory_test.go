package inventory

import (
	"testing"

	"github.com/StoreStation/vibeclient/internal/ecs"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

func spawnWithInventory(w *ecs.World) ecs.Handle {
	h := w.Spawn()
	ecs.Insert(w, h, Inventory{Open: PlayerMenu()})
	return h
}

func stack(kind string, count int32) *ItemStack {
	return &ItemStack{Kind: kind, Count: count}
}

func TestHashStackDeterministicAcrossComponentOrder(t *testing.T) {
	a := &ItemStack{Kind: "minecraft:diamond_sword", Count: 1, Components: map[string]any{
		"damage": int32(3), "unbreakable": true,
	}}
	b := &ItemStack{Kind: "minecraft:diamond_sword", Count: 1, Components: map[string]any{
		"unbreakable": true, "damage": int32(3),
	}}
	ha, hb := HashStack(a), HashStack(b)
	if string(ha) != string(hb) {
		t.Fatalf("expected identical hashed-stack payloads regardless of map iteration order, got %x vs %x", ha, hb)
	}
}

func TestHashStackDiffersOnComponentChange(t *testing.T) {
	a := &ItemStack{Kind: "minecraft:diamond_sword", Count: 1, Components: map[string]any{"damage": int32(3)}}
	b := &ItemStack{Kind: "minecraft:diamond_sword", Count: 1, Components: map[string]any{"damage": int32(4)}}
	if string(HashStack(a)) == string(HashStack(b)) {
		t.Fatal("expected different damage values to produce different hashed-stack payloads")
	}
}

func TestHashStackEmptySlot(t *testing.T) {
	got := HashStack(nil)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected a single presence-false byte for an empty slot, got %x", got)
	}
}

func TestClickPickupSwapsEmptyCursorAndSlot(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[10] = stack("minecraft:cobblestone", 32) })

	Click(w, h, ClickOp{Slot: 10, Button: ButtonLeft, ClickType: ClickPickup})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[10] != nil {
		t.Fatalf("expected slot 10 to be emptied onto the cursor, got %+v", inv.Open.Slots[10])
	}
	if inv.Open.Carried == nil || inv.Open.Carried.Count != 32 || inv.Open.Carried.Kind != "minecraft:cobblestone" {
		t.Fatalf("expected the cursor to hold the picked-up stack, got %+v", inv.Open.Carried)
	}

	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one ContainerClick, got %d", len(sent))
	}
	pkt, ok := sent[0].Packet.(*mcproto.ContainerClick)
	if !ok {
		t.Fatalf("expected a ContainerClick packet, got %T", sent[0].Packet)
	}
	if pkt.Slot != 10 || pkt.ClickType != ClickPickup {
		t.Fatalf("unexpected packet fields: %+v", pkt)
	}
	if len(pkt.ChangedSlots) != 1 {
		t.Fatalf("expected exactly one changed slot, got %d", len(pkt.ChangedSlots))
	}
}

func TestClickPickupMergesMatchingStacks(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) {
		inv.Open.Slots[10] = stack("minecraft:cobblestone", 40)
		inv.Open.Carried = stack("minecraft:cobblestone", 30)
	})

	Click(w, h, ClickOp{Slot: 10, Button: ButtonLeft, ClickType: ClickPickup})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[10].Count != 64 {
		t.Fatalf("expected the slot to cap at 64, got %d", inv.Open.Slots[10].Count)
	}
	if inv.Open.Carried == nil || inv.Open.Carried.Count != 6 {
		t.Fatalf("expected 6 leftover on the cursor, got %+v", inv.Open.Carried)
	}
}

func TestClickPickupRightClickSplitsHalfStack(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[10] = stack("minecraft:cobblestone", 5) })

	Click(w, h, ClickOp{Slot: 10, Button: ButtonRight, ClickType: ClickPickup})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[10].Count != 2 {
		t.Fatalf("expected 2 left behind, got %d", inv.Open.Slots[10].Count)
	}
	if inv.Open.Carried == nil || inv.Open.Carried.Count != 3 {
		t.Fatalf("expected 3 (ceil half) on the cursor, got %+v", inv.Open.Carried)
	}
}

func TestClickQuickMoveFromMainToHotbarWhenHotbarHasSpace(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[20] = stack("minecraft:torch", 16) })

	Click(w, h, ClickOp{Slot: 20, ClickType: ClickQuickMove})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[20] != nil {
		t.Fatalf("expected the source slot to empty, got %+v", inv.Open.Slots[20])
	}
	found := false
	for i := HotbarStart; i <= HotbarEnd; i++ {
		if s := inv.Open.Slots[i]; s != nil && s.Kind == "minecraft:torch" && s.Count == 16 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the stack to land somewhere in the hotbar")
	}
}

func TestClickQuickMoveNoOpWhenDestinationFull(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) {
		inv.Open.Slots[20] = stack("minecraft:torch", 5)
		for i := HotbarStart; i <= HotbarEnd; i++ {
			inv.Open.Slots[i] = stack("minecraft:dirt", 64)
		}
	})

	Click(w, h, ClickOp{Slot: 20, ClickType: ClickQuickMove})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[20] == nil || inv.Open.Slots[20].Count != 5 {
		t.Fatalf("expected the source slot untouched when every destination is full, got %+v", inv.Open.Slots[20])
	}
}

func TestClickHotbarSwapExchangesSlots(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) {
		inv.Open.Slots[15] = stack("minecraft:iron_pickaxe", 1)
		inv.Open.Slots[HotbarStart+3] = stack("minecraft:bread", 10)
	})

	Click(w, h, ClickOp{Slot: 15, Button: 3, ClickType: ClickSwap})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[15].Kind != "minecraft:bread" {
		t.Fatalf("expected slot 15 to now hold bread, got %+v", inv.Open.Slots[15])
	}
	if inv.Open.Slots[HotbarStart+3].Kind != "minecraft:iron_pickaxe" {
		t.Fatalf("expected hotbar slot 3 to now hold the pickaxe, got %+v", inv.Open.Slots[HotbarStart+3])
	}
}

func TestClickThrowDropsOneFromSlot(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[12] = stack("minecraft:arrow", 10) })

	Click(w, h, ClickOp{Slot: 12, Button: ButtonLeft, ClickType: ClickThrow})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[12].Count != 9 {
		t.Fatalf("expected 9 left after dropping 1, got %+v", inv.Open.Slots[12])
	}
}

func TestClickThrowCtrlDropsEntireStack(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[12] = stack("minecraft:arrow", 10) })

	Click(w, h, ClickOp{Slot: 12, Button: ButtonRight, ClickType: ClickThrow})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[12] != nil {
		t.Fatalf("expected the slot to empty entirely, got %+v", inv.Open.Slots[12])
	}
}

func TestClickPickupAllCollectsMatchingStacksOntoCursor(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) {
		inv.Open.Carried = stack("minecraft:stone", 10)
		inv.Open.Slots[11] = stack("minecraft:stone", 20)
		inv.Open.Slots[12] = stack("minecraft:dirt", 64)
		inv.Open.Slots[13] = stack("minecraft:stone", 40)
	})

	Click(w, h, ClickOp{Slot: 11, ClickType: ClickPickupAll})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Carried.Count != 64 {
		t.Fatalf("expected the cursor to cap at 64, got %d", inv.Open.Carried.Count)
	}
	if inv.Open.Slots[12].Count != 64 {
		t.Fatal("expected the non-matching dirt stack to be left untouched")
	}
	total := int32(0)
	if inv.Open.Slots[11] != nil {
		total += inv.Open.Slots[11].Count
	}
	if inv.Open.Slots[13] != nil {
		total += inv.Open.Slots[13].Count
	}
	if total != 6 { // 10 + 20 + 40 - 64 = 6 left behind across both slots
		t.Fatalf("expected 6 stone left behind across both slots, got %d", total)
	}
}

func TestClickQuickCraftDistributesEvenly(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Carried = stack("minecraft:sand", 9) })

	Click(w, h, ClickOp{Button: DragBeginLeft, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 10, Button: DragAddLeft, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 11, Button: DragAddLeft, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 12, Button: DragAddLeft, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Button: DragEndLeft, ClickType: ClickQuickCraft})

	inv, _ := ecs.Get[Inventory](w, h)
	for _, i := range []int{10, 11, 12} {
		if inv.Open.Slots[i] == nil || inv.Open.Slots[i].Count != 3 {
			t.Fatalf("expected 3 sand in slot %d, got %+v", i, inv.Open.Slots[i])
		}
	}
	if inv.Open.Carried != nil {
		t.Fatalf("expected the cursor to empty out, got %+v", inv.Open.Carried)
	}
}

func TestClickQuickCraftPlacesOnePerSlot(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Carried = stack("minecraft:sand", 2) })

	Click(w, h, ClickOp{Button: DragBeginRight, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 10, Button: DragAddRight, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 11, Button: DragAddRight, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Slot: 12, Button: DragAddRight, ClickType: ClickQuickCraft})
	Click(w, h, ClickOp{Button: DragEndRight, ClickType: ClickQuickCraft})

	inv, _ := ecs.Get[Inventory](w, h)
	if inv.Open.Slots[10] == nil || inv.Open.Slots[10].Count != 1 {
		t.Fatalf("expected 1 sand in slot 10, got %+v", inv.Open.Slots[10])
	}
	if inv.Open.Slots[11] == nil || inv.Open.Slots[11].Count != 1 {
		t.Fatalf("expected 1 sand in slot 11, got %+v", inv.Open.Slots[11])
	}
	if inv.Open.Slots[12] != nil {
		t.Fatalf("expected slot 12 to receive nothing once the cursor ran out, got %+v", inv.Open.Slots[12])
	}
	if inv.Open.Carried != nil {
		t.Fatalf("expected the cursor to empty out, got %+v", inv.Open.Carried)
	}
}

func TestOpenAndCloseRoundTripsPlayerSlots(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)
	ecs.Mutate(w, h, func(inv *Inventory) { inv.Open.Slots[HotbarStart] = stack("minecraft:diamond_pickaxe", 1) })

	trailing := make([]*ItemStack, PlayerInventorySize-9) // main(27) + hotbar(9) + offhand(1)
	copy(trailing, []*ItemStack{nil})
	inv, _ := ecs.Get[Inventory](w, h)
	copy(trailing, inv.Open.Slots[9:])

	Open(w, h, 5, "minecraft:generic_9x3", "Chest", 27, trailing)

	inv, _ = ecs.Get[Inventory](w, h)
	if inv.Open.WindowID != 5 || len(inv.Open.Slots) != 27+len(trailing) {
		t.Fatalf("unexpected menu after Open: %+v", inv.Open)
	}
	if inv.Open.Slots[27+HotbarStart-9] == nil {
		t.Fatal("expected the hotbar pickaxe to have carried over into the container menu")
	}

	Close(w, h)

	inv, _ = ecs.Get[Inventory](w, h)
	if inv.Open.WindowID != 0 {
		t.Fatalf("expected Close to restore window 0, got %+v", inv.Open)
	}
	if inv.Open.Slots[HotbarStart] == nil || inv.Open.Slots[HotbarStart].Kind != "minecraft:diamond_pickaxe" {
		t.Fatalf("expected the pickaxe to be restored to the hotbar, got %+v", inv.Open.Slots[HotbarStart])
	}

	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one ContainerClose, got %d", len(sent))
	}
	pkt, ok := sent[0].Packet.(*mcproto.ContainerClose)
	if !ok || pkt.WindowID != 5 {
		t.Fatalf("expected a ContainerClose for window 5, got %+v ok=%v", sent[0].Packet, ok)
	}
}

func TestSetSelectedHotbarSlotEmitsOnlyOnChange(t *testing.T) {
	w := ecs.NewWorld()
	h := spawnWithInventory(w)

	SetSelectedHotbarSlot(w, h, 0) // no-op: already 0
	FlushSelectedHotbarSlot(w)
	if len(ecs.DrainEvents[ecs.SendPacketEvent](w)) != 0 {
		t.Fatal("expected no packet when the hotbar slot didn't change")
	}

	SetSelectedHotbarSlot(w, h, 4)
	FlushSelectedHotbarSlot(w)
	sent := ecs.DrainEvents[ecs.SendPacketEvent](w)
	if len(sent) != 1 {
		t.Fatalf("expected exactly one SetCarriedItem, got %d", len(sent))
	}
	pkt, ok := sent[0].Packet.(*mcproto.SetCarriedItem)
	if !ok || pkt.Slot != 4 {
		t.Fatalf("expected SetCarriedItem{Slot:4}, got %+v ok=%v", sent[0].Packet, ok)
	}

	// Flushing again without a further change must not resend.
	FlushSelectedHotbarSlot(w)
	if len(ecs.DrainEvents[ecs.SendPacketEvent](w)) != 0 {
		t.Fatal("expected no further packet once already flushed")
	}
}
