package inventory

// OutsideSlot is the slot index vanilla uses for "clicked outside the
// window" (spec.md §4.9's click op carries this as an ordinary Slot
// value rather than a separate flag, matching the teacher's
// `slotNum == -999` checks).
const OutsideSlot int16 = -999

// ClickType values match the protocol's Click Container action_type
// field (spec.md §4.9 "click(op)"), generalizing the teacher's mode
// byte (0,1,2,3,4,5,6) into named constants.
const (
	ClickPickup     int32 = 0
	ClickQuickMove  int32 = 1
	ClickSwap       int32 = 2
	ClickClone      int32 = 3
	ClickThrow      int32 = 4
	ClickQuickCraft int32 = 5
	ClickPickupAll  int32 = 6
)

// Button values for ClickPickup / ClickThrow.
const (
	ButtonLeft  int8 = 0
	ButtonRight int8 = 1
)

// Button values for ClickQuickCraft (drag/paint), matching the
// teacher's DragButton/button dispatch in its mode-5 handling.
const (
	DragBeginLeft    int8 = 0
	DragAddLeft      int8 = 1
	DragEndLeft      int8 = 2
	DragBeginRight   int8 = 4
	DragAddRight     int8 = 5
	DragEndRight     int8 = 6
)

// ClickOp is one client-issued click, generalizing the teacher's
// (slotNum, button, mode) triple.
type ClickOp struct {
	Slot      int16
	Button    int8
	ClickType int32
}

// applyClick mutates m in place for op and returns the container-local
// slot indices it changed (m.Carried is reported separately by the
// caller, since it's always resent regardless of whether it changed).
func applyClick(m *Menu, op ClickOp) []int16 {
	switch op.ClickType {
	case ClickPickup:
		return applyPickup(m, op)
	case ClickQuickMove:
		return applyQuickMove(m, op)
	case ClickSwap:
		return applyHotbarSwap(m, op)
	case ClickClone:
		return applyClone(m, op)
	case ClickThrow:
		return applyThrow(m, op)
	case ClickQuickCraft:
		return applyQuickCraft(m, op)
	case ClickPickupAll:
		return applyPickupAll(m, op)
	default:
		return nil
	}
}

func (m *Menu) inBounds(i int) bool { return i >= 0 && i < len(m.Slots) }

// applyPickup generalizes the teacher's mode-0 left/right-click
// handling (pkg/server/inventory.go's button==0/button==1 branches).
func applyPickup(m *Menu, op ClickOp) []int16 {
	if op.Slot == OutsideSlot {
		if m.Carried.Empty() {
			return nil
		}
		if op.Button == ButtonLeft {
			m.Carried = nil
		} else {
			c := m.Carried.Clone()
			c.Count--
			if c.Count <= 0 {
				c = nil
			}
			m.Carried = c
		}
		return nil
	}

	i := int(op.Slot)
	if !m.inBounds(i) {
		return nil
	}
	slot := m.Slots[i]

	switch op.Button {
	case ButtonLeft:
		if SameKind(m.Carried, slot) {
			space := maxStackSize - slot.Count
			if m.Carried.Count <= space {
				slot = slot.Clone()
				slot.Count += m.Carried.Count
				m.Carried = nil
			} else {
				carried := m.Carried.Clone()
				carried.Count -= space
				slot = slot.Clone()
				slot.Count = maxStackSize
				m.Carried = carried
			}
		} else {
			slot, m.Carried = m.Carried, slot
		}
	case ButtonRight:
		switch {
		case m.Carried.Empty() && !slot.Empty():
			half := (slot.Count + 1) / 2
			carried := slot.Clone()
			carried.Count = half
			slot = slot.Clone()
			slot.Count -= half
			if slot.Count <= 0 {
				slot = nil
			}
			m.Carried = carried
		case !m.Carried.Empty() && slot.Empty():
			slot = m.Carried.Clone()
			slot.Count = 1
			carried := m.Carried.Clone()
			carried.Count--
			if carried.Count <= 0 {
				carried = nil
			}
			m.Carried = carried
		case SameKind(m.Carried, slot) && slot.Count < maxStackSize:
			slot = slot.Clone()
			slot.Count++
			carried := m.Carried.Clone()
			carried.Count--
			if carried.Count <= 0 {
				carried = nil
			}
			m.Carried = carried
		default:
			slot, m.Carried = m.Carried, slot
		}
	}
	m.Slots[i] = slot
	return []int16{op.Slot}
}

// shiftDestRange returns the [start, end] slot range (inclusive) a
// shift-click on slot moves into, generalizing the teacher's
// armor/main/hotbar routing (window 0) to a container/player-inventory
// split for every other menu kind.
func (m *Menu) shiftDestRange(slot int16) (int, int) {
	n := len(m.Slots)
	if m.ContainerLen == 0 {
		switch {
		case int(slot) >= HotbarStart && int(slot) <= HotbarEnd:
			return MainStart, MainEnd
		case int(slot) >= MainStart && int(slot) <= MainEnd:
			return HotbarStart, HotbarEnd
		default:
			return MainStart, MainEnd
		}
	}
	if int(slot) < m.ContainerLen {
		return m.ContainerLen, n - 1
	}
	return 0, m.ContainerLen - 1
}

// applyQuickMove generalizes the teacher's mode-1 shift-click: stack
// onto matching items first, then spill into empty slots.
func applyQuickMove(m *Menu, op ClickOp) []int16 {
	i := int(op.Slot)
	if !m.inBounds(i) || m.Slots[i].Empty() {
		return nil
	}
	item := m.Slots[i]
	start, end := m.shiftDestRange(op.Slot)
	remaining := item.Count
	var changed []int16

	for j := start; j <= end && remaining > 0; j++ {
		if j == i || !m.inBounds(j) {
			continue
		}
		dest := m.Slots[j]
		if SameKind(dest, item) && dest.Count < maxStackSize {
			space := maxStackSize - dest.Count
			give := remaining
			if give > space {
				give = space
			}
			dest = dest.Clone()
			dest.Count += give
			m.Slots[j] = dest
			remaining -= give
			changed = append(changed, int16(j))
		}
	}
	for j := start; j <= end && remaining > 0; j++ {
		if j == i || !m.inBounds(j) {
			continue
		}
		if m.Slots[j].Empty() {
			placed := item.Clone()
			placed.Count = remaining
			m.Slots[j] = placed
			remaining = 0
			changed = append(changed, int16(j))
		}
	}
	if remaining == item.Count {
		return nil
	}
	if remaining <= 0 {
		m.Slots[i] = nil
	} else {
		left := item.Clone()
		left.Count = remaining
		m.Slots[i] = left
	}
	return append(changed, op.Slot)
}

// applyHotbarSwap generalizes the teacher's mode-2 number-key hotkey
// swap: Button carries the pressed hotkey (0-8).
func applyHotbarSwap(m *Menu, op ClickOp) []int16 {
	hotbar := HotbarStart + int(op.Button)
	i := int(op.Slot)
	if hotbar < HotbarStart || hotbar > HotbarEnd || !m.inBounds(i) || !m.inBounds(hotbar) {
		return nil
	}
	m.Slots[i], m.Slots[hotbar] = m.Slots[hotbar], m.Slots[i]
	return []int16{op.Slot, int16(hotbar)}
}

// applyClone is creative mode's middle-click duplicate: puts a full
// stack of the clicked item on the cursor without touching the slot.
func applyClone(m *Menu, op ClickOp) []int16 {
	i := int(op.Slot)
	if !m.inBounds(i) || m.Slots[i].Empty() {
		return nil
	}
	dup := m.Slots[i].Clone()
	dup.Count = maxStackSize
	m.Carried = dup
	return nil
}

// applyThrow generalizes the teacher's mode-4 drop-from-window
// handling (the actual drop-with-velocity side effect is produced by
// internal/handlers reading the server's resulting entity spawn, not
// by this package).
func applyThrow(m *Menu, op ClickOp) []int16 {
	if op.Slot == OutsideSlot {
		if m.Carried.Empty() {
			return nil
		}
		if op.Button == ButtonLeft {
			c := m.Carried.Clone()
			c.Count--
			if c.Count <= 0 {
				c = nil
			}
			m.Carried = c
		} else {
			m.Carried = nil
		}
		return nil
	}
	i := int(op.Slot)
	if !m.inBounds(i) || m.Slots[i].Empty() {
		return nil
	}
	slot := m.Slots[i]
	if op.Button == ButtonLeft {
		slot = slot.Clone()
		slot.Count--
		if slot.Count <= 0 {
			slot = nil
		}
	} else {
		slot = nil
	}
	m.Slots[i] = slot
	return []int16{op.Slot}
}

// applyPickupAll is the teacher's mode-6 double-click collect: sweeps
// every slot for items matching the cursor, filling it up to a full
// stack.
func applyPickupAll(m *Menu, op ClickOp) []int16 {
	if m.Carried.Empty() {
		return nil
	}
	var changed []int16
	for i := 0; i < len(m.Slots) && m.Carried.Count < maxStackSize; i++ {
		s := m.Slots[i]
		if !SameKind(s, m.Carried) {
			continue
		}
		space := maxStackSize - m.Carried.Count
		take := s.Count
		if take > space {
			take = space
		}
		carried := m.Carried.Clone()
		carried.Count += take
		m.Carried = carried

		s = s.Clone()
		s.Count -= take
		if s.Count <= 0 {
			m.Slots[i] = nil
		} else {
			m.Slots[i] = s
		}
		changed = append(changed, int16(i))
	}
	return changed
}

// applyQuickCraft generalizes the teacher's mode-5 drag/paint handling
// (button values 0/4 begin, 1/5 add a slot, 2/6 finish).
func applyQuickCraft(m *Menu, op ClickOp) []int16 {
	switch op.Button {
	case DragBeginLeft:
		m.DragSlots = nil
		m.DragButton = 0
	case DragBeginRight:
		m.DragSlots = nil
		m.DragButton = 1
	case DragAddLeft, DragAddRight:
		if m.inBounds(int(op.Slot)) {
			m.DragSlots = append(m.DragSlots, op.Slot)
		}
	case DragEndLeft:
		return finishDragEvenly(m)
	case DragEndRight:
		return finishDragOnePerSlot(m)
	}
	return nil
}

// finishDragEvenly implements "distribute evenly" (left-drag end).
func finishDragEvenly(m *Menu) []int16 {
	defer func() { m.DragSlots = nil }()
	if m.Carried.Empty() || len(m.DragSlots) == 0 {
		return nil
	}
	perSlot := m.Carried.Count / int32(len(m.DragSlots))
	if perSlot < 1 {
		perSlot = 1
	}
	var changed []int16
	for _, idx := range m.DragSlots {
		if m.Carried.Empty() || !m.inBounds(int(idx)) {
			break
		}
		i := int(idx)
		dest := m.Slots[i]
		give := perSlot
		if give > m.Carried.Count {
			give = m.Carried.Count
		}
		switch {
		case dest.Empty():
			dest = m.Carried.Clone()
			dest.Count = give
		case SameKind(dest, m.Carried):
			space := maxStackSize - dest.Count
			if give > space {
				give = space
			}
			if give <= 0 {
				continue
			}
			dest = dest.Clone()
			dest.Count += give
		default:
			continue
		}
		m.Slots[i] = dest
		carried := m.Carried.Clone()
		carried.Count -= give
		if carried.Count <= 0 {
			carried = nil
		}
		m.Carried = carried
		changed = append(changed, idx)
	}
	return changed
}

// finishDragOnePerSlot implements "place one per slot" (right-drag
// end).
func finishDragOnePerSlot(m *Menu) []int16 {
	defer func() { m.DragSlots = nil }()
	if m.Carried.Empty() || len(m.DragSlots) == 0 {
		return nil
	}
	var changed []int16
	for _, idx := range m.DragSlots {
		if m.Carried.Empty() || !m.inBounds(int(idx)) {
			break
		}
		i := int(idx)
		dest := m.Slots[i]
		switch {
		case dest.Empty():
			dest = m.Carried.Clone()
			dest.Count = 1
		case SameKind(dest, m.Carried) && dest.Count < maxStackSize:
			dest = dest.Clone()
			dest.Count++
		default:
			continue
		}
		m.Slots[i] = dest
		carried := m.Carried.Clone()
		carried.Count--
		if carried.Count <= 0 {
			carried = nil
		}
		m.Carried = carried
		changed = append(changed, idx)
	}
	return changed
}
