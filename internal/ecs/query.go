package ecs

// Filter narrows a query beyond "has component C1..Cn" (spec.md §4.5
// "filters include With<C>, Without<C>, Changed<C>").
type Filter interface {
	matches(w *World, idx uint32) bool
}

type withFilter struct{ key componentKey }

func (f withFilter) matches(w *World, idx uint32) bool {
	s, ok := w.stores[f.key]
	return ok && s.has(idx)
}

// With requires the entity also carry component C, without fetching
// its value.
func With[T any]() Filter { return withFilter{key: keyOf[T]()} }

type withoutFilter struct{ key componentKey }

func (f withoutFilter) matches(w *World, idx uint32) bool {
	s, ok := w.stores[f.key]
	return !ok || !s.has(idx)
}

// Without excludes entities carrying component C.
func Without[T any]() Filter { return withoutFilter{key: keyOf[T]()} }

type changedFilter struct {
	key  componentKey
	tick uint64
}

func (f changedFilter) matches(w *World, idx uint32) bool {
	s, ok := w.stores[f.key]
	return ok && s.changedSince(idx, f.tick)
}

// Changed requires component C to have been written since sinceTick
// (spec.md §4.5 "true if C was written since the last run of the
// calling system"); callers typically pass the tick captured at the
// start of their previous invocation.
func Changed[T any](sinceTick uint64) Filter {
	return changedFilter{key: keyOf[T](), tick: sinceTick}
}

// Query1 iterates every live entity carrying component T, yielding its
// Handle and component value, subject to extra filters. Additional
// Query2/Query3 helpers cover the common two- and three-component
// joins; a caller needing more composes with Get inside the callback.
func Query1[T any](w *World, filters []Filter, fn func(Handle, T)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := mustStore[T](w)
	for idx, v := range s.data {
		h := Handle{index: idx, generation: w.entities[idx].generation}
		if !w.entities[idx].alive {
			continue
		}
		if !passesAll(w, idx, filters) {
			continue
		}
		fn(h, v)
	}
}

// Query2 joins two components, yielding only entities carrying both.
func Query2[A, B any](w *World, filters []Filter, fn func(Handle, A, B)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sa := mustStore[A](w)
	sb := mustStore[B](w)
	for idx, a := range sa.data {
		if !w.entities[idx].alive {
			continue
		}
		b, ok := sb.data[idx]
		if !ok {
			continue
		}
		if !passesAll(w, idx, filters) {
			continue
		}
		h := Handle{index: idx, generation: w.entities[idx].generation}
		fn(h, a, b)
	}
}

// Query3 joins three components.
func Query3[A, B, C any](w *World, filters []Filter, fn func(Handle, A, B, C)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sa := mustStore[A](w)
	sb := mustStore[B](w)
	sc := mustStore[C](w)
	for idx, a := range sa.data {
		if !w.entities[idx].alive {
			continue
		}
		b, ok := sb.data[idx]
		if !ok {
			continue
		}
		c, ok := sc.data[idx]
		if !ok {
			continue
		}
		if !passesAll(w, idx, filters) {
			continue
		}
		h := Handle{index: idx, generation: w.entities[idx].generation}
		fn(h, a, b, c)
	}
}

func passesAll(w *World, idx uint32, filters []Filter) bool {
	for _, f := range filters {
		if !f.matches(w, idx) {
			return false
		}
	}
	return true
}

// mustStore returns the store for T, or an empty throwaway store if
// none has ever been created — it must not write to w.stores, since
// every caller holds only World's read lock.
func mustStore[T any](w *World) *ComponentStore[T] {
	k := keyOf[T]()
	existing, ok := w.stores[k]
	if ok {
		return existing.(*ComponentStore[T])
	}
	return newComponentStore[T]()
}

// CurrentTick returns the World's GameTick counter, for callers that
// need to remember "the tick as of now" to pass to Changed later.
func (w *World) CurrentTick() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}
