package ecs

// eventQueue is the type-erased interface every generic
// EventQueue[T] satisfies, so World can clear every queue at the end
// of a GameTick without knowing their concrete payload types (spec.md
// §4.5 "Events. Typed event queues; producers push, consumers drain;
// queues are cleared at the end of each frame.").
type eventQueue interface {
	clear()
}

// EventQueue holds all events of one type pushed since the last
// clear. Consumers call Drain, which both reads and empties it —
// "drain" in spec.md's sense — while World.RunGameTick additionally
// force-clears every queue at frame end even if nothing drained it,
// so a consumer that skips a tick never sees stale events replayed.
type EventQueue[T any] struct {
	items []T
}

func (q *EventQueue[T]) clear() { q.items = q.items[:0] }

func eventQueueFor[T any](w *World) *EventQueue[T] {
	k := keyOf[T]()
	w.mu.Lock()
	defer w.mu.Unlock()
	existing, ok := w.events[k]
	if ok {
		return existing.(*EventQueue[T])
	}
	q := &EventQueue[T]{}
	w.events[k] = q
	return q
}

// PushEvent appends an event of type T to its queue (spec.md §4.5
// "producers push").
func PushEvent[T any](w *World, ev T) {
	q := eventQueueFor[T](w)
	w.mu.Lock()
	defer w.mu.Unlock()
	q.items = append(q.items, ev)
}

// DrainEvents returns every event of type T queued since the last
// drain or GameTick boundary, and empties the queue (spec.md §4.5
// "consumers drain").
func DrainEvents[T any](w *World) []T {
	q := eventQueueFor[T](w)
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}

// Observer is a synchronous event handler, run inline at the Trigger
// call site rather than buffered for the next drain (spec.md §4.5
// "Triggers are a synchronous variant (observers run inline).").
type Observer[T any] func(w *World, ev T)

var observerRegistry = map[componentKey][]func(w *World, ev any){}

// Trigger invokes every observer registered for T synchronously, in
// registration order, in addition to (not instead of) making ev
// available to ordinary drain-based consumers via PushEvent.
func Trigger[T any](w *World, ev T) {
	PushEvent(w, ev)
	for _, obs := range observerRegistry[keyOf[T]()] {
		obs(w, ev)
	}
}

// Observe registers fn to run synchronously every time Trigger[T] is
// called, for the lifetime of the process (observer registration is
// process-wide, like the packet registry in internal/mcproto, since
// it names a behavior rather than per-instance state).
func Observe[T any](fn Observer[T]) {
	k := keyOf[T]()
	observerRegistry[k] = append(observerRegistry[k], func(w *World, ev any) {
		fn(w, ev.(T))
	})
}
