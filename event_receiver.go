package vibeclient

import "github.com/StoreStation/vibeclient/internal/handlers"

// EventReceiver is the other half of spec.md §6's
// Client::join(account, address) → (Client, EventReceiver): a thin,
// read-only view over the Session's event channel (internal/handlers
// keeps the channel itself, since only the Session publishes to it).
type EventReceiver struct {
	events <-chan handlers.Event
}

func newEventReceiver(s *handlers.Session) *EventReceiver {
	return &EventReceiver{events: s.Events()}
}

// Recv blocks for the next event, or returns ok=false once the
// session's event channel closes (it never does today — Disconnect is
// delivered as a DisconnectEvent, not by closing the channel — ok is
// here so a caller's for-range-equivalent select loop has a clean
// exit path if that ever changes).
func (r *EventReceiver) Recv() (Event, bool) {
	ev, ok := <-r.events
	return ev, ok
}

// Chan exposes the underlying channel directly for callers that want
// to select over it alongside other work.
func (r *EventReceiver) Chan() <-chan handlers.Event { return r.events }
