package world

import "sync"

// Store holds every Instance (dimension) known to its owner, keyed by
// resource identifier, and centralizes lookup/creation. Each
// handlers.Session creates its own Store, so Instances and their loaded
// chunks are not shared between Clients, and an Instance carries no
// reference count.
type Store struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewStore creates an empty instance registry.
func NewStore() *Store {
	return &Store{instances: map[string]*Instance{}}
}

// Instance returns the named instance, creating it with the given
// minY/height if this is the first client to reference it.
func (s *Store) Instance(name string, minY, height int32) *Instance {
	s.mu.RLock()
	in, ok := s.instances[name]
	s.mu.RUnlock()
	if ok {
		return in
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if in, ok := s.instances[name]; ok {
		return in
	}
	in = NewInstance(name, minY, height)
	s.instances[name] = in
	return in
}

// Lookup returns the named instance without creating it.
func (s *Store) Lookup(name string) (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.instances[name]
	return in, ok
}

// Drop removes an instance entirely (no client references it anymore).
func (s *Store) Drop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, name)
}
