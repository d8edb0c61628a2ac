package mcproto

import (
	"bytes"
	"fmt"
	"io"
)

// UnknownPacketIDError is fatal to a connection: an id the registry
// doesn't recognize for the current (phase, direction) almost always
// means a protocol-version mismatch, not a recoverable parse error.
type UnknownPacketIDError struct {
	Phase     Phase
	Direction Direction
	ID        int32
}

func (e *UnknownPacketIDError) Error() string {
	return fmt.Sprintf("mcproto: unknown packet id %d for %s/%v", e.ID, e.Phase, e.Direction)
}

type registryKey struct {
	phase     Phase
	direction Direction
}

type entry struct {
	id      int32
	decode  Decoder
	typeKey string // reflect-free identity for id-by-packet lookups
}

// Registry dispatches packet ids to decoders and back, scoped per
// (phase, direction). One process-wide Registry is built at init via
// Register and never mutated afterward (spec.md §9 "global state").
type Registry struct {
	byKey map[registryKey]map[int32]entry
	byPkt map[registryKey]map[string]int32
}

// NewRegistry returns an empty registry; Std() returns the populated
// process-wide instance used by the rest of the module.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[registryKey]map[int32]entry),
		byPkt: make(map[registryKey]map[string]int32),
	}
}

// Register adds one packet mapping. typeKey must be a value stable and
// unique per Go type (call sites pass the bare Go type name, e.g.
// "ClientIntention") so Registry.IDOf can look up a packet's wire id without
// reflection at decode time.
func (r *Registry) Register(phase Phase, dir Direction, id int32, typeKey string, decode Decoder) {
	key := registryKey{phase, dir}
	if r.byKey[key] == nil {
		r.byKey[key] = make(map[int32]entry)
		r.byPkt[key] = make(map[string]int32)
	}
	r.byKey[key][id] = entry{id: id, decode: decode, typeKey: typeKey}
	r.byPkt[key][typeKey] = id
}

// Read decodes one packet body given its numeric id.
func (r *Registry) Read(phase Phase, dir Direction, id int32, body []byte) (Packet, error) {
	key := registryKey{phase, dir}
	m := r.byKey[key]
	e, ok := m[id]
	if !ok {
		return nil, &UnknownPacketIDError{Phase: phase, Direction: dir, ID: id}
	}
	return e.decode(bytes.NewReader(body))
}

// Write checks that typeKey is registered and writes only the encoded
// packet body to w, without the numeric id.
func (r *Registry) Write(phase Phase, dir Direction, typeKey string, p Packet, w io.Writer) error {
	id, ok := r.IDOf(phase, dir, typeKey)
	if !ok {
		return fmt.Errorf("mcproto: %s not registered for %s/%v", typeKey, phase, dir)
	}
	var body bytes.Buffer
	if err := p.Encode(&body); err != nil {
		return err
	}
	// Caller (internal/conn) is responsible for writing id+body as one
	// frame via internal/netio.Conn.WritePacket(id, body.Bytes()).
	_, err := w.Write(body.Bytes())
	_ = id
	return err
}

// IDOf returns the numeric wire id registered for typeKey.
func (r *Registry) IDOf(phase Phase, dir Direction, typeKey string) (int32, bool) {
	m := r.byPkt[registryKey{phase, dir}]
	if m == nil {
		return 0, false
	}
	id, ok := m[typeKey]
	return id, ok
}
