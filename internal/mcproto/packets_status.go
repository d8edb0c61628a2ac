package mcproto

import (
	"io"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// StatusRequest (serverbound 0x00, empty body) asks for the server-list
// JSON response; rarely used by a bot but kept for completeness since a
// client may ping before deciding to join.
type StatusRequest struct{}

func (p *StatusRequest) Encode(w io.Writer) error { return nil }

func decodeStatusRequest(r io.Reader) (Packet, error) { return &StatusRequest{}, nil }

// StatusResponse (clientbound 0x00) carries the server-list JSON blob
// verbatim; parsing it is outside core scope (chat-component rendering
// is an excluded collaborator per spec.md §1), so we keep it as a raw
// string.
type StatusResponse struct {
	JSON string
}

func (p *StatusResponse) Encode(w io.Writer) error { return buf.WriteString(w, p.JSON) }

func decodeStatusResponse(r io.Reader) (Packet, error) {
	s, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{JSON: s}, nil
}

// PingRequest/PongResponse (both directions, id 0x01) round-trip an
// opaque payload used for latency measurement.
type PingRequest struct{ Payload int64 }

func (p *PingRequest) Encode(w io.Writer) error { return buf.WriteI64(w, p.Payload) }

func decodePingRequest(r io.Reader) (Packet, error) {
	v, err := buf.ReadI64(r)
	if err != nil {
		return nil, err
	}
	return &PingRequest{Payload: v}, nil
}

type PongResponse struct{ Payload int64 }

func (p *PongResponse) Encode(w io.Writer) error { return buf.WriteI64(w, p.Payload) }

func decodePongResponse(r io.Reader) (Packet, error) {
	v, err := buf.ReadI64(r)
	if err != nil {
		return nil, err
	}
	return &PongResponse{Payload: v}, nil
}
