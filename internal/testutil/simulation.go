// Package testutil provides an in-memory server for exercising
// internal/conn and internal/handlers without a real Minecraft server
// (spec.md §8 "testable properties... exercised against an in-memory
// simulated connection"). Grounded on the teacher's own test doubles in
// pkg/server — it never mocks the wire codec itself, it drives the real
// one against a loopback socket — generalized from "test the server
// against a real client" to "test the client against a scripted
// server".
package testutil

import (
	"context"
	"net"

	"github.com/StoreStation/vibeclient/internal/mcproto"
)

// FakeServer is the scripted peer a Simulation drives conn.Dial
// against. It performs the fixed Handshake→Login→Configuration
// preamble itself (spec.md §4.4) so tests start already in Game phase,
// then hands the caller a ServerSide to read/write whatever Game
// packets the test wants to script.
type FakeServer struct {
	listener net.Listener
	addr     string
}

// Listen starts a FakeServer on an OS-assigned loopback port. Callers
// dial it with internal/conn.Dial(ctx, sim.Addr(), "localhost", port,
// opt).
func Listen() (*FakeServer, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	return &FakeServer{listener: l, addr: l.Addr().String()}, nil
}

// Addr returns the address a client should dial.
func (s *FakeServer) Addr() string { return s.addr }

// Close stops accepting new connections.
func (s *FakeServer) Close() error { return s.listener.Close() }

// Accept blocks for one incoming connection, runs it through the
// standard offline-mode preamble (no compression, no encryption —
// every field a test cares about is decided after Game phase begins),
// and returns a ServerSide positioned at the start of Game. The
// returned profile/name echo whatever the client's Hello carried,
// matching a real offline-mode server's GameProfile response.
func (s *FakeServer) Accept() (*ServerSide, error) {
	raw, err := s.listener.Accept()
	if err != nil {
		return nil, err
	}
	ss := newServerSide(raw)
	if err := ss.runPreamble(); err != nil {
		raw.Close()
		return nil, err
	}
	return ss, nil
}

// AcceptAsync runs Accept on a background goroutine and delivers the
// result (or error) on the returned channel, so a test can start
// conn.Dial concurrently without deadlocking on the accept.
func (s *FakeServer) AcceptAsync(ctx context.Context) <-chan acceptResult {
	ch := make(chan acceptResult, 1)
	go func() {
		ss, err := s.Accept()
		select {
		case ch <- acceptResult{ss, err}:
		case <-ctx.Done():
		}
	}()
	return ch
}

type acceptResult struct {
	ServerSide *ServerSide
	Err        error
}

// LoginPlay builds a minimal, self-consistent LoginPlay a test can
// hand to ServerSide.Send right after Accept returns, matching the
// fields internal/handlers.spawnLocalPlayer reads.
func LoginPlay(entityID int32, dimension string) *mcproto.LoginPlay {
	return &mcproto.LoginPlay{
		EntityID:      entityID,
		DimensionName: dimension,
		GameMode:      0,
	}
}
