package testutil

import (
	"bytes"
	"fmt"
	"net"

	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/netio"
)

// ServerSide is one accepted connection's server-side view: a framed
// netio.Conn plus the registry needed to encode/decode without
// exposing internal/conn's client-only state machine to tests.
type ServerSide struct {
	raw  net.Conn
	wire *netio.Conn
	reg  *mcproto.Registry

	ProfileName string
}

func newServerSide(raw net.Conn) *ServerSide {
	return &ServerSide{raw: raw, wire: netio.NewConn(raw), reg: mcproto.Std()}
}

// Close closes the underlying socket.
func (s *ServerSide) Close() error { return s.raw.Close() }

// runPreamble drives the fixed offline-mode Handshake→Login→
// Configuration exchange internal/conn.Conn.Dial performs from the
// client side (conn.go's handshake/login/configuration), so tests
// never need to restate it.
func (s *ServerSide) runPreamble() error {
	if _, err := s.read(mcproto.Handshake, mcproto.Serverbound); err != nil {
		return err
	}

	hello, err := s.read(mcproto.Login, mcproto.Serverbound)
	if err != nil {
		return err
	}
	h, ok := hello.(*mcproto.Hello)
	if !ok {
		return fmt.Errorf("testutil: expected Hello, got %T", hello)
	}
	s.ProfileName = h.Name

	if err := s.write(mcproto.Login, mcproto.Clientbound, "GameProfile", &mcproto.GameProfile{
		ProfileID: h.ProfileID,
		Name:      h.Name,
	}); err != nil {
		return err
	}
	if _, err := s.read(mcproto.Login, mcproto.Serverbound); err != nil { // LoginAcknowledged
		return err
	}

	if _, err := s.read(mcproto.Configuration, mcproto.Serverbound); err != nil { // ClientInformation
		return err
	}
	if err := s.write(mcproto.Configuration, mcproto.Clientbound, "FinishConfiguration", &mcproto.FinishConfiguration{}); err != nil {
		return err
	}
	if _, err := s.read(mcproto.Configuration, mcproto.Serverbound); err != nil { // FinishConfigurationAck
		return err
	}
	return nil
}

// Send writes one Game-phase clientbound packet, identified by the
// same bare-type-name typeKey internal/mcproto.Registry uses (see
// internal/handlers/outbound.go's typeKeyOf for the serverbound
// mirror of this convention).
func (s *ServerSide) Send(typeKey string, p mcproto.Packet) error {
	return s.write(mcproto.Game, mcproto.Clientbound, typeKey, p)
}

// Recv blocks for the next Game-phase serverbound packet the client
// sends.
func (s *ServerSide) Recv() (mcproto.Packet, error) {
	return s.read(mcproto.Game, mcproto.Serverbound)
}

func (s *ServerSide) read(phase mcproto.Phase, dir mcproto.Direction) (mcproto.Packet, error) {
	id, body, err := s.wire.ReadPacket()
	if err != nil {
		return nil, err
	}
	return s.reg.Read(phase, dir, id, body)
}

func (s *ServerSide) write(phase mcproto.Phase, dir mcproto.Direction, typeKey string, p mcproto.Packet) error {
	id, ok := s.reg.IDOf(phase, dir, typeKey)
	if !ok {
		return fmt.Errorf("testutil: no registered id for %s in phase %s", typeKey, phase)
	}
	var buf bytes.Buffer
	if err := s.reg.Write(phase, dir, typeKey, p, &buf); err != nil {
		return err
	}
	return s.wire.WritePacket(id, buf.Bytes())
}
