package mcproto

import (
	"io"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// ClientIntention is the sole handshake packet (serverbound, id 0x00):
// it picks the next phase (Status or Login) and carries the address the
// client believes it is connecting to.
type ClientIntention struct {
	ProtocolVersion int32
	Hostname        string
	Port            uint16
	Intent          int32 // 1 = Status, 2 = Login
}

const (
	IntentStatus int32 = 1
	IntentLogin  int32 = 2
)

func (p *ClientIntention) Encode(w io.Writer) error {
	if _, err := buf.WriteVarInt(w, p.ProtocolVersion); err != nil {
		return err
	}
	if err := buf.WriteString(w, p.Hostname); err != nil {
		return err
	}
	if err := buf.WriteU16(w, p.Port); err != nil {
		return err
	}
	_, err := buf.WriteVarInt(w, p.Intent)
	return err
}

func decodeClientIntention(r io.Reader) (Packet, error) {
	p := &ClientIntention{}
	var err error
	if p.ProtocolVersion, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	if p.Hostname, err = buf.ReadString(r); err != nil {
		return nil, err
	}
	if p.Port, err = buf.ReadU16(r); err != nil {
		return nil, err
	}
	if p.Intent, _, err = buf.ReadVarInt(r); err != nil {
		return nil, err
	}
	return p, nil
}
