package mcproto

import (
	"io"

	"github.com/google/uuid"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// Hello (serverbound 0x00) starts the login sequence with the chosen
// username and profile id (zero UUID for offline-mode accounts).
type Hello struct {
	Name      string
	ProfileID uuid.UUID
}

func (p *Hello) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.Name); err != nil {
		return err
	}
	return buf.WriteUUID(w, p.ProfileID)
}

func decodeHello(r io.Reader) (Packet, error) {
	name, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	id, err := buf.ReadUUID(r)
	if err != nil {
		return nil, err
	}
	return &Hello{Name: name, ProfileID: id}, nil
}

// EncryptionRequest (clientbound 0x01) asks the client to generate a
// shared secret and prove session-server ownership (spec.md §4.4, §6).
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	Challenge   []byte
	ShouldAuth  bool
}

func (p *EncryptionRequest) Encode(w io.Writer) error {
	if err := buf.WriteString(w, p.ServerID); err != nil {
		return err
	}
	if err := buf.WriteSeq(w, toInt8s(p.PublicKey), buf.WriteI8); err != nil {
		return err
	}
	if err := buf.WriteSeq(w, toInt8s(p.Challenge), buf.WriteI8); err != nil {
		return err
	}
	return buf.WriteBool(w, p.ShouldAuth)
}

func decodeEncryptionRequest(r io.Reader) (Packet, error) {
	serverID, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	pubKey, err := buf.ReadSeq(r, buf.ReadI8)
	if err != nil {
		return nil, err
	}
	challenge, err := buf.ReadSeq(r, buf.ReadI8)
	if err != nil {
		return nil, err
	}
	shouldAuth, err := buf.ReadBool(r)
	if err != nil {
		return nil, err
	}
	return &EncryptionRequest{
		ServerID:   serverID,
		PublicKey:  fromInt8s(pubKey),
		Challenge:  fromInt8s(challenge),
		ShouldAuth: shouldAuth,
	}, nil
}

// Key (serverbound 0x01) answers an EncryptionRequest with the
// RSA-encrypted shared secret and challenge.
type Key struct {
	EncryptedSecret    []byte
	EncryptedChallenge []byte
}

func (p *Key) Encode(w io.Writer) error {
	if err := buf.WriteSeq(w, toInt8s(p.EncryptedSecret), buf.WriteI8); err != nil {
		return err
	}
	return buf.WriteSeq(w, toInt8s(p.EncryptedChallenge), buf.WriteI8)
}

func decodeKey(r io.Reader) (Packet, error) {
	secret, err := buf.ReadSeq(r, buf.ReadI8)
	if err != nil {
		return nil, err
	}
	challenge, err := buf.ReadSeq(r, buf.ReadI8)
	if err != nil {
		return nil, err
	}
	return &Key{EncryptedSecret: fromInt8s(secret), EncryptedChallenge: fromInt8s(challenge)}, nil
}

// LoginCompression (clientbound 0x03) enables the compression envelope
// for the rest of the session.
type LoginCompression struct {
	Threshold int32
}

func (p *LoginCompression) Encode(w io.Writer) error {
	_, err := buf.WriteVarInt(w, p.Threshold)
	return err
}

func decodeLoginCompression(r io.Reader) (Packet, error) {
	v, _, err := buf.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &LoginCompression{Threshold: v}, nil
}

// GameProfile (clientbound 0x02) finishes login with the server's view
// of the client's profile (possibly different from what Hello sent, in
// the case of name-casing or dashless-UUID normalization).
type GameProfile struct {
	ProfileID uuid.UUID
	Name      string
}

func (p *GameProfile) Encode(w io.Writer) error {
	if err := buf.WriteUUID(w, p.ProfileID); err != nil {
		return err
	}
	return buf.WriteString(w, p.Name)
}

func decodeGameProfile(r io.Reader) (Packet, error) {
	id, err := buf.ReadUUID(r)
	if err != nil {
		return nil, err
	}
	name, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &GameProfile{ProfileID: id, Name: name}, nil
}

// LoginAcknowledged (serverbound 0x03, empty body) transitions the
// connection from Login to Configuration.
type LoginAcknowledged struct{}

func (p *LoginAcknowledged) Encode(w io.Writer) error { return nil }

func decodeLoginAcknowledged(r io.Reader) (Packet, error) { return &LoginAcknowledged{}, nil }

// LoginDisconnect (clientbound 0x00) terminates the connection during
// login with an opaque chat-component reason (spec.md §1: chat
// component serialization is an excluded collaborator, so Reason stays
// as the raw JSON the server sent).
type LoginDisconnect struct {
	Reason string
}

func (p *LoginDisconnect) Encode(w io.Writer) error { return buf.WriteString(w, p.Reason) }

func decodeLoginDisconnect(r io.Reader) (Packet, error) {
	s, err := buf.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &LoginDisconnect{Reason: s}, nil
}

func toInt8s(b []byte) []int8 {
	out := make([]int8, len(b))
	for i, v := range b {
		out[i] = int8(v)
	}
	return out
}

func fromInt8s(b []int8) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[i] = byte(v)
	}
	return out
}
