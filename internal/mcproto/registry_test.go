package mcproto

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestRegistryRoundTripHandshake(t *testing.T) {
	r := Std()
	pkt := &ClientIntention{ProtocolVersion: ProtocolVersion, Hostname: "localhost", Port: 25565, Intent: IntentLogin}

	var body bytes.Buffer
	if err := pkt.Encode(&body); err != nil {
		t.Fatal(err)
	}
	id, ok := r.IDOf(Handshake, Serverbound, "ClientIntention")
	if !ok || id != 0 {
		t.Fatalf("IDOf = %d, %v", id, ok)
	}
	decoded, err := r.Read(Handshake, Serverbound, id, body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(*ClientIntention)
	if *got != *pkt {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkt)
	}
}

func TestRegistryUnknownPacketID(t *testing.T) {
	r := Std()
	_, err := r.Read(Game, Clientbound, 0x7F7F, nil)
	if err == nil {
		t.Fatal("expected UnknownPacketIDError")
	}
	if _, ok := err.(*UnknownPacketIDError); !ok {
		t.Fatalf("expected *UnknownPacketIDError, got %T", err)
	}
}

func TestRegistryRoundTripLoginHello(t *testing.T) {
	r := Std()
	pkt := &Hello{Name: "Steve", ProfileID: uuid.New()}
	var body bytes.Buffer
	if err := pkt.Encode(&body); err != nil {
		t.Fatal(err)
	}
	id, ok := r.IDOf(Login, Serverbound, "Hello")
	if !ok {
		t.Fatal("Hello not registered")
	}
	decoded, err := r.Read(Login, Serverbound, id, body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	got := decoded.(*Hello)
	if got.Name != pkt.Name || got.ProfileID != pkt.ProfileID {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, pkt)
	}
}

func TestRegistryRoundTripMovement(t *testing.T) {
	r := Std()
	cases := []struct {
		typeKey string
		pkt     Packet
	}{
		{"MovePlayerPosRot", &MovePlayerPosRot{X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: -10, OnGround: true}},
		{"MovePlayerPos", &MovePlayerPos{X: 1, Y: 2, Z: 3, OnGround: false}},
		{"MovePlayerRot", &MovePlayerRot{Yaw: 10, Pitch: 20, OnGround: true}},
		{"MovePlayerStatusOnly", &MovePlayerStatusOnly{OnGround: true}},
	}
	for _, c := range cases {
		var body bytes.Buffer
		if err := c.pkt.Encode(&body); err != nil {
			t.Fatal(err)
		}
		id, ok := r.IDOf(Game, Serverbound, c.typeKey)
		if !ok {
			t.Fatalf("%s not registered", c.typeKey)
		}
		if _, err := r.Read(Game, Serverbound, id, body.Bytes()); err != nil {
			t.Fatalf("%s: %v", c.typeKey, err)
		}
	}
}
