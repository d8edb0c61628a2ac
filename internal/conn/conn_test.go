package conn

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/StoreStation/vibeclient/internal/auth"
	"github.com/StoreStation/vibeclient/internal/mcproto"
	"github.com/StoreStation/vibeclient/internal/netio"
)

// fakeServer drives the other end of a listener through the minimum
// handshake/login/configuration sequence an offline-mode, no-compression
// server would send, so Dial can be exercised against a real TCP socket
// without a Mojang session server or a full vanilla server.
func fakeServer(t *testing.T, ln net.Listener, profileID uuid.UUID, name string) {
	t.Helper()
	raw, err := ln.Accept()
	require.NoError(t, err)
	defer raw.Close()

	reg := mcproto.Std()
	c := netio.NewConn(raw)

	readPhase := func(phase mcproto.Phase) mcproto.Packet {
		id, body, err := c.ReadPacket()
		require.NoError(t, err)
		pkt, err := reg.Read(phase, mcproto.Serverbound, id, body)
		require.NoError(t, err)
		return pkt
	}
	write := func(phase mcproto.Phase, typeKey string, p mcproto.Packet) {
		id, ok := reg.IDOf(phase, mcproto.Clientbound, typeKey)
		require.True(t, ok)
		var body bytes.Buffer
		require.NoError(t, p.Encode(&body))
		require.NoError(t, c.WritePacket(id, body.Bytes()))
	}

	intention := readPhase(mcproto.Handshake)
	_, ok := intention.(*mcproto.ClientIntention)
	require.True(t, ok)

	hello := readPhase(mcproto.Login)
	_, ok = hello.(*mcproto.Hello)
	require.True(t, ok)

	write(mcproto.Login, "GameProfile", &mcproto.GameProfile{ProfileID: profileID, Name: name})

	ack := readPhase(mcproto.Login)
	_, ok = ack.(*mcproto.LoginAcknowledged)
	require.True(t, ok)

	write(mcproto.Configuration, "FinishConfiguration", &mcproto.FinishConfiguration{})

	finishAck := readPhase(mcproto.Configuration)
	_, ok = finishAck.(*mcproto.FinishConfigurationAck)
	require.True(t, ok)
}

func TestDialCompletesHandshakeLoginConfiguration(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	acc := auth.Offline("Steve")
	done := make(chan struct{})
	go func() {
		defer close(done)
		fakeServer(t, ln, acc.ProfileID, acc.Name)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, ln.Addr().String(), "localhost", 25565, Options{
		Account:           acc,
		ClientInformation: mcproto.ClientInformation{Locale: "en_us", ViewDistance: 10},
	})
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, mcproto.Game, c.Phase())
	<-done
}

func TestServerIDHashIsDeterministic(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	secret := []byte("0123456789abcdef")
	h1 := auth.ServerIDHash("", secret, der)
	h2 := auth.ServerIDHash("", secret, der)
	require.Equal(t, h1, h2, "hash must be deterministic given identical inputs")
}

func TestUnexpectedPacketErrorMessage(t *testing.T) {
	err := &UnexpectedPacketError{Phase: mcproto.Login, Type: "*mcproto.Key"}
	require.Contains(t, err.Error(), "login")
	require.Contains(t, err.Error(), "*mcproto.Key")
}
