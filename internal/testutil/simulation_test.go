package testutil

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/StoreStation/vibeclient/internal/auth"
	"github.com/StoreStation/vibeclient/internal/conn"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

func TestFakeServerCompletesPreambleAndExchangesGamePackets(t *testing.T) {
	sim, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer sim.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	accepted := sim.AcceptAsync(ctx)

	host, portStr, err := net.SplitHostPort(sim.Addr())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	c, err := conn.Dial(ctx, sim.Addr(), host, uint16(port), conn.Options{
		Account: auth.Offline("Steve"),
	})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if c.Phase() != mcproto.Game {
		t.Fatalf("expected Game phase after Dial, got %s", c.Phase())
	}

	res := <-accepted
	if res.Err != nil {
		t.Fatalf("Accept: %v", res.Err)
	}
	ss := res.ServerSide
	defer ss.Close()

	if ss.ProfileName != "Steve" {
		t.Fatalf("expected server to observe Hello name Steve, got %q", ss.ProfileName)
	}

	if err := ss.Send("LoginPlay", LoginPlay(1, "minecraft:overworld")); err != nil {
		t.Fatalf("Send LoginPlay: %v", err)
	}
	pkt, err := c.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	lp, ok := pkt.(*mcproto.LoginPlay)
	if !ok || lp.DimensionName != "minecraft:overworld" {
		t.Fatalf("expected LoginPlay for minecraft:overworld, got %+v (ok=%v)", pkt, ok)
	}

	if err := c.WritePacket("ChatMessage", &mcproto.ChatMessage{Message: "hello"}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	got, err := ss.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	chat, ok := got.(*mcproto.ChatMessage)
	if !ok || !strings.Contains(chat.Message, "hello") {
		t.Fatalf("expected echoed ChatMessage, got %+v (ok=%v)", got, ok)
	}
}
