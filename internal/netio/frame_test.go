package netio

import (
	"bytes"
	"testing"
)

// loopback is a minimal in-memory duplex buffer good enough for testing
// one-directional framing without a real socket.
type loopback struct {
	buf bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error)  { return l.buf.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.buf.Write(p) }

func TestFrameRoundTripNoCompression(t *testing.T) {
	pipe := &loopback{}
	writer := NewConn(pipe)
	reader := NewConn(pipe)

	if err := writer.WritePacket(5, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	id, body, err := reader.ReadPacket()
	if err != nil {
		t.Fatal(err)
	}
	if id != 5 || string(body) != "hello" {
		t.Fatalf("got id=%d body=%q", id, body)
	}
}

func TestFrameCompressionToggle(t *testing.T) {
	pipe := &loopback{}
	writer := NewConn(pipe)
	reader := NewConn(pipe)

	big := bytes.Repeat([]byte("x"), 500)

	// Uncompressed first.
	if err := writer.WritePacket(1, []byte("small")); err != nil {
		t.Fatal(err)
	}
	// Enable compression on both sides, then send something over
	// threshold (compressed) and something under (stays raw).
	writer.EnableCompression(64)
	reader.EnableCompression(64)
	if err := writer.WritePacket(2, big); err != nil {
		t.Fatal(err)
	}
	if err := writer.WritePacket(3, []byte("tiny")); err != nil {
		t.Fatal(err)
	}
	// Disable, then re-enable: must still work in one session.
	writer.EnableCompression(NoCompression)
	reader.EnableCompression(NoCompression)
	if err := writer.WritePacket(4, []byte("after-disable")); err != nil {
		t.Fatal(err)
	}
	writer.EnableCompression(0)
	reader.EnableCompression(0)
	if err := writer.WritePacket(6, []byte("re-enabled")); err != nil {
		t.Fatal(err)
	}

	want := []struct {
		id   int32
		body string
	}{
		{1, "small"},
		{2, string(big)},
		{3, "tiny"},
		{4, "after-disable"},
		{6, "re-enabled"},
	}
	for _, w := range want {
		id, body, err := reader.ReadPacket()
		if err != nil {
			t.Fatalf("ReadPacket for id %d: %v", w.id, err)
		}
		if id != w.id || string(body) != w.body {
			t.Fatalf("got id=%d body=%q, want id=%d body=%q", id, body, w.id, w.body)
		}
	}
}

func TestFrameEncryption(t *testing.T) {
	pipe := &loopback{}
	writer := NewConn(pipe)
	reader := NewConn(pipe)

	secret := bytes.Repeat([]byte{0x42}, 16)
	if err := writer.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}
	if err := reader.EnableEncryption(secret); err != nil {
		t.Fatal(err)
	}

	if err := writer.WritePacket(9, []byte("encrypted payload")); err != nil {
		t.Fatal(err)
	}
	if err := writer.WritePacket(10, []byte("second packet")); err != nil {
		t.Fatal(err)
	}

	id, body, err := reader.ReadPacket()
	if err != nil {
		t.Fatal(err)
	}
	if id != 9 || string(body) != "encrypted payload" {
		t.Fatalf("got id=%d body=%q", id, body)
	}
	id, body, err = reader.ReadPacket()
	if err != nil {
		t.Fatal(err)
	}
	if id != 10 || string(body) != "second packet" {
		t.Fatalf("got id=%d body=%q", id, body)
	}
}

func TestFrameTooLarge(t *testing.T) {
	pipe := &loopback{}
	writer := NewConn(pipe)
	body := bytes.Repeat([]byte{0}, MaxFrameLen+10)
	err := writer.WritePacket(0, body)
	if err == nil {
		t.Fatal("expected FrameTooLargeError")
	}
	if _, ok := err.(*FrameTooLargeError); !ok {
		t.Fatalf("expected *FrameTooLargeError, got %T: %v", err, err)
	}
}
