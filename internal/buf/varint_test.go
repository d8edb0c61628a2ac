package buf

import (
	"bytes"
	"testing"
)

func TestVarInt(t *testing.T) {
	tests := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xFF, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if _, err := WriteVarInt(&buf, tt.value); err != nil {
			t.Fatalf("WriteVarInt(%d) error: %v", tt.value, err)
		}
		if !bytes.Equal(buf.Bytes(), tt.expected) {
			t.Errorf("WriteVarInt(%d) = %v, want %v", tt.value, buf.Bytes(), tt.expected)
		}
		if got := VarIntSize(tt.value); got != len(tt.expected) {
			t.Errorf("VarIntSize(%d) = %d, want %d", tt.value, got, len(tt.expected))
		}

		r := bytes.NewReader(tt.expected)
		val, n, err := ReadVarInt(r)
		if err != nil {
			t.Fatalf("ReadVarInt error: %v", err)
		}
		if val != tt.value {
			t.Errorf("ReadVarInt = %d, want %d", val, tt.value)
		}
		if n != len(tt.expected) {
			t.Errorf("ReadVarInt bytes read = %d, want %d", n, len(tt.expected))
		}
	}
}

func TestReadVarIntTooBig(t *testing.T) {
	// Six continuation bytes: never terminates within MaxVarIntLen.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	_, _, err := ReadVarInt(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected InvalidVarintError, got nil")
	}
	if _, ok := err.(*InvalidVarintError); !ok {
		t.Fatalf("expected *InvalidVarintError, got %T: %v", err, err)
	}
}

func TestReadVarIntUnexpectedEnd(t *testing.T) {
	data := []byte{0x80} // continuation bit set, no following byte
	_, _, err := ReadVarInt(bytes.NewReader(data))
	if err != ErrUnexpectedEnd {
		t.Fatalf("expected ErrUnexpectedEnd, got %v", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2147483647, -2147483648, 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d) error: %v", v, err)
		}
		got, n, err := ReadVarLong(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadVarLong(%d) error: %v", v, err)
		}
		if got != v {
			t.Errorf("ReadVarLong round trip = %d, want %d", got, v)
		}
		if n != buf.Len() {
			t.Errorf("ReadVarLong bytes read = %d, want %d", n, buf.Len())
		}
	}
}
