package buf

import (
	"io"
	"unicode/utf8"
)

// MaxStringCodepoints is the declared-length ceiling from the protocol:
// strings are capped at 32767 codepoints, so the byte budget we
// reject at is 4x that (worst case 4 bytes/codepoint in UTF-8).
const MaxStringCodepoints = 32767

// ReadString reads a VarInt-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	n, _, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n < 0 || n > MaxStringCodepoints*4 {
		return "", &InvalidStringError{Reason: "declared length out of range"}
	}
	b, err := readFull(r, int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &InvalidStringError{Reason: "invalid UTF-8"}
	}
	if utf8.RuneCount(b) > MaxStringCodepoints {
		return "", &InvalidStringError{Reason: "exceeds max codepoints"}
	}
	return string(b), nil
}

// WriteString writes a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	b := []byte(s)
	if _, err := WriteVarInt(w, int32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
