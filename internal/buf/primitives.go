package buf

import (
	"encoding/binary"
	"io"
	"math"
)

func readFull(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrUnexpectedEnd
		}
		return nil, err
	}
	return b, nil
}

// ReadBool reads a single 0/1 byte as a boolean.
func ReadBool(r io.Reader) (bool, error) {
	b, err := readFull(r, 1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// WriteBool writes a boolean as a single 0/1 byte.
func WriteBool(w io.Writer, v bool) error {
	if v {
		_, err := w.Write([]byte{1})
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// ReadI8 reads a signed byte.
func ReadI8(r io.Reader) (int8, error) {
	b, err := readFull(r, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// WriteI8 writes a signed byte.
func WriteI8(w io.Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

// ReadU8 reads an unsigned byte.
func ReadU8(r io.Reader) (uint8, error) {
	b, err := readFull(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteU8 writes an unsigned byte.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadI16 reads a big-endian signed 16-bit integer.
func ReadI16(r io.Reader) (int16, error) {
	b, err := readFull(r, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// WriteI16 writes a big-endian signed 16-bit integer.
func WriteI16(w io.Writer, v int16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	_, err := w.Write(b[:])
	return err
}

// ReadU16 reads a big-endian unsigned 16-bit integer.
func ReadU16(r io.Reader) (uint16, error) {
	b, err := readFull(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// WriteU16 writes a big-endian unsigned 16-bit integer.
func WriteU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadI32 reads a big-endian signed 32-bit integer.
func ReadI32(r io.Reader) (int32, error) {
	b, err := readFull(r, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// WriteI32 writes a big-endian signed 32-bit integer.
func WriteI32(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

// ReadI64 reads a big-endian signed 64-bit integer.
func ReadI64(r io.Reader) (int64, error) {
	b, err := readFull(r, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// WriteI64 writes a big-endian signed 64-bit integer.
func WriteI64(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

// ReadF32 reads a big-endian 32-bit float.
func ReadF32(r io.Reader) (float32, error) {
	v, err := ReadI32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// WriteF32 writes a big-endian 32-bit float.
func WriteF32(w io.Writer, v float32) error {
	return WriteI32(w, int32(math.Float32bits(v)))
}

// ReadF64 reads a big-endian 64-bit float.
func ReadF64(r io.Reader) (float64, error) {
	v, err := ReadI64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// WriteF64 writes a big-endian 64-bit float.
func WriteF64(w io.Writer, v float64) error {
	return WriteI64(w, int64(math.Float64bits(v)))
}
