package buf

import (
	"io"

	"github.com/google/uuid"
)

// ReadUUID reads 16 raw big-endian bytes as a UUID.
func ReadUUID(r io.Reader) (uuid.UUID, error) {
	b, err := readFull(r, 16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// WriteUUID writes a UUID as 16 raw big-endian bytes.
func WriteUUID(w io.Writer, u uuid.UUID) error {
	_, err := w.Write(u[:])
	return err
}
