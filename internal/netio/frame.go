package netio

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/StoreStation/vibeclient/internal/buf"
)

// NoCompression disables the compression envelope entirely: frames carry
// the raw packet body with no data_length prefix.
const NoCompression = -1

// Conn wraps a duplex byte stream (normally a net.Conn) with framing,
// compression and optional mid-session encryption. Reads and writes are
// each serialized internally with their own mutex so the connection
// state machine (C4) can flip compression/encryption on between any two
// packets without the other side racing a half-updated config.
type Conn struct {
	rw io.ReadWriter

	readMu  sync.Mutex
	writeMu sync.Mutex

	compressionThreshold int32 // NoCompression until SetCompression

	encReader *cfb8
	encWriter *cfb8
}

// NewConn wraps rw with no compression and no encryption.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw, compressionThreshold: NoCompression}
}

// EnableCompression sets the compression threshold. A packet body
// smaller than threshold is sent uncompressed; threshold < 0 disables
// compression (the teacher's 1.8 default; modern sessions enable it
// during login).
func (c *Conn) EnableCompression(threshold int32) {
	c.writeMu.Lock()
	c.readMu.Lock()
	defer c.writeMu.Unlock()
	defer c.readMu.Unlock()
	c.compressionThreshold = threshold
}

// EnableEncryption installs an AES-128 CFB8 cipher, keyed and IV'd by
// secret, in both directions. Per spec, this must take effect
// synchronously with the write of the packet that enabled it, and the
// reader must apply it to every byte from this point on even if those
// bytes are already sitting in a buffered reader upstream of Conn.
func (c *Conn) EnableEncryption(secret []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	enc, err := newCFB8(secret, secret, false)
	if err != nil {
		return err
	}
	c.readMu.Lock()
	defer c.readMu.Unlock()
	dec, err := newCFB8(secret, secret, true)
	if err != nil {
		return err
	}
	c.encWriter = enc
	c.encReader = dec
	return nil
}

// ReadPacket reads one full frame, decompressing if needed, and returns
// the packet id and its remaining body bytes.
func (c *Conn) ReadPacket() (id int32, body []byte, err error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	length, _, err := buf.ReadVarInt(c.decryptReader())
	if err != nil {
		return 0, nil, err
	}
	if length < 0 || length > MaxFrameLen {
		return 0, nil, &FrameTooLargeError{Length: length}
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.decryptReader(), payload); err != nil {
		return 0, nil, err
	}

	if c.compressionThreshold >= 0 {
		payload, err = c.decompress(payload)
		if err != nil {
			return 0, nil, err
		}
	}

	pr := bytes.NewReader(payload)
	packetID, idLen, err := buf.ReadVarInt(pr)
	if err != nil {
		return 0, nil, err
	}
	return packetID, payload[idLen:], nil
}

func (c *Conn) decompress(payload []byte) ([]byte, error) {
	pr := bytes.NewReader(payload)
	dataLen, idLen, err := buf.ReadVarInt(pr)
	if err != nil {
		return nil, err
	}
	rest := payload[idLen:]
	if dataLen == 0 {
		return rest, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, &InvalidCompressionError{Reason: "corrupt zlib stream: " + err.Error()}
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &InvalidCompressionError{Reason: "corrupt zlib stream: " + err.Error()}
	}
	if int32(len(out)) != dataLen {
		return nil, &InvalidCompressionError{Reason: "decompressed size mismatch"}
	}
	return out, nil
}

// WritePacket frames, optionally compresses, and encrypts one packet.
func (c *Conn) WritePacket(id int32, body []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var inner bytes.Buffer
	buf.WriteVarInt(&inner, id)
	inner.Write(body)

	var payload bytes.Buffer
	if c.compressionThreshold >= 0 {
		if err := c.compress(&payload, inner.Bytes()); err != nil {
			return err
		}
	} else {
		payload = inner
	}

	if payload.Len() > MaxFrameLen {
		return &FrameTooLargeError{Length: int32(payload.Len())}
	}

	var frame bytes.Buffer
	buf.WriteVarInt(&frame, int32(payload.Len()))
	frame.Write(payload.Bytes())

	return c.writeRaw(frame.Bytes())
}

func (c *Conn) compress(dst *bytes.Buffer, data []byte) error {
	if int32(len(data)) < c.compressionThreshold {
		buf.WriteVarInt(dst, 0)
		dst.Write(data)
		return nil
	}
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	buf.WriteVarInt(dst, int32(len(data)))
	dst.Write(compressed.Bytes())
	return nil
}

// decryptReader returns an io.Reader over c.rw that transparently
// decrypts when encryption is enabled, or c.rw itself otherwise. Must be
// called with readMu held.
func (c *Conn) decryptReader() io.Reader {
	if c.encReader == nil {
		return c.rw
	}
	return &cipherReader{rw: c.rw, c: c.encReader}
}

func (c *Conn) writeRaw(b []byte) error {
	if c.encWriter != nil {
		out := make([]byte, len(b))
		c.encWriter.XORKeyStream(out, b)
		b = out
	}
	_, err := c.rw.Write(b)
	return err
}

type cipherReader struct {
	rw io.Reader
	c  *cfb8
}

func (r *cipherReader) Read(p []byte) (int, error) {
	n, err := r.rw.Read(p)
	if n > 0 {
		r.c.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}
