package netio

import (
	"crypto/aes"
)

// cfb8 implements AES-128 CFB8 (8-bit feedback), the stream cipher the
// protocol uses once login encryption is enabled. The standard library's
// crypto/cipher only exposes full-block-segment CFB, and neither it nor
// golang.org/x/crypto ship an 8-bit-feedback variant, so this is a
// from-scratch implementation kept deliberately small: one shift
// register, one AES block encrypt per byte. See DESIGN.md for why this
// stays on crypto/aes rather than a third-party cipher package.
type cfb8 struct {
	block     [16]byte // AES-128 fixed block size
	cipher    interface{ Encrypt(dst, src []byte) }
	decrypt   bool
}

func newCFB8(key, iv []byte, decrypt bool) (*cfb8, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	c := &cfb8{cipher: block, decrypt: decrypt}
	copy(c.block[:], iv)
	return c, nil
}

// XORKeyStream transforms src into dst one byte at a time, updating the
// shift register after every byte. dst and src may be the same slice.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	var ks [16]byte
	for i, in := range src {
		c.cipher.Encrypt(ks[:], c.block[:])
		out := in ^ ks[0]
		var feedback byte
		if c.decrypt {
			feedback = in
		} else {
			feedback = out
		}
		copy(c.block[:15], c.block[1:])
		c.block[15] = feedback
		dst[i] = out
	}
}
