// Package netio implements the framed, optionally compressed and
// encrypted packet transport (C2): a length-prefixed frame reader and
// writer layered over a duplex byte stream.
package netio

import "fmt"

// MaxFrameLen is the largest total_length a frame may declare.
const MaxFrameLen = 1<<21 - 1

// FrameTooLargeError is returned when a frame's declared length exceeds
// MaxFrameLen.
type FrameTooLargeError struct {
	Length int32
}

func (e *FrameTooLargeError) Error() string {
	return fmt.Sprintf("netio: frame too large: %d bytes", e.Length)
}

// InvalidCompressionError is returned when a compressed payload's
// decompressed size does not match the declared data_length, or the
// zlib stream is corrupt.
type InvalidCompressionError struct {
	Reason string
}

func (e *InvalidCompressionError) Error() string {
	return fmt.Sprintf("netio: invalid compression: %s", e.Reason)
}

// InvalidFrameError is returned for malformed frames that are not
// covered by the more specific error types above.
type InvalidFrameError struct {
	Reason string
}

func (e *InvalidFrameError) Error() string {
	return fmt.Sprintf("netio: invalid frame: %s", e.Reason)
}
