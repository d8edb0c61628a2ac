package buf

import "io"

// ReadBlockPos reads a packed block position: x (26 bits) << 38 | z (26
// bits) << 12 | y (12 bits), sign-extended on decode.
func ReadBlockPos(r io.Reader) (x, y, z int32, err error) {
	val, err := ReadI64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x = int32(val >> 38)
	y = int32(val << 52 >> 52)
	z = int32(val << 26 >> 38)
	return x, y, z, nil
}

// WriteBlockPos writes a packed block position using the same layout.
func WriteBlockPos(w io.Writer, x, y, z int32) error {
	val := (int64(x&0x3FFFFFF) << 38) | (int64(z&0x3FFFFFF) << 12) | int64(y&0xFFF)
	return WriteI64(w, val)
}
