package netpbm

import "io"

// decodeRaw consumes already-binary sample bytes. Unlike the plain-text
// path, a truncated binary stream is an error.
func decodeRaw(r io.Reader, h Header) ([]byte, error) {
	if h.mode == modeBitonal {
		return unpackBits(r, h)
	}
	buf := make([]byte, h.bytesExpected())
	if err := readFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// unpackBits expands raw PBM rows, packed eight pixels per byte with each
// row padded to a byte boundary, to one byte per pixel. A set bit is black
// (0x00).
func unpackBits(r io.Reader, h Header) ([]byte, error) {
	row := make([]byte, (h.Width+7)/8)
	out := make([]byte, 0, h.Width*h.Height)
	for y := 0; y < h.Height; y++ {
		if err := readFull(r, row); err != nil {
			return nil, err
		}
		for x := 0; x < h.Width; x++ {
			if row[x>>3]&(0x80>>(x&7)) != 0 {
				out = append(out, 0x00)
			} else {
				out = append(out, 0xff)
			}
		}
	}
	return out, nil
}
