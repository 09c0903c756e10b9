package netpbm

import (
	"fmt"
	"image"
	"io"
)

// An Encoder writes images in a chosen Netpbm subformat.
type Encoder struct {
	// Magic forces a raw subformat: "P4", "P5" or "P6". The zero value
	// derives the subformat from the image type.
	Magic string
}

// Encode writes the Image m to w in the raw Netpbm subformat matching m's
// concrete type. RGBA images are silently written as RGB; the alpha channel
// does not survive a round trip.
func Encode(w io.Writer, m image.Image) error {
	var e Encoder
	return e.Encode(w, m)
}

// Encode writes the Image m to w. Writing a "P4" bitmap requires an
// *image.Gray; pixels darker than mid-gray become black.
func (e *Encoder) Encode(w io.Writer, m image.Image) error {
	magic := e.Magic
	if magic == "" {
		switch m.(type) {
		case *image.Gray, *image.Gray16, *Gray32:
			magic = "P5"
		case *image.RGBA, *image.NRGBA:
			magic = "P6"
		default:
			return EncodeModeError(fmt.Sprintf("cannot write %T as Netpbm", m))
		}
	}

	b := m.Bounds()

	switch magic {
	case "P4":
		g, ok := m.(*image.Gray)
		if !ok {
			return EncodeModeError(fmt.Sprintf("cannot write %T as raw PBM", m))
		}
		if _, err := fmt.Fprintf(w, "P4\n%d %d\n", b.Dx(), b.Dy()); err != nil {
			return err
		}
		return encodePacked(w, g)
	case "P5":
		var (
			pix    []uint8
			stride int
			depth  int
			maxVal uint64
		)
		switch g := m.(type) {
		case *image.Gray:
			pix, stride, depth, maxVal = g.Pix[g.PixOffset(b.Min.X, b.Min.Y):], g.Stride, 1, 255
		case *image.Gray16:
			pix, stride, depth, maxVal = g.Pix[g.PixOffset(b.Min.X, b.Min.Y):], g.Stride, 2, 65535
		case *Gray32:
			pix, stride, depth, maxVal = g.Pix[g.PixOffset(b.Min.X, b.Min.Y):], g.Stride, 4, 1<<31
		default:
			return EncodeModeError(fmt.Sprintf("cannot write %T as raw PGM", m))
		}
		if _, err := fmt.Fprintf(w, "P5\n%d %d\n%d\n", b.Dx(), b.Dy(), maxVal); err != nil {
			return err
		}
		return encodeRows(w, pix, stride, b.Dx()*depth, b.Dy())
	case "P6":
		var (
			pix    []uint8
			stride int
		)
		switch g := m.(type) {
		case *image.RGBA:
			pix, stride = g.Pix[g.PixOffset(b.Min.X, b.Min.Y):], g.Stride
		case *image.NRGBA:
			pix, stride = g.Pix[g.PixOffset(b.Min.X, b.Min.Y):], g.Stride
		default:
			return EncodeModeError(fmt.Sprintf("cannot write %T as raw PPM", m))
		}
		if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
			return err
		}
		return encodeRGBRows(w, pix, stride, b.Dx(), b.Dy())
	}

	return EncodeModeError(fmt.Sprintf("unsupported subformat %q", magic))
}

// encodeRows writes the raster rows verbatim.
func encodeRows(w io.Writer, pix []uint8, stride, rowBytes, height int) error {
	for y := 0; y < height; y++ {
		if _, err := w.Write(pix[y*stride : y*stride+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}

// encodeRGBRows writes four-channel rows with the alpha byte dropped.
func encodeRGBRows(w io.Writer, pix []uint8, stride, width, height int) error {
	row := make([]uint8, width*3)
	for y := 0; y < height; y++ {
		src := pix[y*stride:]
		for x := 0; x < width; x++ {
			row[x*3+0] = src[x*4+0]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4+2]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// encodePacked packs one bit per pixel, rows padded to a byte boundary,
// with set bits black.
func encodePacked(w io.Writer, g *image.Gray) error {
	b := g.Bounds()
	row := make([]byte, (b.Dx()+7)/8)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < b.Dx(); x++ {
			if g.Pix[g.PixOffset(b.Min.X+x, y)] < 0x80 {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
