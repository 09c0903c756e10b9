package netpbm

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(g.Pix, []uint8{1, 2, 3, 4})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))
	assert.Equal(t, append([]byte("P5\n2 2\n255\n"), 1, 2, 3, 4), b.Bytes())
}

func TestEncodeGray16(t *testing.T) {
	g := image.NewGray16(image.Rect(0, 0, 1, 2))
	copy(g.Pix, []uint8{0x12, 0x34, 0x56, 0x78})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))
	assert.Equal(t, append([]byte("P5\n1 2\n65535\n"), 0x12, 0x34, 0x56, 0x78), b.Bytes())
}

func TestEncodeGray32(t *testing.T) {
	g := NewGray32(image.Rect(0, 0, 1, 1))
	g.SetGray32(0, 0, Gray32Color{Y: 0x7fffffff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))
	assert.Equal(t, append([]byte("P5\n1 1\n2147483648\n"), 0x7f, 0xff, 0xff, 0xff), b.Bytes())
}

func TestEncodeRGBA(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(m.Pix, []uint8{1, 2, 3, 0x80, 4, 5, 6, 0xff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	// Alpha is silently dropped.
	assert.Equal(t, append([]byte("P6\n2 1\n255\n"), 1, 2, 3, 4, 5, 6), b.Bytes())
}

func TestEncodeNRGBA(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	copy(m.Pix, []uint8{9, 8, 7, 0})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))
	assert.Equal(t, append([]byte("P6\n1 1\n255\n"), 9, 8, 7), b.Bytes())
}

func TestEncodeBitmap(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(g.Pix, []uint8{0x00, 0xff, 0xff, 0x00})

	b := new(bytes.Buffer)
	e := Encoder{Magic: "P4"}
	require.NoError(t, e.Encode(b, g))
	assert.Equal(t, append([]byte("P4\n2 2\n"), 0x80, 0x40), b.Bytes())
}

func TestEncodeUnsupported(t *testing.T) {
	b := new(bytes.Buffer)

	pm := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.Black})
	err := Encode(b, pm)
	assert.IsType(t, EncodeModeError(""), err)

	e := Encoder{Magic: "P1"}
	err = e.Encode(b, image.NewGray(image.Rect(0, 0, 1, 1)))
	assert.IsType(t, EncodeModeError(""), err)

	e = Encoder{Magic: "P4"}
	err = e.Encode(b, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.IsType(t, EncodeModeError(""), err)
}

func TestEncodeSubImage(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range g.Pix {
		g.Pix[i] = uint8(i)
	}

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g.SubImage(image.Rect(1, 1, 3, 3))))
	assert.Equal(t, append([]byte("P5\n2 2\n255\n"), 5, 6, 9, 10), b.Bytes())
}

func TestRoundTripBitmap(t *testing.T) {
	// 10 pixel rows exercise the row padding.
	g := image.NewGray(image.Rect(0, 0, 10, 3))
	for i := range g.Pix {
		if i%3 == 0 {
			g.Pix[i] = 0xff
		}
	}

	b := new(bytes.Buffer)
	e := Encoder{Magic: "P4"}
	require.NoError(t, e.Encode(b, g))

	m, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, g.Pix, m.(*image.Gray).Pix)
}

func TestRoundTripGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(g.Pix, []uint8{0, 1, 127, 128, 254, 255})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))

	m, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, g.Pix, m.(*image.Gray).Pix)
}

func TestRoundTripGray16(t *testing.T) {
	g := image.NewGray16(image.Rect(0, 0, 2, 1))
	copy(g.Pix, []uint8{0x12, 0x34, 0xfe, 0xdc})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))

	m, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, g.Pix, m.(*image.Gray16).Pix)
}

func TestRoundTripGray32(t *testing.T) {
	g := NewGray32(image.Rect(0, 0, 1, 2))
	g.SetGray32(0, 0, Gray32Color{Y: 42})
	g.SetGray32(0, 1, Gray32Color{Y: 0x7fffffff})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, g))

	m, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, g.Pix, m.(*Gray32).Pix)
}

func TestRoundTripRGB(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 2, 2))
	copy(m.Pix, []uint8{
		1, 2, 3, 0x42, 4, 5, 6, 0x00,
		7, 8, 9, 0xff, 10, 11, 12, 0x7f,
	})

	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, m))

	out, err := Decode(b)
	require.NoError(t, err)

	got := out.(*image.RGBA)
	for i := 0; i < len(m.Pix); i += 4 {
		assert.Equal(t, m.Pix[i:i+3], got.Pix[i:i+3])
		// Alpha does not survive the round trip.
		assert.Equal(t, uint8(0xff), got.Pix[i+3])
	}
}
