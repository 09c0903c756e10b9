package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/bodgit/netpbm"
	"github.com/bodgit/netpbm/catalog"
)

// toBitonal reduces m to two colors and maps the darker one to black.
func toBitonal(m image.Image) *image.Gray {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), m)
	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	gray := make([]uint8, len(p))
	for i, c := range p {
		gray[i] = color.GrayModel.Convert(c).(color.Gray).Y
	}

	pix := make([]uint8, len(p))
	if len(p) == 1 {
		if gray[0] >= 0x80 {
			pix[0] = 0xff
		}
	} else if gray[0] < gray[1] {
		pix[1] = 0xff
	} else {
		pix[0] = 0xff
	}

	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: pix[pm.ColorIndexAt(x, y)]})
		}
	}
	return g
}

func toGray(m image.Image) *image.Gray {
	if g, ok := m.(*image.Gray); ok {
		return g
	}
	g := image.NewGray(m.Bounds())
	draw.Draw(g, g.Rect, m, g.Rect.Min, draw.Src)
	return g
}

func toRGBA(m image.Image) *image.RGBA {
	if g, ok := m.(*image.RGBA); ok {
		return g
	}
	g := image.NewRGBA(m.Bounds())
	draw.Draw(g, g.Rect, m, g.Rect.Min, draw.Src)
	return g
}

func convert(src, dst, format string) error {
	f, err := catalog.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	var e netpbm.Encoder
	switch format {
	case "pbm":
		m, e.Magic = toBitonal(m), "P4"
	case "pgm":
		m, e.Magic = toGray(m), "P5"
	case "ppm":
		m, e.Magic = toRGBA(m), "P6"
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := e.Encode(w, m); err != nil {
		return err
	}
	return w.Flush()
}
