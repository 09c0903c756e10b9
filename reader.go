package netpbm

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
)

const (
	// Longest recognized magic ("P0CMYK").
	maxMagicLen = 6
	// Longest header or data token; anything longer is malformed.
	maxTokenLen = 10
)

// Netpbm whitespace: space, tab, LF, VT, FF, CR.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Netpbm whitespace is ASCII only; Unicode spaces are data.
func isSpaceRune(r rune) bool {
	return r < 0x80 && isSpace(byte(r))
}

// A Header describes the sample stream that follows it: the subformat
// magic, the image size and the declared maximum sample value (implicitly 1
// for bitonal subformats).
type Header struct {
	Magic  string
	Width  int
	Height int
	MaxVal uint32

	mode  mode
	plain bool
}

// bytesExpected is the size of the fully decoded sample buffer.
func (h Header) bytesExpected() int {
	return h.Width * h.Height * h.mode.channels() * h.mode.sampleBytes()
}

func (h Header) colorModel() color.Model {
	switch h.mode {
	case modeGray16:
		return color.Gray16Model
	case modeGray32:
		return Gray32Model
	case modeRGB:
		return color.RGBAModel
	case modeRGBA:
		return color.NRGBAModel
	case modeCMYK:
		return color.CMYKModel
	}
	return color.GrayModel
}

// image wraps a decoded sample buffer, which may be short, in the image
// type matching the resolved mode.
func (h Header) image(samples []byte) image.Image {
	r := image.Rect(0, 0, h.Width, h.Height)
	switch h.mode {
	case modeGray16:
		m := image.NewGray16(r)
		copy(m.Pix, samples)
		return m
	case modeGray32:
		m := NewGray32(r)
		copy(m.Pix, samples)
		return m
	case modeRGB:
		m := image.NewRGBA(r)
		for i, j := 0, 0; i+3 <= len(samples); i, j = i+3, j+4 {
			m.Pix[j+0] = samples[i+0]
			m.Pix[j+1] = samples[i+1]
			m.Pix[j+2] = samples[i+2]
		}
		for i := 3; i < len(m.Pix); i += 4 {
			m.Pix[i] = 0xff
		}
		return m
	case modeRGBA:
		m := image.NewNRGBA(r)
		copy(m.Pix, samples)
		return m
	case modeCMYK:
		m := image.NewCMYK(r)
		copy(m.Pix, samples)
		return m
	}
	m := image.NewGray(r)
	copy(m.Pix, samples)
	return m
}

type decoder struct {
	br *bufio.Reader
	h  Header
}

// readMagic reads raw bytes until whitespace or the longest possible magic,
// whichever comes first. Validation is left to the subformat table.
func (d *decoder) readMagic() (string, error) {
	var magic []byte
	for i := 0; i < maxMagicLen; i++ {
		c, err := d.br.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
		if isSpace(c) {
			break
		}
		magic = append(magic, c)
	}
	return string(magic), nil
}

// readToken reads the next whitespace-delimited header token, skipping "#"
// comments which run to the next CR, LF or EOF.
func (d *decoder) readToken() ([]byte, error) {
	var token []byte
	for len(token) <= maxTokenLen {
		c, err := d.br.ReadByte()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if isSpace(c) {
			if len(token) == 0 {
				continue
			}
			break
		}
		if c == '#' {
			for {
				c, err := d.br.ReadByte()
				if err == io.EOF || (err == nil && (c == '\r' || c == '\n')) {
					break
				} else if err != nil {
					return nil, err
				}
			}
			continue
		}
		token = append(token, c)
	}
	if len(token) == 0 {
		return nil, HeaderTokenError("reached EOF while reading header")
	}
	if len(token) > maxTokenLen {
		return nil, HeaderTokenError(fmt.Sprintf("token too long in file header: %s", token))
	}
	return token, nil
}

func (d *decoder) readValue() (uint64, error) {
	token, err := d.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(string(token), 10, 64)
	if err != nil {
		return 0, HeaderTokenError(fmt.Sprintf("invalid integer %q in header", token))
	}
	return v, nil
}

func (d *decoder) readHeader() error {
	magic, err := d.readMagic()
	if err != nil {
		return err
	}
	sf, ok := modes[magic]
	if !ok {
		return FormatError("not a Netpbm file")
	}
	d.h = Header{Magic: magic, MaxVal: 1, mode: sf.mode, plain: sf.plain}

	for _, dim := range []*int{&d.h.Width, &d.h.Height} {
		v, err := d.readValue()
		if err != nil {
			return err
		}
		if v == 0 || v > math.MaxInt32 {
			return HeaderValueError(fmt.Sprintf("invalid image dimension: %d", v))
		}
		*dim = int(v)
	}

	// Bitonal subformats have no maximum value line.
	if d.h.mode != modeBitonal {
		maxVal, err := d.readValue()
		if err != nil {
			return err
		}
		switch {
		case maxVal <= 255:
		case d.h.mode != modeGray8 || maxVal > math.MaxUint32:
			return HeaderValueError(fmt.Sprintf("too many colors for band: %d", maxVal))
		case maxVal < 1<<16:
			d.h.mode = modeGray16
		default:
			// Historically one bit is reserved, so samples cover the signed
			// 31-bit range.
			d.h.mode = modeGray32
		}
		d.h.MaxVal = uint32(maxVal)
	}

	// The decoded sample buffer has to fit in memory; each dimension fits
	// int32, so the pixel count cannot overflow uint64 here.
	bpp := uint64(d.h.mode.channels() * d.h.mode.sampleBytes())
	if uint64(d.h.Width)*uint64(d.h.Height) > math.MaxInt32/bpp {
		return HeaderValueError(fmt.Sprintf("image dimensions too large: %dx%d", d.h.Width, d.h.Height))
	}
	return nil
}

// DecodeHeader reads just the stream header from r, leaving the sample data
// unread.
func DecodeHeader(r io.Reader) (Header, error) {
	d := decoder{br: bufio.NewReader(r)}
	if err := d.readHeader(); err != nil {
		return Header{}, err
	}
	return d.h, nil
}

// DecodeConfig returns the color model and dimensions of a Netpbm image
// without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: h.colorModel(),
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}

// Decode reads a Netpbm image from r and returns it as an image.Image. The
// concrete type depends on the subformat and its maximum value. If a
// plain-text sample stream ends early the remaining pixels are silently
// left zero for compatibility with lenient producers; a truncated binary
// stream is an error.
func Decode(r io.Reader) (image.Image, error) {
	d := decoder{br: bufio.NewReader(r)}
	if err := d.readHeader(); err != nil {
		return nil, err
	}

	var (
		samples []byte
		err     error
	)
	if d.h.plain {
		p := plainDecoder{r: d.br, h: d.h, blockSize: safeBlock}
		samples, err = p.decode()
	} else {
		samples, err = decodeRaw(d.br, d.h)
	}
	if err != nil {
		return nil, err
	}

	return d.h.image(samples), nil
}
