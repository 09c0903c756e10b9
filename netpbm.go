/*
Package netpbm implements a decoder and encoder for the Netpbm image family.

The family covers the six standard subformats P1 through P6: PBM bitmaps
(P1/P4), PGM graymaps (P2/P5) and PPM pixmaps (P3/P6). The odd-numbered
variants encode samples as whitespace-separated ASCII decimal numbers,
optionally interleaved with "#" comments; the even-numbered variants carry
the same samples as packed binary. Graymaps declare a maximum sample value
which widens samples to 16 or 32 bits big-endian when it exceeds 255. The
P0CMYK, PyRGBA and PyCMYK extension magics carry binary four-channel data.

Decoding never materializes the plain-text sample stream in memory; it is
consumed in bounded blocks, with comments and numbers allowed to span block
boundaries.
*/
package netpbm

import (
	"image"
	"io"
)

// A FormatError reports that the input does not start with a recognized
// Netpbm magic.
type FormatError string

func (e FormatError) Error() string { return "netpbm: " + string(e) }

// A HeaderTokenError reports a malformed or missing header token.
type HeaderTokenError string

func (e HeaderTokenError) Error() string { return "netpbm: " + string(e) }

// A HeaderValueError reports a header value outside what the subformat can
// carry.
type HeaderValueError string

func (e HeaderValueError) Error() string { return "netpbm: " + string(e) }

// A DataTokenError reports a malformed plain-text sample token.
type DataTokenError string

func (e DataTokenError) Error() string { return "netpbm: " + string(e) }

// An EncodeModeError reports an image that cannot be written as Netpbm.
type EncodeModeError string

func (e EncodeModeError) Error() string { return "netpbm: " + string(e) }

type mode int

const (
	modeBitonal mode = iota
	modeGray8
	modeGray16
	modeGray32
	modeRGB
	modeRGBA
	modeCMYK
)

// channels is the sample count per pixel, before any widening.
func (m mode) channels() int {
	switch m {
	case modeRGB:
		return 3
	case modeRGBA, modeCMYK:
		return 4
	}
	return 1
}

// sampleBytes is the width of one packed sample in the decoded buffer.
// Bitonal pixels occupy a whole byte each until the consumer packs them.
func (m mode) sampleBytes() int {
	switch m {
	case modeGray16:
		return 2
	case modeGray32:
		return 4
	}
	return 1
}

type subformat struct {
	mode  mode
	plain bool
}

// modes maps each magic to its base color mode and variant. The mode for
// graymaps is provisional; the declared maximum value may widen it.
var modes = map[string]subformat{
	// standard
	"P1": {modeBitonal, true},
	"P2": {modeGray8, true},
	"P3": {modeRGB, true},
	"P4": {modeBitonal, false},
	"P5": {modeGray8, false},
	"P6": {modeRGB, false},
	// extensions
	"P0CMYK": {modeCMYK, false},
	"PyRGBA": {modeRGBA, false},
	"PyCMYK": {modeCMYK, false},
}

// Extensions lists the file extensions conventionally used for Netpbm files.
var Extensions = []string{".pbm", ".pgm", ".ppm", ".pnm"}

// MIMEType returns the MIME type for a subformat magic, or the generic
// anymap type if the magic has no more specific one.
func MIMEType(magic string) string {
	switch magic {
	case "P1", "P4":
		return "image/x-portable-bitmap"
	case "P2", "P5":
		return "image/x-portable-graymap"
	case "P3", "P6":
		return "image/x-portable-pixmap"
	}
	return "image/x-portable-anymap"
}

// Sniff returns the subformat magic found at the start of prefix, or the
// empty string if prefix does not begin with a recognized Netpbm magic. Six
// bytes of prefix are enough to recognize any subformat.
func Sniff(prefix []byte) string {
	for _, magic := range []string{"P0CMYK", "PyRGBA", "PyCMYK"} {
		if len(prefix) >= len(magic) && string(prefix[:len(magic)]) == magic {
			return magic
		}
	}
	if len(prefix) >= 2 && prefix[0] == 'P' && prefix[1] >= '1' && prefix[1] <= '6' {
		return string(prefix[:2])
	}
	return ""
}

func init() {
	for magic := range modes {
		image.RegisterFormat("pnm", magic, Decode, DecodeConfig)
	}
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
