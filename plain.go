package netpbm

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// safeBlock bounds one read of the plain-text sample stream so that
// arbitrarily large inputs are never materialized in memory.
const safeBlock = 1 << 20

// plainDecoder converts a whitespace-separated ASCII sample stream into
// packed big-endian samples, one bounded block at a time. A comment or a
// token may span any number of block boundaries; commentSpans and halfToken
// carry that state from one block to the next.
type plainDecoder struct {
	r io.Reader
	h Header

	// blockSize is a field only so tests can force block boundaries.
	blockSize int

	commentSpans bool
	halfToken    []byte
}

// readBlock returns the next bounded block, or an empty slice at
// end-of-stream.
func (d *plainDecoder) readBlock() ([]byte, error) {
	b := make([]byte, d.blockSize)
	for {
		n, err := d.r.Read(b)
		if n > 0 {
			return b[:n], nil
		}
		if err == io.EOF {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
	}
}

// findCommentEnd returns the index of the first CR or LF at or after start,
// or -1 if the comment does not end within block.
func findCommentEnd(block []byte, start int) int {
	if i := bytes.IndexAny(block[start:], "\r\n"); i >= 0 {
		return start + i
	}
	return -1
}

// ignoreComments deletes every complete comment from block. If a comment
// starts but does not end within block, the block is truncated there and
// the second return value is true.
func ignoreComments(block []byte) ([]byte, bool) {
	for {
		start := bytes.IndexByte(block, '#')
		if start < 0 {
			return block, false
		}
		end := findCommentEnd(block, start)
		if end < 0 {
			return block[:start], true
		}
		block = append(block[:start:start], block[end+1:]...)
	}
}

// skipSpannedComment discards the tail of a comment left open by a previous
// block, reading further blocks if the comment spans them entirely.
func (d *plainDecoder) skipSpannedComment(block []byte) ([]byte, error) {
	for len(block) > 0 && d.commentSpans {
		if end := findCommentEnd(block, 0); end >= 0 {
			block = block[end+1:]
			d.commentSpans = false
		} else {
			var err error
			if block, err = d.readBlock(); err != nil {
				return nil, err
			}
		}
	}
	return block, nil
}

func (d *plainDecoder) decode() ([]byte, error) {
	if d.h.mode == modeBitonal {
		return d.decodeBitonal()
	}
	return d.decodeNumeric()
}

// decodeBitonal handles the plain PBM variant separately: every data token
// is exactly one character, so inter-token whitespace is optional.
func (d *plainDecoder) decodeBitonal() ([]byte, error) {
	total := d.h.Width * d.h.Height
	out := make([]byte, 0, total)

	for len(out) != total {
		block, err := d.readBlock()
		if err != nil {
			return nil, err
		}
		if len(block) == 0 {
			break
		}

		if block, err = d.skipSpannedComment(block); err != nil {
			return nil, err
		}
		block, d.commentSpans = ignoreComments(block)

		for _, c := range block {
			if isSpace(c) {
				continue
			}
			if c != '0' && c != '1' {
				return nil, DataTokenError(fmt.Sprintf("invalid token for this mode: %q", string(c)))
			}
			if len(out) == total {
				continue
			}
			if c == '0' {
				out = append(out, 0xff)
			} else {
				out = append(out, 0x00)
			}
		}
	}

	return out, nil
}

func (d *plainDecoder) decodeNumeric() ([]byte, error) {
	var (
		total  = d.h.bytesExpected()
		width  = d.h.mode.sampleBytes()
		maxVal = uint64(d.h.MaxVal)
		out    = make([]byte, 0, total)
	)

	for len(out) != total {
		block, err := d.readBlock()
		if err != nil {
			return nil, err
		}
		if len(block) == 0 {
			if len(d.halfToken) == 0 {
				break
			}
			// End of stream terminates an open comment; synthetic
			// whitespace flushes the trailing partial token.
			d.commentSpans = false
			block = []byte{' '}
		}

		if block, err = d.skipSpannedComment(block); err != nil {
			return nil, err
		}
		block, d.commentSpans = ignoreComments(block)

		if len(d.halfToken) > 0 {
			block = append(d.halfToken, block...)
			d.halfToken = nil
		}

		tokens := bytes.FieldsFunc(block, isSpaceRune)

		if len(block) > 0 && !isSpace(block[len(block)-1]) {
			// The block ends mid-token; hold the fragment for the next
			// block instead of consuming it.
			last := tokens[len(tokens)-1]
			tokens = tokens[:len(tokens)-1]
			if len(last) > maxTokenLen {
				return nil, DataTokenError(fmt.Sprintf("token too long found in data: %s", last[:maxTokenLen+1]))
			}
			d.halfToken = append([]byte(nil), last...)
		}

		for _, token := range tokens {
			if len(token) > maxTokenLen {
				return nil, DataTokenError(fmt.Sprintf("token too long found in data: %s", token[:maxTokenLen+1]))
			}
			v, err := strconv.ParseUint(string(token), 10, 64)
			if err != nil {
				return nil, DataTokenError(fmt.Sprintf("invalid sample value %q", token))
			}
			if v > maxVal {
				return nil, DataTokenError(fmt.Sprintf("channel value too large for this mode: %d", v))
			}
			switch width {
			case 1:
				out = append(out, byte(v))
			case 2:
				out = append(out, byte(v>>8), byte(v))
			case 4:
				out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
			}
			if len(out) == total {
				break
			}
		}
	}

	return out, nil
}
