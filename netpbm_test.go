package netpbm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniff(t *testing.T) {
	tables := []struct {
		prefix string
		magic  string
	}{
		{"P1\n2 2\n", "P1"},
		{"P6\n640 480\n255\n", "P6"},
		{"P0CMYK\n1 1\n255\n", "P0CMYK"},
		{"PyRGBA\n1 1\n255\n", "PyRGBA"},
		{"PyCMYK\n1 1\n255\n", "PyCMYK"},
		{"P0", ""},
		{"P7\n", ""},
		{"Py", ""},
		{"BM", ""},
		{"", ""},
	}

	for _, table := range tables {
		assert.Equal(t, table.magic, Sniff([]byte(table.prefix)), "%q", table.prefix)
	}
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "image/x-portable-bitmap", MIMEType("P1"))
	assert.Equal(t, "image/x-portable-bitmap", MIMEType("P4"))
	assert.Equal(t, "image/x-portable-graymap", MIMEType("P2"))
	assert.Equal(t, "image/x-portable-graymap", MIMEType("P5"))
	assert.Equal(t, "image/x-portable-pixmap", MIMEType("P3"))
	assert.Equal(t, "image/x-portable-pixmap", MIMEType("P6"))
	assert.Equal(t, "image/x-portable-anymap", MIMEType("P0CMYK"))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pbm", ".pgm", ".ppm", ".pnm"}, Extensions)
}
