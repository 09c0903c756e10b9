package catalog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/multierr"
)

// Open opens path for reading, transparently decompressing inputs with a
// trailing .gz extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".gz" {
		return f, nil
	}
	z, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipFile{z: z, f: f}, nil
}

type gzipFile struct {
	z *gzip.Reader
	f *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) {
	return g.z.Read(p)
}

func (g *gzipFile) Close() error {
	return multierr.Append(g.z.Close(), g.f.Close())
}
