package catalog

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/bodgit/netpbm"
)

const numWorkers = 10

// A Scanner walks directory trees and catalogs every Netpbm file found.
type Scanner struct {
	db     *DB
	logger *log.Logger
}

// NewScanner returns a Scanner writing to db.
func NewScanner(db *DB, logger *log.Logger) *Scanner {
	return &Scanner{
		db:     db,
		logger: logger,
	}
}

// hasExtension reports whether file carries one of the Netpbm extensions,
// allowing for a .gz suffix.
func hasExtension(file string) bool {
	name := strings.TrimSuffix(file, ".gz")
	for _, ext := range netpbm.Extensions {
		if filepath.Ext(name) == ext {
			return true
		}
	}
	return false
}

func (s *Scanner) findFiles(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !hasExtension(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (s *Scanner) fileWorker(ctx context.Context, in <-chan string) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			entry, err := s.examine(file)
			if err != nil {
				switch errors.Cause(err).(type) {
				case netpbm.FormatError, netpbm.HeaderTokenError, netpbm.HeaderValueError:
					s.logger.Printf("skipping %q: %v\n", file, err)
					continue
				}
				errc <- err
				return
			}

			if err := s.db.Set(*entry); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc
}

// examine reads just the header of file and hashes its whole content.
func (s *Scanner) examine(file string) (*Entry, error) {
	f, err := Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	hdr, err := netpbm.DecodeHeader(io.TeeReader(f, h))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(h, f); err != nil {
		return nil, errors.Wrapf(err, "hashing %q", file)
	}

	return &Entry{
		Path:   file,
		Magic:  hdr.Magic,
		Width:  hdr.Width,
		Height: hdr.Height,
		MaxVal: hdr.MaxVal,
		SHA1:   fmt.Sprintf("%X", h.Sum(nil)),
	}, nil
}

func waitForPipeline(errs ...<-chan error) error {
	for err := range mergeErrors(errs...) {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks the tree rooted at path and catalogs every recognized file.
// Files that match by extension but fail header parsing are logged and
// skipped.
func (s *Scanner) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc := s.findFiles(ctx, dir)
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errcList = append(errcList, s.fileWorker(ctx, files))
	}

	return waitForPipeline(errcList...)
}
