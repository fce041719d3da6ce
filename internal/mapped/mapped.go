// Package mapped exposes a whole input file as one read-only byte region.
//
// The region is shared by every worker without synchronization. Keys handed
// out by the scanner borrow from it, so a Source must outlive every table
// built from it.
package mapped

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrOpen = errors.New("mapped: open")
	ErrStat = errors.New("mapped: stat")
	ErrMap  = errors.New("mapped: mmap")
)

type Source struct {
	data  []byte
	unmap func([]byte) error
}

// Open maps the file at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	return Map(f)
}

// Map maps the full content of f, sized to its length at call time. The
// mapping stays valid after f is closed.
func Map(f *os.File) (*Source, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStat, err)
	}

	size := fi.Size()
	if size == 0 {
		return &Source{}, nil
	}
	if int64(int(size)) != size {
		return nil, fmt.Errorf("%w: %s is too large (%d bytes)", ErrMap, f.Name(), size)
	}

	return mapFile(f, int(size))
}

// Bytes returns the mapped region. It must not be written to.
func (s *Source) Bytes() []byte {
	return s.data
}

func (s *Source) Len() int {
	return len(s.data)
}

// Close releases the mapping. Slices obtained from Bytes are invalid
// afterwards.
func (s *Source) Close() error {
	data := s.data
	s.data = nil
	if data == nil || s.unmap == nil {
		return nil
	}

	return s.unmap(data)
}
