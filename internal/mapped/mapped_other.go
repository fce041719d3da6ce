//go:build !unix

package mapped

import (
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// mapFile copies the file through x/exp/mmap where a raw read-only mapping
// is not exposed.
func mapFile(f *os.File, size int) (*Source, error) {
	r, err := mmap.Open(f.Name())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMap, f.Name(), err)
	}
	defer r.Close()

	if r.Len() < size {
		size = r.Len()
	}

	data := make([]byte, size)
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMap, f.Name(), err)
	}

	return &Source{data: data}, nil
}
