//go:build unix

package mapped

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) (*Source, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMap, f.Name(), err)
	}

	// workers read their ranges front to back
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &Source{data: data, unmap: unix.Munmap}, nil
}
