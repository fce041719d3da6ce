package engine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/jkroepke/1brc-engine/internal/table"
)

var ErrConfig = errors.New("engine: invalid config")

type Config struct {
	// Workers is the number of ranges scanned in parallel.
	Workers int
	// Capacity is the slot count of every table, worker-local and merged.
	// At most Capacity/2 distinct keys are supported.
	Capacity int
	// Hash defaults to table.Hash.
	Hash table.HashFunc
}

func DefaultConfig() Config {
	return Config{
		Workers:  runtime.NumCPU(),
		Capacity: table.DefaultCapacity,
		Hash:     table.Hash,
	}
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfig, c.Workers)
	}
	if err := table.ValidateCapacity(c.Capacity); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return nil
}

func (c Config) tableOptions() []table.Option {
	return []table.Option{table.WithHash(c.Hash)}
}
