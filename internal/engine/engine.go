// Package engine runs the partitioned scan over a mapped input and merges
// the per-worker tables.
package engine

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jkroepke/1brc-engine/internal/mapped"
	"github.com/jkroepke/1brc-engine/internal/merge"
	"github.com/jkroepke/1brc-engine/internal/partition"
	"github.com/jkroepke/1brc-engine/internal/scan"
	"github.com/jkroepke/1brc-engine/internal/table"
	"github.com/jkroepke/1brc-engine/internal/tenths"
)

// Stats are filled in by the workers as they finish their ranges.
type Stats struct {
	Records *xsync.Counter
	Bytes   *xsync.Counter
	Workers *xsync.Counter
}

func newStats() Stats {
	return Stats{
		Records: xsync.NewCounter(),
		Bytes:   xsync.NewCounter(),
		Workers: xsync.NewCounter(),
	}
}

type Result struct {
	// Stations owns its keys and is independent of the input region.
	Stations *table.Table
	Stats    Stats
}

// Run maps the file at path and aggregates it.
func Run(path string, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := mapped.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return Aggregate(src.Bytes(), cfg)
}

// Aggregate scans data with cfg.Workers workers, each owning one
// line-aligned range and one table, then merges the tables once all workers
// are done. The first malformed record or full table aborts the run.
func Aggregate(data []byte, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ranges := partition.Split(data, cfg.Workers)
	tables := make([]*table.Table, len(ranges))
	stats := newStats()

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, r := range ranges {
		t, err := table.New(cfg.Capacity, cfg.tableOptions()...)
		if err != nil {
			return nil, err
		}
		tables[i] = t

		g.Go(func() error {
			n, err := scanRange(data, r, t)
			if err != nil {
				return err
			}
			stats.Records.Add(n)
			stats.Bytes.Add(int64(r.Len()))
			stats.Workers.Inc()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stations, err := merge.Tables(cfg.Capacity, tables, cfg.tableOptions()...)
	if err != nil {
		return nil, err
	}

	return &Result{Stations: stations, Stats: stats}, nil
}

// scanRange feeds every record of r into t and returns the record count.
func scanRange(data []byte, r partition.Range, t *table.Table) (int64, error) {
	var n int64

	s := scan.New(r.Of(data))
	for s.Next() {
		v, err := tenths.Parse(s.Value())
		if err != nil {
			return n, fmt.Errorf("offset %d: %w", r.Start+s.LineStart(), err)
		}

		a, err := t.GetOrCreate(s.Key())
		if err != nil {
			return n, fmt.Errorf("offset %d: %w", r.Start+s.LineStart(), err)
		}
		a.Add(v)
		n++
	}
	if err := s.Err(); err != nil {
		return n, fmt.Errorf("range %d-%d: %w", r.Start, r.End, err)
	}

	return n, nil
}
