// Package merge combines per-worker aggregation tables.
//
// Count and sum add, min and max take the extreme, so the result does not
// depend on the order of tables or of slots within a table.
package merge

import (
	"fmt"
	"slices"

	"github.com/jkroepke/1brc-engine/internal/table"
)

// Into folds every entry of srcs into dst. Keys are matched by content.
func Into(dst *table.Table, srcs ...*table.Table) error {
	var err error
	for _, src := range srcs {
		src.Range(func(key []byte, agg table.Aggregate) bool {
			var a *table.Aggregate
			if a, err = dst.GetOrCreate(key); err != nil {
				err = fmt.Errorf("merge %q: %w", key, err)
				return false
			}
			a.Merge(agg)
			return true
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Tables merges srcs into a new table of the given capacity. The result
// owns copies of its keys and stays valid after the inputs are released.
func Tables(capacity int, srcs []*table.Table, opts ...table.Option) (*table.Table, error) {
	dst, err := table.New(capacity, append(slices.Clip(opts), table.WithOwnedKeys())...)
	if err != nil {
		return nil, err
	}

	if err := Into(dst, srcs...); err != nil {
		return nil, err
	}

	return dst, nil
}
