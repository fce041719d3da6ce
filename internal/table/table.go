// Package table implements the fixed-capacity aggregation table.
//
// A Table is an open-addressing hash table with linear probing. Entries are
// stored inline in one slice that is allocated once; there is no resizing and
// no deletion, so the first unused slot ends every probe sequence. At most
// Cap()/2 distinct keys can be stored, keeping the load factor under 50%.
//
// By default keys are not copied: they must stay valid and unmodified for the
// lifetime of the table. Tables that outlive the input use WithOwnedKeys.
//
// A Table is not safe for concurrent use.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"math"
)

const (
	MinCapacity     = 16
	MaxCapacity     = 1 << 24
	DefaultCapacity = 1 << 16
)

var (
	ErrCapacity = errors.New("table: capacity must be a power of two")
	ErrFull     = errors.New("table: too many distinct keys")
)

// Aggregate is the running min/max/sum/count of one key, in tenths.
type Aggregate struct {
	Count uint64
	Sum   int64
	Min   int64
	Max   int64
}

func newAggregate() Aggregate {
	return Aggregate{Min: math.MaxInt64, Max: math.MinInt64}
}

// Add records one observation.
func (a *Aggregate) Add(v int64) {
	a.Count++
	a.Sum += v
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
}

// Merge folds b into a.
func (a *Aggregate) Merge(b Aggregate) {
	a.Count += b.Count
	a.Sum += b.Sum
	a.Min = min(a.Min, b.Min)
	a.Max = max(a.Max, b.Max)
}

// Mean in units, not tenths.
func (a Aggregate) Mean() float64 {
	return float64(a.Sum) / (float64(a.Count) * 10.0)
}

type HashFunc func(key []byte) uint64

type entry struct {
	key  []byte
	hash uint64
	used bool
	agg  Aggregate
}

type Table struct {
	entries   []entry
	mask      uint64
	len       int
	limit     int
	hash      HashFunc
	ownedKeys bool
}

type Option func(*Table)

// WithHash replaces the default Hash.
func WithHash(h HashFunc) Option {
	return func(t *Table) {
		if h != nil {
			t.hash = h
		}
	}
}

// WithOwnedKeys makes the table copy every key it inserts.
func WithOwnedKeys() Option {
	return func(t *Table) {
		t.ownedKeys = true
	}
}

// New allocates a table with capacity slots. capacity must be a power of two
// between MinCapacity and MaxCapacity.
func New(capacity int, opts ...Option) (*Table, error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}

	t := &Table{
		entries: make([]entry, capacity),
		mask:    uint64(capacity - 1),
		limit:   capacity / 2,
		hash:    Hash,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

func ValidateCapacity(capacity int) error {
	if capacity < MinCapacity || capacity > MaxCapacity || capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w in [%d, %d], got %d", ErrCapacity, MinCapacity, MaxCapacity, capacity)
	}

	return nil
}

// GetOrCreate returns the aggregate for key, inserting an empty one on first
// sight. The pointer stays valid for the lifetime of the table. ErrFull is
// returned when key is new and MaxKeys keys are already stored.
func (t *Table) GetOrCreate(key []byte) (*Aggregate, error) {
	h := t.hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		e := &t.entries[i]
		if !e.used {
			if t.len >= t.limit {
				return nil, fmt.Errorf("%w: limit is %d", ErrFull, t.limit)
			}
			if t.ownedKeys {
				key = bytes.Clone(key)
			}
			*e = entry{key: key, hash: h, used: true, agg: newAggregate()}
			t.len++
			return &e.agg, nil
		}
		if e.hash == h && bytes.Equal(e.key, key) {
			return &e.agg, nil
		}
	}
}

// Lookup returns a copy of the aggregate for key.
func (t *Table) Lookup(key []byte) (Aggregate, bool) {
	h := t.hash(key)
	for i := h & t.mask; ; i = (i + 1) & t.mask {
		e := &t.entries[i]
		if !e.used {
			return Aggregate{}, false
		}
		if e.hash == h && bytes.Equal(e.key, key) {
			return e.agg, true
		}
	}
}

// Range calls fn for every stored key in slot order until fn returns false.
// The key must not be modified.
func (t *Table) Range(fn func(key []byte, agg Aggregate) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.used && !fn(e.key, e.agg) {
			return
		}
	}
}

// Len is the number of distinct keys.
func (t *Table) Len() int {
	return t.len
}

// Cap is the number of slots.
func (t *Table) Cap() int {
	return len(t.entries)
}

// MaxKeys is the most distinct keys the table accepts.
func (t *Table) MaxKeys() int {
	return t.limit
}
