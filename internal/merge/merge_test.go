package merge

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/jkroepke/1brc-engine/internal/table"
)

const capacity = 1 << 10

func snapshot(tbl *table.Table) map[string]table.Aggregate {
	out := make(map[string]table.Aggregate, tbl.Len())
	tbl.Range(func(key []byte, agg table.Aggregate) bool {
		out[string(key)] = agg
		return true
	})

	return out
}

func randomTables(t *testing.T, seed int64, n int) []*table.Table {
	t.Helper()

	rnd := rand.New(rand.NewSource(seed))
	tables := make([]*table.Table, n)
	for i := range tables {
		tbl, err := table.New(capacity)
		if err != nil {
			t.Fatalf("table.New: %s", err)
		}
		for j := 0; j < 500; j++ {
			a, err := tbl.GetOrCreate([]byte(fmt.Sprintf("station-%d", rnd.Intn(40))))
			if err != nil {
				t.Fatalf("GetOrCreate: %s", err)
			}
			a.Add(int64(rnd.Intn(1999) - 999))
		}
		tables[i] = tbl
	}

	return tables
}

func TestTables(t *testing.T) {
	a, _ := table.New(16)
	b, _ := table.New(16)
	for _, v := range []int64{234, 181} {
		agg, _ := a.GetOrCreate([]byte("Tokyo"))
		agg.Add(v)
	}
	agg, _ := b.GetOrCreate([]byte("Paris"))
	agg.Add(50)
	agg, _ = b.GetOrCreate([]byte("Tokyo"))
	agg.Add(-12)

	merged, err := Tables(capacity, []*table.Table{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	expected := map[string]table.Aggregate{
		"Tokyo": {Count: 3, Sum: 403, Min: -12, Max: 234},
		"Paris": {Count: 1, Sum: 50, Min: 50, Max: 50},
	}
	if got := snapshot(merged); !reflect.DeepEqual(got, expected) {
		t.Errorf("merged = %v, want %v", got, expected)
	}
}

func TestOrderIndependent(t *testing.T) {
	tables := randomTables(t, 42, 5)

	allAtOnce, err := Tables(capacity, tables)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := snapshot(allAtOnce)

	t.Run("reversed", func(t *testing.T) {
		reversed := make([]*table.Table, len(tables))
		for i, tbl := range tables {
			reversed[len(tables)-1-i] = tbl
		}

		got, err := Tables(capacity, reversed)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(snapshot(got), expected) {
			t.Error("merging in reverse order changed the result")
		}
	})

	t.Run("pairwise", func(t *testing.T) {
		left, err := Tables(capacity, tables[:2])
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		right, err := Tables(capacity, tables[2:])
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		got, err := Tables(capacity, []*table.Table{right, left})
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(snapshot(got), expected) {
			t.Error("pairwise merge differs from merging all at once")
		}
	})

	t.Run("different slot order", func(t *testing.T) {
		constant := table.WithHash(func(key []byte) uint64 { return uint64(len(key)) })
		got, err := Tables(capacity, tables, constant)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(snapshot(got), expected) {
			t.Error("destination hash changed the result")
		}
	})
}

func TestIntoFull(t *testing.T) {
	src, _ := table.New(64)
	for i := 0; i < 20; i++ {
		a, _ := src.GetOrCreate([]byte(fmt.Sprintf("k%d", i)))
		a.Add(1)
	}

	dst, _ := table.New(16)
	if err := Into(dst, src); !errors.Is(err, table.ErrFull) {
		t.Errorf("Into() error = %v, want %v", err, table.ErrFull)
	}
}

func TestTablesCapacity(t *testing.T) {
	if _, err := Tables(100, nil); !errors.Is(err, table.ErrCapacity) {
		t.Errorf("Tables() error = %v, want %v", err, table.ErrCapacity)
	}
}

func TestTablesKeepsCallerOptions(t *testing.T) {
	src, _ := table.New(16)
	a, _ := src.GetOrCreate([]byte("Oslo"))
	a.Add(1)

	var spareCalled bool
	spare := func(*table.Table) { spareCalled = true }

	opts := make([]table.Option, 1, 2)
	opts[0] = table.WithHash(table.XXH3)
	backing := opts[:2]
	backing[1] = spare

	if _, err := Tables(capacity, []*table.Table{src}, opts...); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	scratch, _ := table.New(16)
	backing[1](scratch)
	if !spareCalled {
		t.Error("Tables() overwrote the spare capacity of the caller's options")
	}
}
