// Package report formats merged aggregates as
//
//	{Abha=-23.0/18.0/59.2, Abidjan=-16.2/26.0/67.3, ...}
//
// sorted by station name in byte order.
package report

import (
	"bufio"
	"cmp"
	"io"
	"slices"
	"strconv"

	"github.com/jkroepke/1brc-engine/internal/table"
)

type Station struct {
	Name string
	table.Aggregate
}

// Stations returns the entries of t sorted by name.
func Stations(t *table.Table) []Station {
	stations := make([]Station, 0, t.Len())
	t.Range(func(key []byte, agg table.Aggregate) bool {
		stations = append(stations, Station{Name: string(key), Aggregate: agg})
		return true
	})

	slices.SortFunc(stations, func(a, b Station) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return stations
}

// MeanTenths is sum/count rounded half up, in tenths.
func MeanTenths(sum int64, count uint64) int64 {
	if count == 0 {
		return 0
	}

	n := int64(count)
	return floorDiv(2*sum+n, 2*n)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && (a < 0) != (b < 0) {
		q--
	}

	return q
}

// AppendTenths appends v/10 with exactly one decimal.
func AppendTenths(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/10, 10)
	dst = append(dst, '.')
	return append(dst, byte('0'+v%10))
}

func Write(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)

	buf := make([]byte, 0, 128)
	buf = append(buf, '{')
	for i, s := range Stations(t) {
		if i != 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, s.Name...)
		buf = append(buf, '=')
		buf = AppendTenths(buf, s.Min)
		buf = append(buf, '/')
		buf = AppendTenths(buf, MeanTenths(s.Sum, s.Count))
		buf = append(buf, '/')
		buf = AppendTenths(buf, s.Max)

		if _, err := bw.Write(buf); err != nil {
			return err
		}
		buf = buf[:0]
	}
	buf = append(buf, "}\n"...)
	if _, err := bw.Write(buf); err != nil {
		return err
	}

	return bw.Flush()
}
