// Package partition splits a region into line-aligned byte ranges.
package partition

import "bytes"

// Range is the half-open interval [Start, End) of a region.
type Range struct {
	Start, End int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// Of returns the bytes of data covered by r.
func (r Range) Of(data []byte) []byte {
	return data[r.Start:r.End]
}

// Align moves pos forward to the start of the next line, or to len(data) if
// no line break follows. Positions already at a line start are kept.
func Align(data []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(data) {
		return len(data)
	}
	if data[pos-1] == '\n' {
		return pos
	}

	i := bytes.IndexByte(data[pos:], '\n')
	if i < 0 {
		return len(data)
	}

	return pos + i + 1
}

// Split cuts data into n contiguous ranges covering it exactly once. Every
// boundary sits right after a line break, so no line spans two ranges. When
// there are fewer lines than ranges some of them are empty.
func Split(data []byte, n int) []Range {
	if n < 1 {
		n = 1
	}

	cuts := make([]int, n-1)
	for i := range cuts {
		cuts[i] = len(data) / n * (i + 1)
	}

	return At(data, cuts...)
}

// At splits data at arbitrary cut points, each aligned to the next line.
// A cut at or before the previous boundary yields an empty range.
func At(data []byte, cuts ...int) []Range {
	ranges := make([]Range, 0, len(cuts)+1)
	start := 0
	for _, c := range cuts {
		end := max(start, Align(data, c))
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}

	return append(ranges, Range{Start: start, End: len(data)})
}
