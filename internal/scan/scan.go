// Package scan splits a byte region into key/value records without copying.
//
// Input is assumed machine generated: one record per line, key and value
// separated by the first ';'. A line without a separator, or an empty line
// before the end of the region, is an error.
package scan

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	Separator = ';'
	Newline   = '\n'

	// keys are rarely longer than a few dozen bytes
	probeWindow = 128
)

var (
	ErrNoSeparator = errors.New("scan: missing separator")
	ErrEmptyLine   = errors.New("scan: empty line")
)

// Line returns the line starting at off and the offset of the line after it.
// An exhausted region returns a nil line and len(data).
func Line(data []byte, off int) ([]byte, int) {
	if off >= len(data) {
		return nil, len(data)
	}

	rest := data[off:]
	n := bytes.IndexByte(rest, Newline)
	if n < 0 {
		return rest, len(data)
	}

	return rest[:n], off + n + 1
}

// Split cuts line at its first separator.
func Split(line []byte) (key, value []byte, ok bool) {
	head := line
	if len(head) > probeWindow {
		head = head[:probeWindow]
	}

	i := bytes.IndexByte(head, Separator)
	if i < 0 && len(line) > probeWindow {
		if i = bytes.IndexByte(line[probeWindow:], Separator); i >= 0 {
			i += probeWindow
		}
	}
	if i < 0 {
		return nil, nil, false
	}

	return line[:i], line[i+1:], true
}

// Scanner walks the records of a region. Key and Value borrow from the
// region and stay valid as long as it does.
type Scanner struct {
	data       []byte
	off        int
	start      int
	key, value []byte
	err        error
}

func New(data []byte) *Scanner {
	return &Scanner{data: data}
}

// Reset restarts the scanner on data.
func (s *Scanner) Reset(data []byte) {
	*s = Scanner{data: data}
}

// Next advances to the next record. It returns false at the end of the
// region or on a malformed line; Err tells the two apart.
func (s *Scanner) Next() bool {
	if s.err != nil || s.off >= len(s.data) {
		return false
	}

	s.start = s.off

	var line []byte
	line, s.off = Line(s.data, s.off)
	if len(line) == 0 {
		s.err = fmt.Errorf("%w at offset %d", ErrEmptyLine, s.start)
		return false
	}

	var ok bool
	s.key, s.value, ok = Split(line)
	if !ok {
		s.err = fmt.Errorf("%w at offset %d: %q", ErrNoSeparator, s.start, line)
		return false
	}

	return true
}

func (s *Scanner) Key() []byte {
	return s.key
}

func (s *Scanner) Value() []byte {
	return s.value
}

// LineStart is the offset of the current record within the region.
func (s *Scanner) LineStart() int {
	return s.start
}

// Offset is where the next call to Next starts reading.
func (s *Scanner) Offset() int {
	return s.off
}

func (s *Scanner) Err() error {
	return s.err
}
