// Package tenths decodes one-decimal fixed-point values into integer tenths.
package tenths

import (
	"errors"
	"fmt"
)

var ErrFormat = errors.New("tenths: malformed value")

// Parse decodes b, which must match -?d{1,2}\.d, into tenths of a unit:
// "23.4" is 234 and "-5.0" is -50. Anything else returns ErrFormat.
func Parse(b []byte) (int64, error) {
	digits := b
	neg := len(digits) > 0 && digits[0] == '-'
	if neg {
		digits = digits[1:]
	}

	var v int64
	switch len(digits) {
	case 3: // d.d
		if !isDigit(digits[0]) || digits[1] != '.' || !isDigit(digits[2]) {
			return 0, malformed(b)
		}
		v = int64(digits[0]-'0')*10 + int64(digits[2]-'0')
	case 4: // dd.d
		if !isDigit(digits[0]) || !isDigit(digits[1]) || digits[2] != '.' || !isDigit(digits[3]) {
			return 0, malformed(b)
		}
		v = int64(digits[0]-'0')*100 + int64(digits[1]-'0')*10 + int64(digits[3]-'0')
	default:
		return 0, malformed(b)
	}

	if neg {
		return -v, nil
	}

	return v, nil
}

func isDigit(c byte) bool {
	return c-'0' < 10
}

func malformed(b []byte) error {
	return fmt.Errorf("%w: %q", ErrFormat, b)
}
