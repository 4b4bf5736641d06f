package encoding

import (
	"errors"
	"fmt"
	"strings"
)

// Bits are carried one per byte. Only ONE and ZERO are valid values.
const ONE byte = 1
const ZERO byte = 0

var ErrInvalidBit = errors.New("bit must be 0 or 1")

// ByteToBits returns the eight bits of input, most significant first.
func ByteToBits(input byte) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = (input >> (7 - i)) & 1
	}
	return out
}

// BitsToByte packs up to eight bits, most significant first. Missing low
// bits are zero.
func BitsToByte(bits []byte) byte {
	var out byte
	for i := 0; i < 8 && i < len(bits); i++ {
		out |= (bits[i] & 1) << (7 - i)
	}
	return out
}

func BytesToBits(data []byte) []byte {
	out := make([]byte, 0, len(data)*8)
	for _, b := range data {
		out = append(out, ByteToBits(b)...)
	}
	return out
}

func CheckBits(bits []byte) error {
	for pos, bit := range bits {
		if bit != ZERO && bit != ONE {
			return fmt.Errorf("%w: position %d holds %d", ErrInvalidBit, pos, bit)
		}
	}
	return nil
}

// FormatBits renders bits as a "0101" string.
func FormatBits(bits []byte) string {
	var builder strings.Builder
	builder.Grow(len(bits))
	for _, bit := range bits {
		if bit == ONE {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

// ParseBits is the inverse of FormatBits.
func ParseBits(s string) ([]byte, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out[i] = ZERO
		case '1':
			out[i] = ONE
		default:
			return nil, fmt.Errorf("%w: position %d holds %q", ErrInvalidBit, i, s[i])
		}
	}
	return out, nil
}
