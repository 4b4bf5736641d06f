package encoding

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBlock         = errors.New("data block is empty")
	ErrInvalidBlockLength = errors.New("invalid code block length")
	ErrSyndromeOutOfRange = errors.New("syndrome points outside the code block")
)

// RedundantBits returns the smallest r with 2^r >= m + r + 1.
func RedundantBits(m int) int {
	r := 0
	for (1 << r) < m+r+1 {
		r++
	}
	return r
}

// CodeLen is the length of the code block protecting m data bits.
func CodeLen(m int) int {
	return m + RedundantBits(m)
}

// DataLen recovers m from a code block length n. It fails for any n that no
// data length encodes to.
func DataLen(n int) (int, error) {
	if n < 3 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBlockLength, n)
	}
	r := 0
	for (1 << r) < n+1 {
		r++
	}
	m := n - r
	if m < 1 || RedundantBits(m) != r {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBlockLength, n)
	}
	return m, nil
}

func isParity(pos int) bool {
	return pos&(pos-1) == 0
}

// groupParity XORs every bit whose 1-indexed position has the mask bit set.
func groupParity(code []byte, mask int) byte {
	var val byte
	for pos := 1; pos <= len(code); pos++ {
		if pos&mask != 0 {
			val ^= code[pos-1]
		}
	}
	return val
}

// EncodeHamming protects data with a single-error-correcting Hamming code.
// Parity bits sit at the power-of-two positions (1-indexed), data bits fill
// the rest in their original order.
func EncodeHamming(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyBlock
	}
	if err := CheckBits(data); err != nil {
		return nil, err
	}
	r := RedundantBits(len(data))
	code := make([]byte, len(data)+r)
	next := 0
	for pos := 1; pos <= len(code); pos++ {
		if isParity(pos) {
			continue
		}
		code[pos-1] = data[next]
		next++
	}
	for i := 0; i < r; i++ {
		mask := 1 << i
		code[mask-1] = groupParity(code, mask)
	}
	return code, nil
}

// Syndrome returns the 1-indexed position of a single flipped bit, or 0 when
// every parity group checks out.
func Syndrome(code []byte) (int, error) {
	m, err := DataLen(len(code))
	if err != nil {
		return 0, err
	}
	if err := CheckBits(code); err != nil {
		return 0, err
	}
	r := len(code) - m
	syndrome := 0
	for i := 0; i < r; i++ {
		mask := 1 << i
		if groupParity(code, mask) == ONE {
			syndrome |= mask
		}
	}
	return syndrome, nil
}

// CorrectHamming returns a corrected copy of code and the syndrome that
// drove the correction. code itself is never modified.
func CorrectHamming(code []byte) ([]byte, int, error) {
	syndrome, err := Syndrome(code)
	if err != nil {
		return nil, 0, err
	}
	if syndrome > len(code) {
		return nil, syndrome, fmt.Errorf("%w: %w: %d > %d", ErrInvalidBlockLength, ErrSyndromeOutOfRange, syndrome, len(code))
	}
	fixed := make([]byte, len(code))
	copy(fixed, code)
	if syndrome > 0 {
		fixed[syndrome-1] ^= ONE
	}
	return fixed, syndrome, nil
}

// DecodeHamming corrects at most one flipped bit and strips the parity bits.
// Two or more flips may decode to the wrong data without an error.
func DecodeHamming(code []byte) ([]byte, error) {
	fixed, _, err := CorrectHamming(code)
	if err != nil {
		return nil, err
	}
	return StripParity(fixed), nil
}

// StripParity drops the parity positions of code without correcting it.
func StripParity(code []byte) []byte {
	out := make([]byte, 0, len(code))
	for pos := 1; pos <= len(code); pos++ {
		if !isParity(pos) {
			out = append(out, code[pos-1])
		}
	}
	return out
}

// SelfCheck encodes every m-bit data block, decodes it clean and with each
// single bit flipped, and reports how many decodes were verified.
func SelfCheck(m int) (int, error) {
	if m < 1 || m > 16 {
		return 0, fmt.Errorf("block size %d out of range for an exhaustive check", m)
	}
	checked := 0
	data := make([]byte, m)
	for value := 0; value < 1<<m; value++ {
		for i := 0; i < m; i++ {
			data[i] = byte(value>>(m-1-i)) & 1
		}
		code, err := EncodeHamming(data)
		if err != nil {
			return checked, err
		}
		for flip := -1; flip < len(code); flip++ {
			received := make([]byte, len(code))
			copy(received, code)
			if flip >= 0 {
				received[flip] ^= ONE
			}
			got, err := DecodeHamming(received)
			if err != nil {
				return checked, fmt.Errorf("block %s flip %d: %w", FormatBits(data), flip+1, err)
			}
			if FormatBits(got) != FormatBits(data) {
				return checked, fmt.Errorf("block %s flip %d: decoded %s", FormatBits(data), flip+1, FormatBits(got))
			}
			checked++
		}
	}
	return checked, nil
}
