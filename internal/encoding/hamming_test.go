package encoding

import (
	"errors"
	"reflect"
	"testing"
)

func flip(b []byte, index int) {
	if b[index] == ZERO {
		b[index] = ONE
	} else {
		b[index] = ZERO
	}
}

func TestRedundantBits(t *testing.T) {
	tests := []struct {
		m    int
		want int
	}{
		{1, 2},
		{2, 3},
		{4, 3},
		{5, 4},
		{11, 4},
		{12, 5},
		{26, 5},
		{27, 6},
		{57, 6},
		{58, 7},
	}
	for _, tt := range tests {
		if got := RedundantBits(tt.m); got != tt.want {
			t.Errorf("RedundantBits(%d) = %d, want %d", tt.m, got, tt.want)
		}
	}
}

func TestRedundantBitsMinimal(t *testing.T) {
	for m := 1; m <= 300; m++ {
		r := RedundantBits(m)
		if 1<<r < m+r+1 {
			t.Fatalf("m=%d: r=%d does not satisfy 2^r >= m+r+1", m, r)
		}
		if r > 0 && 1<<(r-1) >= m+r {
			t.Fatalf("m=%d: r=%d is not minimal", m, r)
		}
	}
}

func TestDataLen(t *testing.T) {
	for m := 1; m <= 120; m++ {
		got, err := DataLen(CodeLen(m))
		if err != nil {
			t.Fatalf("DataLen(%d): %v", CodeLen(m), err)
		}
		if got != m {
			t.Errorf("DataLen(CodeLen(%d)) = %d", m, got)
		}
	}
	for _, n := range []int{0, 1, 2, 4, 8, 16, 32} {
		if _, err := DataLen(n); !errors.Is(err, ErrInvalidBlockLength) {
			t.Errorf("DataLen(%d): expected ErrInvalidBlockLength, got %v", n, err)
		}
	}
}

func TestEncodeNibbles(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"high nibble of A", "0100", "1001100"},
		{"low nibble of A", "0001", "1101001"},
		{"zero", "0000", "0000000"},
		{"ones", "1111", "1111111"},
		{"single bit", "1", "111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseBits(tt.data)
			if err != nil {
				t.Fatal(err)
			}
			code, err := EncodeHamming(data)
			if err != nil {
				t.Fatalf("EncodeHamming failed: %v", err)
			}
			if got := FormatBits(code); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEncodeParityGroupsEven(t *testing.T) {
	data := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1}
	code, err := EncodeHamming(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 15 {
		t.Fatalf("expected 15 bits, got %d", len(code))
	}
	syndrome, err := Syndrome(code)
	if err != nil {
		t.Fatal(err)
	}
	if syndrome != 0 {
		t.Errorf("fresh code block has syndrome %d", syndrome)
	}
}

func TestEncodeRejects(t *testing.T) {
	if _, err := EncodeHamming(nil); !errors.Is(err, ErrEmptyBlock) {
		t.Errorf("expected ErrEmptyBlock, got %v", err)
	}
	if _, err := EncodeHamming([]byte{0, 2, 1}); !errors.Is(err, ErrInvalidBit) {
		t.Errorf("expected ErrInvalidBit, got %v", err)
	}
}

func TestSingleBitCorrection(t *testing.T) {
	for _, m := range []int{1, 2, 3, 4, 7, 8, 11} {
		if _, err := SelfCheck(m); err != nil {
			t.Errorf("m=%d: %v", m, err)
		}
	}
}

func TestSelfCheckCount(t *testing.T) {
	checked, err := SelfCheck(4)
	if err != nil {
		t.Fatal(err)
	}
	// 16 blocks, each decoded clean plus once per flipped position.
	if checked != 16*8 {
		t.Errorf("expected %d decodes, got %d", 16*8, checked)
	}
	if _, err := SelfCheck(0); err == nil {
		t.Error("expected an error for block size 0")
	}
}

func TestDecodeDoesNotModifyInput(t *testing.T) {
	code, _ := EncodeHamming([]byte{0, 1, 1, 0})
	flip(code, 2)
	received := append([]byte(nil), code...)
	if _, err := DecodeHamming(received); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(received, code) {
		t.Errorf("input changed: %v -> %v", code, received)
	}
}

func TestDoubleFlipNeverPanics(t *testing.T) {
	for _, m := range []int{1, 4, 5, 11} {
		data := make([]byte, m)
		for i := range data {
			data[i] = byte(i % 2)
		}
		code, err := EncodeHamming(data)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < len(code); i++ {
			for j := i + 1; j < len(code); j++ {
				received := append([]byte(nil), code...)
				flip(received, i)
				flip(received, j)
				got, err := DecodeHamming(received)
				if err != nil {
					if !errors.Is(err, ErrSyndromeOutOfRange) || !errors.Is(err, ErrInvalidBlockLength) {
						t.Errorf("m=%d flips %d,%d: unexpected error %v", m, i, j, err)
					}
					continue
				}
				if len(got) != m {
					t.Errorf("m=%d flips %d,%d: decoded %d bits", m, i, j, len(got))
				}
			}
		}
	}
}

func TestDoubleFlipMisdecodes(t *testing.T) {
	data := []byte{0, 1, 0, 0}
	code, _ := EncodeHamming(data)
	flip(code, 0)
	flip(code, 1)
	got, err := DecodeHamming(code)
	if err != nil {
		t.Fatal(err)
	}
	if reflect.DeepEqual(got, data) {
		t.Errorf("two flips in a 7-bit block should not decode to the original")
	}
}

func TestDecodeInvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, 4, 8} {
		if _, err := DecodeHamming(make([]byte, n)); !errors.Is(err, ErrInvalidBlockLength) {
			t.Errorf("len %d: expected ErrInvalidBlockLength, got %v", n, err)
		}
	}
}

func TestDecodeInvalidBit(t *testing.T) {
	if _, err := DecodeHamming([]byte{0, 0, 0, 0, 0, 0, 7}); !errors.Is(err, ErrInvalidBit) {
		t.Errorf("expected ErrInvalidBit, got %v", err)
	}
}

func TestSyndromeOutOfRange(t *testing.T) {
	// n=5: parity groups {1,3,5}, {2,3}, {4,5}; flipping 2 and 4 gives syndrome 6
	code := []byte{ZERO, ONE, ZERO, ONE, ZERO}
	_, syndrome, err := CorrectHamming(code)
	if syndrome != 6 {
		t.Errorf("syndrome %d, want 6", syndrome)
	}
	if !errors.Is(err, ErrSyndromeOutOfRange) || !errors.Is(err, ErrInvalidBlockLength) {
		t.Errorf("expected an out of range block length error, got %v", err)
	}
	if _, err := DecodeHamming(code); !errors.Is(err, ErrInvalidBlockLength) {
		t.Errorf("DecodeHamming: expected ErrInvalidBlockLength, got %v", err)
	}
}

func TestStripParity(t *testing.T) {
	data := []byte{ONE, ZERO, ONE, ONE}
	code, err := EncodeHamming(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := StripParity(code); !reflect.DeepEqual(got, data) {
		t.Errorf("clean strip %v, want %v", got, data)
	}
	// position 1 is parity, position 3 is the first data bit
	parityFlipped := append([]byte(nil), code...)
	flip(parityFlipped, 0)
	if got := StripParity(parityFlipped); !reflect.DeepEqual(got, data) {
		t.Errorf("parity flip changed data: %v", got)
	}
	dataFlipped := append([]byte(nil), code...)
	flip(dataFlipped, 2)
	want := []byte{ZERO, ZERO, ONE, ONE}
	if got := StripParity(dataFlipped); !reflect.DeepEqual(got, want) {
		t.Errorf("strip corrected the block: %v, want %v", got, want)
	}
}
