package format

import (
	"errors"
	"fmt"

	"github.com/harlequix/hamrelay/internal/encoding"
)

var (
	ErrFraming   = errors.New("framing error")
	ErrBlockSize = errors.New("block size must be at least 1")
)

// FramingError reports a block sequence that does not close whole bytes.
type FramingError struct {
	Blocks    int
	BlockSize int
	Reason    string
}

func (self *FramingError) Error() string {
	return fmt.Sprintf("framing error: %d blocks of %d bits: %s", self.Blocks, self.BlockSize, self.Reason)
}

func (self *FramingError) Is(target error) bool {
	return target == ErrFraming
}

// Block is one fixed-size group of data bits.
type Block struct {
	field []byte
}

func NewBlock(bits []byte) *Block {
	field := make([]byte, len(bits))
	copy(field, bits)
	return &Block{
		field: field,
	}
}

func (self *Block) Len() int {
	return len(self.field)
}

// GetBits returns a copy, a Block never changes once framed.
func (self *Block) GetBits() []byte {
	out := make([]byte, len(self.field))
	copy(out, self.field)
	return out
}

func (self *Block) String() string {
	return encoding.FormatBits(self.field)
}

// GroupsPerByte is the number of blockSize-bit groups one byte is split into.
// The last group is zero padded when blockSize does not divide 8.
func GroupsPerByte(blockSize int) int {
	return (8 + blockSize - 1) / blockSize
}

// ToBlocks splits every byte of payload into blockSize-bit groups, most
// significant bits first.
func ToBlocks(payload []byte, blockSize int) ([]*Block, error) {
	if blockSize < 1 {
		return nil, ErrBlockSize
	}
	per := GroupsPerByte(blockSize)
	out := make([]*Block, 0, len(payload)*per)
	for _, value := range payload {
		bits := encoding.ByteToBits(value)
		for group := 0; group < per; group++ {
			field := make([]byte, blockSize)
			from := group * blockSize
			for i := 0; i < blockSize && from+i < len(bits); i++ {
				field[i] = bits[from+i]
			}
			out = append(out, &Block{field: field})
		}
	}
	return out, nil
}

// FromBlocks joins groups back into bytes in encounter order.
func FromBlocks(blocks []*Block, blockSize int) ([]byte, error) {
	if blockSize < 1 {
		return nil, ErrBlockSize
	}
	per := GroupsPerByte(blockSize)
	if len(blocks)%per != 0 {
		return nil, &FramingError{
			Blocks:    len(blocks),
			BlockSize: blockSize,
			Reason:    fmt.Sprintf("%d bits do not close a byte", (len(blocks)%per)*blockSize),
		}
	}
	out := make([]byte, 0, len(blocks)/per)
	bits := make([]byte, 0, per*blockSize)
	for index, block := range blocks {
		if block == nil || block.Len() != blockSize {
			return nil, &FramingError{
				Blocks:    len(blocks),
				BlockSize: blockSize,
				Reason:    fmt.Sprintf("block %d has the wrong size", index),
			}
		}
		bits = append(bits, block.field...)
		if len(bits) == per*blockSize {
			out = append(out, encoding.BitsToByte(bits))
			bits = bits[:0]
		}
	}
	return out, nil
}
