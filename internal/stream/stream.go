package stream

import (
	"fmt"

	"github.com/harlequix/hamrelay/internal/encoding"
	"github.com/harlequix/hamrelay/internal/format"
)

// DefaultBlockSize splits every byte into two nibbles, a Hamming(7,4) stream.
const DefaultBlockSize = 4

// BlockError locates a code block that could not be decoded.
type BlockError struct {
	Index int
	Err   error
}

func (self *BlockError) Error() string {
	return fmt.Sprintf("code block %d: %v", self.Index, self.Err)
}

func (self *BlockError) Unwrap() error {
	return self.Err
}

// PayloadDecodeError wraps a reconstructed payload that the validator rejected.
type PayloadDecodeError struct {
	Cause error
}

func (self *PayloadDecodeError) Error() string {
	return fmt.Sprintf("payload decode: %v", self.Cause)
}

func (self *PayloadDecodeError) Unwrap() error {
	return self.Cause
}

// Validator checks that reconstructed bytes parse under the payload's
// expected encoding.
type Validator func(payload []byte) error

type Encoder struct {
	BlockSize int
}

func NewEncoder(blockSize int) *Encoder {
	return &Encoder{
		BlockSize: blockSize,
	}
}

// EncodePayload frames payload and concatenates the code blocks.
func (self *Encoder) EncodePayload(payload []byte) ([]byte, error) {
	blocks, err := format.ToBlocks(payload, self.BlockSize)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(blocks)*encoding.CodeLen(self.BlockSize))
	for _, block := range blocks {
		code, err := encoding.EncodeHamming(block.GetBits())
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
	}
	return out, nil
}

func (self *Encoder) EncodeString(payload []byte) (string, error) {
	bits, err := self.EncodePayload(payload)
	if err != nil {
		return "", err
	}
	return encoding.FormatBits(bits), nil
}

type Decoder struct {
	BlockSize int
	Validate  Validator
}

func NewDecoder(blockSize int, validate Validator) *Decoder {
	return &Decoder{
		BlockSize: blockSize,
		Validate:  validate,
	}
}

// Report is the outcome of a successful stream decode.
type Report struct {
	Payload []byte
	// Corrected lists the index of every code block that had a bit flipped back.
	Corrected []int
}

// Decode corrects and strips every code block, then reassembles the bytes.
func (self *Decoder) Decode(stream []byte) (*Report, error) {
	if self.BlockSize < 1 {
		return nil, format.ErrBlockSize
	}
	n := encoding.CodeLen(self.BlockSize)
	if len(stream)%n != 0 {
		return nil, &BlockError{
			Index: len(stream) / n,
			Err:   fmt.Errorf("%w: trailing %d bits", encoding.ErrInvalidBlockLength, len(stream)%n),
		}
	}
	report := &Report{}
	blocks := make([]*format.Block, 0, len(stream)/n)
	for index := 0; index*n < len(stream); index++ {
		fixed, syndrome, err := encoding.CorrectHamming(stream[index*n : (index+1)*n])
		if err != nil {
			return nil, &BlockError{Index: index, Err: err}
		}
		if syndrome != 0 {
			report.Corrected = append(report.Corrected, index)
		}
		blocks = append(blocks, format.NewBlock(encoding.StripParity(fixed)))
	}
	payload, err := format.FromBlocks(blocks, self.BlockSize)
	if err != nil {
		return nil, err
	}
	if self.Validate != nil {
		if err := self.Validate(payload); err != nil {
			return nil, &PayloadDecodeError{Cause: err}
		}
	}
	report.Payload = payload
	return report, nil
}

func (self *Decoder) DecodePayload(stream []byte) ([]byte, error) {
	report, err := self.Decode(stream)
	if err != nil {
		return nil, err
	}
	return report.Payload, nil
}

// DecodeString accepts the "0101" text form of a stream.
func (self *Decoder) DecodeString(s string) ([]byte, error) {
	bits, err := encoding.ParseBits(s)
	if err != nil {
		return nil, err
	}
	return self.DecodePayload(bits)
}
