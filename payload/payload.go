// Package payload turns the documents a relay carries into bytes and back.
// Unmarshal is strict: reconstructed bytes that do not parse are reported,
// never repaired.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrUnknownFormat = errors.New("unknown payload format")
	ErrInvalidUTF8   = errors.New("payload is not valid utf-8")
	ErrTooLarge      = errors.New("payload too large")
	ErrUnsupported   = errors.New("document type not supported by format")
)

type Format interface {
	Name() string
	ContentType() string
	Marshal(doc interface{}) ([]byte, error)
	Unmarshal(b []byte) (interface{}, error)
}

// ByName returns the format registered under name.
func ByName(name string) (Format, error) {
	switch name {
	case "json", "":
		return JSON{}, nil
	case "msgpack":
		return Msgpack{}, nil
	case "cbor":
		format, err := NewCBOR()
		if err != nil {
			return nil, err
		}
		return format, nil
	case "text":
		return Text{}, nil
	case "raw":
		return Raw{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// JSON keeps non-ASCII text as is and does not escape HTML characters.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

func (JSON) Marshal(doc interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (JSON) Unmarshal(b []byte) (interface{}, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Text carries a UTF-8 string.
type Text struct{}

func (Text) Name() string        { return "text" }
func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Marshal(doc interface{}) ([]byte, error) {
	var out []byte
	switch v := doc.(type) {
	case string:
		out = []byte(v)
	case []byte:
		out = append([]byte(nil), v...)
	default:
		return nil, fmt.Errorf("%w: text cannot carry %T", ErrUnsupported, doc)
	}
	if !utf8.Valid(out) {
		return nil, ErrInvalidUTF8
	}
	return out, nil
}

func (Text) Unmarshal(b []byte) (interface{}, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	return string(b), nil
}

// Raw carries bytes without any check.
type Raw struct{}

func (Raw) Name() string        { return "raw" }
func (Raw) ContentType() string { return "application/octet-stream" }

func (Raw) Marshal(doc interface{}) ([]byte, error) {
	switch v := doc.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: raw cannot carry %T", ErrUnsupported, doc)
	}
}

func (Raw) Unmarshal(b []byte) (interface{}, error) {
	return append([]byte(nil), b...), nil
}

// Limit rejects payloads longer than Max bytes in both directions. Max <= 0
// disables the check.
type Limit struct {
	Inner Format
	Max   int
}

func (self Limit) Name() string        { return self.Inner.Name() }
func (self Limit) ContentType() string { return self.Inner.ContentType() }

func (self Limit) Marshal(doc interface{}) ([]byte, error) {
	b, err := self.Inner.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if self.Max > 0 && len(b) > self.Max {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), self.Max)
	}
	return b, nil
}

func (self Limit) Unmarshal(b []byte) (interface{}, error) {
	if self.Max > 0 && len(b) > self.Max {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), self.Max)
	}
	return self.Inner.Unmarshal(b)
}
