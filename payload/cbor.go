package payload

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// CBOR is not ready to use as a zero value, construct it with NewCBOR.
// Maps decode as map[string]interface{} so documents stay JSON compatible.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBOR() (CBOR, error) {
	eo := cbor.PreferredUnsortedEncOptions()
	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

func (CBOR) Name() string        { return "cbor" }
func (CBOR) ContentType() string { return "application/cbor" }

func (self CBOR) Marshal(doc interface{}) ([]byte, error) {
	return self.enc.Marshal(doc)
}

func (self CBOR) Unmarshal(b []byte) (interface{}, error) {
	var doc interface{}
	if err := self.dec.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
