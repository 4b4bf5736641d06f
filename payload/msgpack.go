package payload

import "github.com/vmihailenco/msgpack/v5"

// Msgpack decodes maps as map[string]interface{}.
type Msgpack struct{}

func (Msgpack) Name() string        { return "msgpack" }
func (Msgpack) ContentType() string { return "application/msgpack" }

func (Msgpack) Marshal(doc interface{}) ([]byte, error) {
	return msgpack.Marshal(doc)
}

func (Msgpack) Unmarshal(b []byte) (interface{}, error) {
	var doc interface{}
	if err := msgpack.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
