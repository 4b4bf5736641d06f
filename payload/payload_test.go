package payload

import (
	"errors"
	"reflect"
	"testing"
)

func document() map[string]interface{} {
	return map[string]interface{}{
		"segment": "héllo <world>",
		"final":   true,
		"parts":   []interface{}{"a", "b"},
		"meta":    map[string]interface{}{"sender": "anna"},
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "cbor", "text", "raw"} {
		format, err := ByName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if format.Name() != name {
			t.Errorf("expected %s, got %s", name, format.Name())
		}
		if format.ContentType() == "" {
			t.Errorf("%s: empty content type", name)
		}
	}
	if format, err := ByName(""); err != nil || format.Name() != "json" {
		t.Errorf("empty name should default to json, got %v, %v", format, err)
	}
	if _, err := ByName("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestDocumentFormatsRoundTrip(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "cbor"} {
		t.Run(name, func(t *testing.T) {
			format, err := ByName(name)
			if err != nil {
				t.Fatal(err)
			}
			b, err := format.Marshal(document())
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			doc, err := format.Unmarshal(b)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual(doc, interface{}(document())) {
				t.Errorf("round trip failed: expected %v, got %v", document(), doc)
			}
		})
	}
}

func TestJSONKeepsText(t *testing.T) {
	b, err := JSON{}.Marshal(map[string]interface{}{"s": "<é>"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"s":"<é>"}` {
		t.Errorf("unexpected encoding %s", b)
	}
}

func TestJSONRejects(t *testing.T) {
	if _, err := (JSON{}).Unmarshal([]byte{'"', 0xff, '"'}); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
	if _, err := (JSON{}).Unmarshal([]byte(`{"a":`)); err == nil {
		t.Error("expected an error for truncated JSON")
	}
	if _, err := (JSON{}).Unmarshal([]byte(`{"a":1}x`)); err == nil {
		t.Error("expected an error for trailing data")
	}
	if _, err := (JSON{}).Unmarshal(nil); err == nil {
		t.Error("expected an error for an empty payload")
	}
}

func TestBinaryFormatsReject(t *testing.T) {
	cbor, _ := NewCBOR()
	if _, err := cbor.Unmarshal([]byte{0xff}); err == nil {
		t.Error("cbor accepted a lone break byte")
	}
	if _, err := (Msgpack{}).Unmarshal([]byte{0xc1}); err == nil {
		t.Error("msgpack accepted the never-used byte")
	}
}

func TestTextAndRaw(t *testing.T) {
	b, err := Text{}.Marshal("ack 7")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Text{}.Unmarshal(b)
	if err != nil || doc != "ack 7" {
		t.Errorf("text round trip: %v, %v", doc, err)
	}
	if _, err := (Text{}).Unmarshal([]byte{0xc3}); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
	if _, err := (Text{}).Marshal(42); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}

	raw, err := Raw{}.Unmarshal([]byte{0xff, 0x00})
	if err != nil || !reflect.DeepEqual(raw, []byte{0xff, 0x00}) {
		t.Errorf("raw round trip: %v, %v", raw, err)
	}
	if _, err := (Raw{}).Marshal(3.5); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestLimit(t *testing.T) {
	limited := Limit{Inner: Text{}, Max: 4}
	if _, err := limited.Marshal("hello"); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge on marshal, got %v", err)
	}
	if _, err := limited.Unmarshal([]byte("hello")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge on unmarshal, got %v", err)
	}
	if doc, err := limited.Unmarshal([]byte("hey")); err != nil || doc != "hey" {
		t.Errorf("small payload rejected: %v, %v", doc, err)
	}
	unlimited := Limit{Inner: Text{}}
	if _, err := unlimited.Marshal("a long enough text"); err != nil {
		t.Errorf("Max 0 should disable the check: %v", err)
	}
	if limited.Name() != "text" {
		t.Errorf("Limit should report the inner name, got %s", limited.Name())
	}
}
