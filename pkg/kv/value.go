package kv

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var nullJSON = json.RawMessage("null")

// Value is a schema-less payload: a string, number, bool, null, array or
// object. It is held in canonical JSON form (object keys sorted, numbers as
// float64) so two Values holding the same data compare equal.
//
// The zero Value is absent, which is not the same thing as JSON null.
type Value struct {
	data json.RawMessage
}

// Absent returns the absent Value. It equals Value{}.
func Absent() Value { return Value{} }

// Null returns a Value holding JSON null.
func Null() Value { return Value{data: nullJSON} }

// String returns a Value holding s.
func String(s string) Value { return Must(s) }

// Bool returns a Value holding b.
func Bool(b bool) Value { return Must(b) }

// Number returns a Value holding f. It panics if f is NaN or infinite.
func Number(f float64) Value { return Must(f) }

// ValueOf converts any JSON-marshalable Go value into a Value.
func ValueOf(v any) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return Parse(raw)
}

// Must is like ValueOf but panics on error.
func Must(v any) Value {
	val, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Parse builds a Value from raw JSON text.
func Parse(raw []byte) (Value, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return Value{data: canonical}, nil
}

// IsAbsent reports whether v holds nothing at all.
func (v Value) IsAbsent() bool { return v.data == nil }

// IsNull reports whether v holds JSON null.
func (v Value) IsNull() bool { return bytes.Equal(v.data, nullJSON) }

// Equal reports whether v and other hold the same data.
// Absent is only equal to absent.
func (v Value) Equal(other Value) bool {
	if v.IsAbsent() || other.IsAbsent() {
		return v.IsAbsent() && other.IsAbsent()
	}
	return bytes.Equal(v.data, other.data)
}

// Raw returns a copy of the canonical JSON encoding, or nil if v is absent.
func (v Value) Raw() json.RawMessage {
	if v.data == nil {
		return nil
	}
	return append(json.RawMessage(nil), v.data...)
}

// Decode unmarshals the payload into dst.
func (v Value) Decode(dst any) error {
	if v.IsAbsent() {
		return ErrAbsentValue
	}
	return json.Unmarshal(v.data, dst)
}

// AsString returns the payload if it is a JSON string.
func (v Value) AsString() (string, bool) {
	var s string
	if len(v.data) == 0 || v.data[0] != '"' {
		return "", false
	}
	if err := json.Unmarshal(v.data, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsNumber returns the payload if it is a JSON number.
func (v Value) AsNumber() (float64, bool) {
	var f float64
	if len(v.data) == 0 {
		return 0, false
	}
	if c := v.data[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	if err := json.Unmarshal(v.data, &f); err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) String() string {
	if v.IsAbsent() {
		return "<absent>"
	}
	return string(v.data)
}

// MarshalJSON encodes the payload. An absent Value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsAbsent() {
		return nullJSON, nil
	}
	return v.data, nil
}

// UnmarshalJSON decodes and canonicalizes the payload. JSON null decodes to
// Null(), never to absent.
func (v *Value) UnmarshalJSON(raw []byte) error {
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
