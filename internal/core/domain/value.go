package domain

import (
	"bytes"
	"encoding/json"
)

// Value is one attribute value kept as the exact JSON bytes it was read
// from. Values nobody rewrites are written back byte-for-byte.
type Value struct {
	raw []byte
}

// NewValue encodes v as a Value. Markup characters are not escaped.
func NewValue(v any) (Value, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return Value{}, err
	}
	return Value{raw: bytes.TrimSuffix(buf.Bytes(), []byte("\n"))}, nil
}

// MustValue is NewValue for values that always encode (strings, numbers,
// maps of those). It panics on encoding failure.
func MustValue(v any) Value {
	val, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return val
}

// StringValue returns a Value holding s as a JSON string.
func StringValue(s string) Value {
	return MustValue(s)
}

// RawValue wraps already-encoded JSON. The bytes are copied.
func RawValue(b []byte) Value {
	return Value{raw: bytes.Clone(b)}
}

// Raw returns a copy of the encoded bytes.
func (v Value) Raw() []byte {
	return bytes.Clone(v.raw)
}

// IsZero reports whether the value holds no bytes at all.
func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// IsString reports whether the value is a JSON string.
func (v Value) IsString() bool {
	t := bytes.TrimLeft(v.raw, " \t\r\n")
	return len(t) > 0 && t[0] == '"'
}

// AsString decodes a JSON string value.
func (v Value) AsString() (string, bool) {
	if !v.IsString() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Decode unmarshals the value into dst.
func (v Value) Decode(dst any) error {
	if v.IsZero() {
		return json.Unmarshal([]byte("null"), dst)
	}
	return json.Unmarshal(v.raw, dst)
}

// Equal reports byte equality.
func (v Value) Equal(o Value) bool {
	return bytes.Equal(v.raw, o.raw)
}

// Clone returns a Value that shares no memory with v.
func (v Value) Clone() Value {
	return Value{raw: bytes.Clone(v.raw)}
}

// String returns the encoded form, for diagnostics.
func (v Value) String() string {
	if v.IsZero() {
		return "null"
	}
	return string(v.raw)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	return bytes.Clone(v.raw), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = bytes.Clone(b)
	return nil
}
