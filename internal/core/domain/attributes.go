package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Attributes is an insertion-ordered mapping from setting key to Value.
// Key order is part of the document and survives every transform pass
// that does not rewrite the key.
//
// A nil *Attributes behaves as an empty, read-only mapping.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// NewAttributes creates an empty mapping.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]Value)}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (a *Attributes) Set(key string, value Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	v, ok := a.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "" when the key is
// absent or not a JSON string.
func (a *Attributes) GetString(key string) string {
	v, ok := a.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Delete removes key. Removing an absent key is a no-op.
func (a *Attributes) Delete(key string) {
	if a == nil {
		return
	}
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	if i := slices.Index(a.keys, key); i >= 0 {
		a.keys = slices.Delete(a.keys, i, i+1)
	}
}

// Keys returns the keys in order. The slice is a copy.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// Len returns the number of keys.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Each calls fn for every key in order.
func (a *Attributes) Each(fn func(key string, value Value)) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}

// Clone returns a deep copy. Cloning nil yields nil.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	c := &Attributes{
		keys:   slices.Clone(a.keys),
		values: make(map[string]Value, len(a.values)),
	}
	for k, v := range a.values {
		c.values[k] = v.Clone()
	}
	return c
}

// Equal reports whether both mappings hold the same keys in the same order
// with byte-identical values. nil equals an empty mapping.
func (a *Attributes) Equal(o *Attributes) bool {
	if a.Len() != o.Len() {
		return false
	}
	for i, k := range a.Keys() {
		if o.keys[i] != k {
			return false
		}
		if !a.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the mapping as a JSON object in key order with every
// value emitted as stored.
func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON appends the object encoding to buf without re-encoding values.
func (a *Attributes) WriteJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONKey(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		v := a.values[k]
		if v.IsZero() {
			buf.WriteString("null")
			continue
		}
		buf.Write(v.raw)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON reads a JSON object keeping the source key order.
// A repeated key keeps its first position and its last value.
func (a *Attributes) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: attributes must be a JSON object", ErrInvalidInput)
	}
	a.keys = nil
	a.values = make(map[string]Value)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrInvalidInput, tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		a.Set(key, Value{raw: bytes.Clone(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// ParseAttributes decodes a JSON object into ordered attributes.
func ParseAttributes(b []byte) (*Attributes, error) {
	a := NewAttributes()
	if err := a.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return a, nil
}

// writeJSONKey encodes key as a JSON string without HTML escaping, so keys
// round-trip exactly.
func writeJSONKey(buf *bytes.Buffer, key string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
