package partner

import (
	"bytes"
	"encoding/json"
)

// Attribute is a single key/value entry of an Attributes bag.
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an insertion-ordered string map. The zero value is an empty
// bag ready to use.
type Attributes struct {
	keys   []string
	values map[string]string
}

// NewAttributes builds a bag from alternating key, value pairs. A trailing
// key without a value is ignored.
func NewAttributes(pairs ...string) Attributes {
	var a Attributes
	for i := 0; i+1 < len(pairs); i += 2 {
		a.Set(pairs[i], pairs[i+1])
	}
	return a
}

// Set stores value under key. An existing key keeps its position.
func (a *Attributes) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, exists := a.values[key]; !exists {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value stored under key and whether it was present.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Value returns the value stored under key or the empty string.
func (a Attributes) Value(key string) string {
	return a.values[key]
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Delete removes key. It reports whether the key was present.
func (a *Attributes) Delete(key string) bool {
	if _, ok := a.values[key]; !ok {
		return false
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i:i], a.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (a Attributes) Len() int {
	return len(a.keys)
}

// Keys returns the keys in insertion order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Entries returns the entries in insertion order.
func (a Attributes) Entries() []Attribute {
	out := make([]Attribute, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, Attribute{Key: k, Value: a.values[k]})
	}
	return out
}

// Merge copies every entry of other into a, in other's order. Entries of
// other win over existing entries with the same key.
func (a *Attributes) Merge(other Attributes) {
	for _, k := range other.keys {
		a.Set(k, other.values[k])
	}
}

// Clone returns an independent copy of the bag.
func (a Attributes) Clone() Attributes {
	var c Attributes
	c.Merge(a)
	return c
}

// Map returns the entries as a plain map.
func (a Attributes) Map() map[string]string {
	out := make(map[string]string, len(a.keys))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both bags hold the same entries in the same order.
func (a Attributes) Equal(b Attributes) bool {
	if len(a.keys) != len(b.keys) {
		return false
	}
	for i, k := range a.keys {
		if b.keys[i] != k || b.values[k] != a.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the bag as a JSON object with keys in insertion order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
