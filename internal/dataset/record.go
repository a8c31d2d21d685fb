package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/sieve/internal/value"
)

// Record is one row: an ordered mapping from field name to value.
// Field order is the order fields were first set and is preserved by every
// codec. Records are treated as immutable once a dataset is loaded.
type Record struct {
	keys   []string
	values map[string]value.Value
}

// Field is a key-value pair for Record construction.
type Field struct {
	Key   string
	Value value.Value
}

// F is a shorthand for Field.
// Example: NewRecord(F("name", value.String("Alice")), F("age", value.Int(30)))
func F(key string, v value.Value) Field {
	return Field{Key: key, Value: v}
}

// NewRecord creates a Record from fields in order.
// A repeated key keeps its first position and its last value.
func NewRecord(fields ...Field) Record {
	r := Record{values: make(map[string]value.Value, len(fields))}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set assigns v to key, appending key to the field order if it is new.
func (r *Record) Set(key string, v value.Value) {
	if r.values == nil {
		r.values = make(map[string]value.Value)
	}
	if v == nil {
		v = value.Null{}
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value of key and whether the record has the field.
func (r Record) Get(key string) (value.Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether the record has the field.
func (r Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Fields returns the field names in order.
func (r Record) Fields() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Equal reports whether both records have the same fields in the same order
// with equal values.
func (r Record) Equal(other Record) bool {
	if len(r.keys) != len(other.keys) {
		return false
	}
	for i, k := range r.keys {
		if other.keys[i] != k {
			return false
		}
		if !value.Equal(r.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// String renders the record for display, e.g. {name: Alice, age: 30}.
func (r Record) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %s", k, value.Text(r.values[k]))
	}
	buf.WriteByte('}')
	return buf.String()
}

// MarshalJSON implements json.Marshaler, writing fields in record order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := value.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the document's key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	rec, err := decodeRecord(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// decodeRecord reads one JSON object from dec, preserving key order.
// dec must have UseNumber enabled.
func decodeRecord(dec *json.Decoder) (Record, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return Record{}, err
	}

	rec := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, fmt.Errorf("expected object key, got %v", tok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return Record{}, fmt.Errorf("field %q: %w", key, err)
		}
		v, err := value.FromAny(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, v)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
