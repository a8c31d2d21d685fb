package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/sieve/internal/value"
)

// Dataset is an ordered sequence of records. Records are expected, but not
// required, to share the same fields.
type Dataset []Record

// Fields returns the field names of the first record, or nil for an empty dataset.
func (ds Dataset) Fields() []string {
	if len(ds) == 0 {
		return nil
	}
	return ds[0].Fields()
}

// FieldUnion returns every field name in the dataset, in order of first appearance.
func (ds Dataset) FieldUnion() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, rec := range ds {
		for _, k := range rec.keys {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	return fields
}

// Clone returns a new slice holding the same records.
func (ds Dataset) Clone() Dataset {
	if ds == nil {
		return nil
	}
	out := make(Dataset, len(ds))
	copy(out, ds)
	return out
}

// Equal reports whether both datasets hold equal records in the same order.
func (ds Dataset) Equal(other Dataset) bool {
	if len(ds) != len(other) {
		return false
	}
	for i := range ds {
		if !ds[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// Values collects the non-null values of field across records that have it.
func (ds Dataset) Values(field string) []value.Value {
	vals := make([]value.Value, 0, len(ds))
	for _, rec := range ds {
		v, ok := rec.Get(field)
		if !ok || value.KindOf(v) == value.KindNull {
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// Normalize returns a copy of ds with value.Normalize applied to every value.
func Normalize(ds Dataset) Dataset {
	out := make(Dataset, len(ds))
	for i, rec := range ds {
		n := NewRecord()
		for _, k := range rec.keys {
			n.Set(k, value.Normalize(rec.values[k]))
		}
		out[i] = n
	}
	return out
}

// DecodeJSON reads a JSON array of objects, preserving key order.
func DecodeJSON(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	ds := Dataset{}
	for dec.More() {
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("decode dataset: record %d: %w", len(ds), err)
		}
		ds = append(ds, rec)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return ds, nil
}
