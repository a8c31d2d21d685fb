// Package stats computes per-field summary statistics over a dataset.
//
// Each field of the first record is classified across the whole dataset
// (boolean, then numeric, then sequence). Records lacking the field, or
// holding null for it, are skipped. Booleans report true/false percentages;
// numbers report min, max and average; sequences are pooled across records
// and report the same over the pooled elements. Any other field gets a note
// instead of figures.
package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// UnsupportedNote is the note attached to fields that cannot be summarised.
const UnsupportedNote = "unsupported or mixed type"

var (
	// ErrEmptyDataset is returned when there is no first record to take fields from.
	ErrEmptyDataset = errors.New("statistics of empty dataset")

	// ErrNoValues is returned when a sequence field has nothing to average
	// because every sequence is empty. A field that is null in every record
	// gets UnsupportedNote instead.
	ErrNoValues = errors.New("no values to aggregate")
)

// FieldStats is the summary of one field. Which members are set depends on Kind.
type FieldStats struct {
	Field string
	Kind  dataset.Kind

	// Numeric and sequence fields.
	Min value.Value
	Max value.Value
	Avg float64

	// Boolean fields.
	TruePercentage  float64
	FalsePercentage float64

	// Set for fields of any other kind.
	Note string
}

// Result holds one FieldStats per field, in the first record's field order.
type Result []FieldStats

// Get returns the statistics for field.
func (r Result) Get(field string) (FieldStats, bool) {
	for _, fs := range r {
		if fs.Field == field {
			return fs, true
		}
	}
	return FieldStats{}, false
}

// Compute summarises every field of ds. String values such as "true" or
// "[1, 2]" are normalised before classification.
func Compute(ds dataset.Dataset) (Result, error) {
	if len(ds) == 0 {
		return nil, ErrEmptyDataset
	}
	ds = dataset.Normalize(ds)

	schema := dataset.Infer(ds)
	out := make(Result, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		fs, err := computeField(ds, field, schema.Kind(field))
		if err != nil {
			return nil, fmt.Errorf("statistics of %s: %w", field, err)
		}
		out = append(out, fs)
	}
	return out, nil
}

func computeField(ds dataset.Dataset, field string, kind dataset.Kind) (FieldStats, error) {
	vals := ds.Values(field)
	fs := FieldStats{Field: field, Kind: kind}

	switch kind {
	case dataset.KindBoolean:
		var trues int
		for _, v := range vals {
			if v.(value.Bool) {
				trues++
			}
		}
		fs.TruePercentage = float64(trues) / float64(len(vals)) * 100
		fs.FalsePercentage = float64(len(vals)-trues) / float64(len(vals)) * 100

	case dataset.KindNumeric:
		return summarise(fs, vals)

	case dataset.KindSequence:
		var pool []value.Value
		for _, v := range vals {
			pool = append(pool, v.(value.Seq)...)
		}
		return summarise(fs, pool)

	default:
		fs.Note = UnsupportedNote
	}
	return fs, nil
}

// summarise fills min, max and avg from a pool of numbers.
func summarise(fs FieldStats, pool []value.Value) (FieldStats, error) {
	if len(pool) == 0 {
		return fs, ErrNoValues
	}
	var sum float64
	lo, hi := pool[0], pool[0]
	for _, v := range pool {
		f, ok := value.AsFloat(v)
		if !ok {
			return fs, fmt.Errorf("%w: %s", value.ErrNotNumber, value.KindOf(v))
		}
		sum += f
		if c, _ := value.Compare(v, lo); c < 0 {
			lo = v
		}
		if c, _ := value.Compare(v, hi); c > 0 {
			hi = v
		}
	}
	fs.Min, fs.Max = lo, hi
	fs.Avg = sum / float64(len(pool))
	return fs, nil
}

// MarshalJSON renders the figures relevant to the field's kind.
func (fs FieldStats) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	write := func(first bool, key string, v value.Value) error {
		if !first {
			buf.WriteByte(',')
		}
		b, err := value.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "%q:", key)
		buf.Write(b)
		return nil
	}

	buf.WriteByte('{')
	var err error
	switch {
	case fs.Note != "":
		err = write(true, "note", value.String(fs.Note))
	case fs.Kind == dataset.KindBoolean:
		if err = write(true, "true_percentage", value.Float(fs.TruePercentage)); err == nil {
			err = write(false, "false_percentage", value.Float(fs.FalsePercentage))
		}
	default:
		if err = write(true, "min", fs.Min); err == nil {
			if err = write(false, "max", fs.Max); err == nil {
				err = write(false, "avg", value.Float(fs.Avg))
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("marshal statistics of %s: %w", fs.Field, err)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON renders the result as an object keyed by field name, in field order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fs := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fs.Field)
		if err != nil {
			return nil, err
		}
		body, err := fs.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
