package dataset

import (
	"github.com/roach88/sieve/internal/value"
)

// Kind is the homogeneous type of a field across a dataset.
type Kind int

const (
	// KindEmpty means no record carries a non-null value for the field.
	KindEmpty Kind = iota
	KindBoolean
	KindNumeric
	KindSequence
	KindString
	// KindMixed means the field's values do not share one classification.
	KindMixed
)

var kindNames = map[Kind]string{
	KindEmpty:    "empty",
	KindBoolean:  "boolean",
	KindNumeric:  "numeric",
	KindSequence: "sequence",
	KindString:   "string",
	KindMixed:    "mixed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classify returns the kind of field across ds. Records lacking the field,
// or holding null for it, are skipped. Classification order is boolean,
// numeric, sequence, string; anything else is mixed.
func Classify(ds Dataset, field string) Kind {
	return classifyValues(ds.Values(field))
}

func classifyValues(vals []value.Value) Kind {
	if len(vals) == 0 {
		return KindEmpty
	}
	switch {
	case all(vals, isBool):
		return KindBoolean
	case all(vals, value.IsNumber):
		return KindNumeric
	case all(vals, isSeq):
		return KindSequence
	case all(vals, isString):
		return KindString
	default:
		return KindMixed
	}
}

func all(vals []value.Value, pred func(value.Value) bool) bool {
	for _, v := range vals {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isBool(v value.Value) bool   { return value.KindOf(v) == value.KindBool }
func isSeq(v value.Value) bool    { return value.KindOf(v) == value.KindSeq }
func isString(v value.Value) bool { return value.KindOf(v) == value.KindString }

// Schema maps each field of a dataset's first record to its kind.
type Schema struct {
	Fields []string
	Kinds  map[string]Kind
}

// Infer classifies every field of the first record of ds.
func Infer(ds Dataset) Schema {
	fields := ds.Fields()
	s := Schema{
		Fields: fields,
		Kinds:  make(map[string]Kind, len(fields)),
	}
	for _, f := range fields {
		s.Kinds[f] = Classify(ds, f)
	}
	return s
}

// Kind returns the kind of field, or KindEmpty if the schema lacks it.
func (s Schema) Kind(field string) Kind {
	return s.Kinds[field]
}
