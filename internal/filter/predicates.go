package filter

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// Predicate reports whether rec satisfies a condition on field with argument arg.
type Predicate func(rec dataset.Record, field string, arg value.Value) (bool, error)

var (
	// ErrEmptySequence is returned when an average is taken over an empty
	// sequence. It is the division-by-zero failure and is never guarded.
	ErrEmptySequence = errors.New("average of empty sequence")

	// ErrKindMismatch is returned when a condition is applied to a value of a
	// kind it does not support (e.g. starts_with on a number).
	ErrKindMismatch = errors.New("condition does not apply to value kind")
)

// builtinPredicates returns the predicate for every condition.
func builtinPredicates() map[Condition]Predicate {
	return map[Condition]Predicate{
		Equals:      equals,
		NotEquals:   negate(equals),
		Contains:    contains,
		NotContains: negate(contains),

		LessThan:          ordering(func(c int) bool { return c < 0 }),
		LessThanEquals:    ordering(func(c int) bool { return c <= 0 }),
		GreaterThan:       ordering(func(c int) bool { return c > 0 }),
		GreaterThanEquals: ordering(func(c int) bool { return c >= 0 }),

		LexicographicallyLessThan:    lexical(func(a, b string) bool { return a < b }),
		LexicographicallyGreaterThan: lexical(func(a, b string) bool { return a > b }),
		StartsWith:                   lexical(strings.HasPrefix),
		EndsWith:                     lexical(strings.HasSuffix),

		LexicographicallyLessThanField:    fieldLexical(func(a, b string) bool { return a < b }),
		LexicographicallyGreaterThanField: fieldLexical(func(a, b string) bool { return a > b }),

		True:  boolIs(true),
		False: boolIs(false),

		ExactLength: length(func(n, want int64) bool { return n == want }),
		MinLength:   length(func(n, want int64) bool { return n >= want }),
		MaxLength:   length(func(n, want int64) bool { return n <= want }),

		AverageEquals:  average(func(avg, want float64) bool { return avg == want }),
		AverageLess:    average(func(avg, want float64) bool { return avg < want }),
		AverageGreater: average(func(avg, want float64) bool { return avg > want }),
	}
}

func negate(p Predicate) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		ok, err := p(rec, field, arg)
		return !ok, err
	}
}

// equals matches exact values; a record without the field never equals.
func equals(rec dataset.Record, field string, arg value.Value) (bool, error) {
	v, ok := rec.Get(field)
	if !ok {
		return false, nil
	}
	return value.Equal(v, arg), nil
}

// contains is a substring test on strings and a membership test on sequences.
// A missing field is the empty string.
func contains(rec dataset.Record, field string, arg value.Value) (bool, error) {
	v := getOr(rec, field, value.String(""))
	switch fv := v.(type) {
	case value.String:
		return strings.Contains(string(fv), value.Text(arg)), nil
	case value.Seq:
		for _, elem := range fv {
			if value.Equal(elem, arg) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: contains on %s", ErrKindMismatch, value.KindOf(v))
	}
}

// ordering compares the raw field value with arg. A missing field compares
// as null and fails with value.ErrIncomparable.
func ordering(accept func(int) bool) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		v := getOr(rec, field, value.Null{})
		c, err := value.Compare(v, arg)
		if err != nil {
			return false, err
		}
		return accept(c), nil
	}
}

// lexical compares the case-folded field text with the case-folded argument.
func lexical(accept func(a, b string) bool) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		s, err := stringOf(getOr(rec, field, value.String("")))
		if err != nil {
			return false, err
		}
		return accept(fold(s), fold(value.Text(arg))), nil
	}
}

// fieldLexical compares field with the field named by arg on the same record.
func fieldLexical(accept func(a, b string) bool) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		left, err := stringOf(getOr(rec, field, value.String("")))
		if err != nil {
			return false, err
		}
		right, err := stringOf(getOr(rec, value.Text(arg), value.String("")))
		if err != nil {
			return false, err
		}
		return accept(fold(left), fold(right)), nil
	}
}

// boolIs matches the exact boolean, not truthiness.
func boolIs(want bool) Predicate {
	return func(rec dataset.Record, field string, _ value.Value) (bool, error) {
		v, ok := rec.Get(field)
		if !ok {
			return false, nil
		}
		b, isBool := v.(value.Bool)
		return isBool && bool(b) == want, nil
	}
}

// length compares the length of a sequence (or the rune count of a string)
// with an Int argument. A missing field is the empty sequence.
func length(accept func(n, want int64) bool) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		want, ok := arg.(value.Int)
		if !ok {
			return false, fmt.Errorf("%w: length needs an integer, got %s", ErrBadLiteral, value.KindOf(arg))
		}
		v := getOr(rec, field, value.Seq{})
		var n int
		switch fv := v.(type) {
		case value.Seq:
			n = len(fv)
		case value.String:
			n = utf8.RuneCountInString(string(fv))
		default:
			return false, fmt.Errorf("%w: length of %s", ErrKindMismatch, value.KindOf(v))
		}
		return accept(int64(n), int64(want)), nil
	}
}

// average compares the arithmetic mean of a sequence with a numeric argument.
// A missing field is the empty sequence, which fails with ErrEmptySequence.
func average(accept func(avg, want float64) bool) Predicate {
	return func(rec dataset.Record, field string, arg value.Value) (bool, error) {
		want, ok := value.AsFloat(arg)
		if !ok {
			return false, fmt.Errorf("%w: average needs a number, got %s", ErrBadLiteral, value.KindOf(arg))
		}
		v := getOr(rec, field, value.Seq{})
		seq, ok := v.(value.Seq)
		if !ok {
			return false, fmt.Errorf("%w: average of %s", ErrKindMismatch, value.KindOf(v))
		}
		if len(seq) == 0 {
			return false, ErrEmptySequence
		}
		return accept(seq.Sum()/float64(len(seq)), want), nil
	}
}

func getOr(rec dataset.Record, field string, def value.Value) value.Value {
	if v, ok := rec.Get(field); ok {
		return v
	}
	return def
}

func stringOf(v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("%w: text comparison on %s", ErrKindMismatch, value.KindOf(v))
	}
	return string(s), nil
}

// fold returns the case-folded form of s for case-insensitive comparison.
// A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
