package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// ErrBadLiteral is returned when a comparison value cannot be read as the
// type a condition needs.
var ErrBadLiteral = errors.New("invalid comparison value")

// ParseLiteral converts the text a user typed into the comparison value for
// cond, using the field's kind where the condition applies to several kinds.
func ParseLiteral(cond Condition, kind dataset.Kind, raw string) (value.Value, error) {
	switch cond {
	case True:
		return value.Bool(true), nil
	case False:
		return value.Bool(false), nil

	case ExactLength, MinLength, MaxLength:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s needs an integer, got %q", ErrBadLiteral, cond, raw)
		}
		return value.Int(n), nil

	case AverageEquals, AverageLess, AverageGreater:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s needs a number, got %q", ErrBadLiteral, cond, raw)
		}
		return value.Float(f), nil

	case LessThan, LessThanEquals, GreaterThan, GreaterThanEquals:
		switch kind {
		case dataset.KindString:
			return value.String(raw), nil
		case dataset.KindBoolean:
			b, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: %s needs a boolean, got %q", ErrBadLiteral, cond, raw)
			}
			return value.Bool(b), nil
		case dataset.KindSequence:
			if seq, ok := value.ParseSeq(raw); ok {
				return seq, nil
			}
			return nil, fmt.Errorf("%w: %s needs a list, got %q", ErrBadLiteral, cond, raw)
		}
		if n, ok := value.ParseNumber(raw); ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: %s needs a number, got %q", ErrBadLiteral, cond, raw)

	case Equals, NotEquals:
		return typedOrString(kind, raw), nil

	case Contains, NotContains:
		if kind == dataset.KindSequence {
			if n, ok := value.ParseNumber(raw); ok {
				return n, nil
			}
			return nil, fmt.Errorf("%w: %s on a list needs a number, got %q", ErrBadLiteral, cond, raw)
		}
		return value.String(raw), nil

	default:
		// Text conditions, including the field-to-field ones whose value is a field name.
		return value.String(raw), nil
	}
}

// typedOrString reads raw as the field's kind, keeping the text when it does
// not parse (an unparsable value simply matches nothing).
func typedOrString(kind dataset.Kind, raw string) value.Value {
	switch kind {
	case dataset.KindNumeric:
		if n, ok := value.ParseNumber(raw); ok {
			return n
		}
	case dataset.KindBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return value.Bool(b)
		}
	case dataset.KindSequence:
		if seq, ok := value.ParseSeq(raw); ok {
			return seq
		}
	}
	return value.String(raw)
}
