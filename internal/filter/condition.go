package filter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// Condition names a predicate family used to filter records.
// The set is closed; every member has a registered predicate.
type Condition string

const (
	Equals                            Condition = "equals"
	NotEquals                         Condition = "not_equals"
	Contains                          Condition = "contains"
	NotContains                       Condition = "not_contains"
	LessThan                          Condition = "less_than"
	LessThanEquals                    Condition = "less_than_equals"
	GreaterThan                       Condition = "greater_than"
	GreaterThanEquals                 Condition = "greater_than_equals"
	LexicographicallyLessThan         Condition = "lexicographically_less_than"
	LexicographicallyGreaterThan      Condition = "lexicographically_greater_than"
	StartsWith                        Condition = "starts_with"
	EndsWith                          Condition = "ends_with"
	LexicographicallyLessThanField    Condition = "lexicographically_less_than_field"
	LexicographicallyGreaterThanField Condition = "lexicographically_greater_than_field"
	True                              Condition = "true"
	False                             Condition = "false"
	ExactLength                       Condition = "exact_length"
	MinLength                         Condition = "min_length"
	MaxLength                         Condition = "max_length"
	AverageEquals                     Condition = "average_equals"
	AverageLess                       Condition = "average_less"
	AverageGreater                    Condition = "average_greater"
)

var allConditions = []Condition{
	Equals, NotEquals,
	Contains, NotContains,
	LessThan, LessThanEquals, GreaterThan, GreaterThanEquals,
	LexicographicallyLessThan, LexicographicallyGreaterThan,
	StartsWith, EndsWith,
	LexicographicallyLessThanField, LexicographicallyGreaterThanField,
	True, False,
	ExactLength, MinLength, MaxLength,
	AverageEquals, AverageLess, AverageGreater,
}

// ErrUnknownCondition is returned by ParseCondition for names outside the set.
var ErrUnknownCondition = errors.New("unknown condition")

// Conditions returns every condition in declaration order.
func Conditions() []Condition {
	return slices.Clone(allConditions)
}

// Valid reports whether c is a member of the condition set.
func (c Condition) Valid() bool {
	return slices.Contains(allConditions, c)
}

// ParseCondition returns the condition named name.
func ParseCondition(name string) (Condition, error) {
	c := Condition(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCondition, name)
	}
	return c, nil
}

// ConditionsFor returns the conditions offered for a field of the given kind.
// Mixed and empty fields offer none.
func ConditionsFor(kind dataset.Kind) []Condition {
	switch kind {
	case dataset.KindSequence:
		return []Condition{ExactLength, MinLength, MaxLength, AverageEquals, AverageGreater, AverageLess}
	case dataset.KindBoolean:
		return []Condition{True, False}
	case dataset.KindNumeric:
		return []Condition{LessThan, LessThanEquals, Equals, GreaterThan, GreaterThanEquals, NotEquals}
	case dataset.KindString:
		return []Condition{
			Equals, NotEquals, Contains, NotContains,
			LexicographicallyLessThan, LexicographicallyGreaterThan,
			StartsWith, EndsWith,
			LexicographicallyLessThanField, LexicographicallyGreaterThanField,
		}
	default:
		return nil
	}
}

// Spec is a fully typed filter request.
type Spec struct {
	Field     string
	Condition Condition
	Value     value.Value
}
