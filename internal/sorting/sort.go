// Package sorting reorders datasets by the value of one field.
package sorting

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// Order names a sort direction. Several names exist so that each field kind
// gets labels that read naturally; they collapse to two directions.
type Order string

const (
	Ascending   Order = "ascending"
	Descending  Order = "descending"
	AToZ        Order = "a_to_z"
	ZToA        Order = "z_to_a"
	FalseToTrue Order = "false_to_true"
	TrueToFalse Order = "true_to_false"
)

// ErrMissingField is returned when a record lacks the sort field.
var ErrMissingField = errors.New("record has no such field")

// ParseOrder maps a name to an Order. Unknown names sort ascending.
func ParseOrder(name string) Order {
	switch o := Order(name); o {
	case Ascending, Descending, AToZ, ZToA, FalseToTrue, TrueToFalse:
		return o
	}
	return Ascending
}

// Descending reports whether o sorts from high to low.
func (o Order) Descending() bool {
	return o == Descending || o == ZToA || o == TrueToFalse
}

// OrdersFor returns the orders offered for a field of the given kind.
func OrdersFor(kind dataset.Kind) []Order {
	switch kind {
	case dataset.KindNumeric, dataset.KindSequence:
		return []Order{Ascending, Descending}
	case dataset.KindBoolean:
		return []Order{FalseToTrue, TrueToFalse}
	case dataset.KindString:
		return []Order{AToZ, ZToA}
	}
	return nil
}

// Sort returns a new dataset ordered by field. The sort is stable in both
// directions: records with equal keys keep their relative order. ds is not
// modified.
func Sort(ds dataset.Dataset, field string, order Order) (dataset.Dataset, error) {
	for i, rec := range ds {
		if !rec.Has(field) {
			return nil, fmt.Errorf("sort %s: record %d: %w", field, i, ErrMissingField)
		}
	}

	out := ds.Clone()
	if out == nil {
		out = dataset.Dataset{}
	}
	desc := order.Descending()

	var cmpErr error
	slices.SortStableFunc(out, func(a, b dataset.Record) int {
		if cmpErr != nil {
			return 0
		}
		av, _ := a.Get(field)
		bv, _ := b.Get(field)
		c, err := value.Compare(av, bv)
		if err != nil {
			cmpErr = err
			return 0
		}
		if desc {
			return -c
		}
		return c
	})
	if cmpErr != nil {
		return nil, fmt.Errorf("sort %s: %w", field, cmpErr)
	}
	return out, nil
}
