package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/sorting"
	"github.com/roach88/sieve/internal/value"
)

// Kind identifies what an action did.
type Kind string

const (
	KindLoad   Kind = "load"
	KindFilter Kind = "filter"
	KindSort   Kind = "sort"
	KindReset  Kind = "reset"
)

// Action is one committed step in a session's history. Only the fields
// relevant to Kind are set.
type Action struct {
	Seq       int64
	Kind      Kind
	Field     string
	Condition filter.Condition
	Value     value.Value
	Order     sorting.Order
	Source    string // load only
}

// Filter builds an uncommitted filter action.
func Filter(field string, cond filter.Condition, arg value.Value) Action {
	return Action{Kind: KindFilter, Field: field, Condition: cond, Value: arg}
}

// Sort builds an uncommitted sort action.
func Sort(field string, order sorting.Order) Action {
	return Action{Kind: KindSort, Field: field, Order: order}
}

// Spec returns the filter described by a filter action.
func (a Action) Spec() filter.Spec {
	return filter.Spec{Field: a.Field, Condition: a.Condition, Value: a.Value}
}

// String renders the action as a history line.
func (a Action) String() string {
	switch a.Kind {
	case KindLoad:
		return fmt.Sprintf("load %s", a.Source)
	case KindFilter:
		if a.Condition == filter.True || a.Condition == filter.False {
			return fmt.Sprintf("filter %s %s", a.Field, a.Condition)
		}
		return fmt.Sprintf("filter %s %s %s", a.Field, a.Condition, value.Text(a.Value))
	case KindSort:
		return fmt.Sprintf("sort %s %s", a.Field, a.Order)
	}
	return string(a.Kind)
}

type actionJSON struct {
	Seq       int64            `json:"seq"`
	Kind      Kind             `json:"kind"`
	Field     string           `json:"field,omitempty"`
	Condition filter.Condition `json:"condition,omitempty"`
	Value     json.RawMessage  `json:"value,omitempty"`
	Order     sorting.Order    `json:"order,omitempty"`
	Source    string           `json:"source,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (a Action) MarshalJSON() ([]byte, error) {
	aj := actionJSON{
		Seq:       a.Seq,
		Kind:      a.Kind,
		Field:     a.Field,
		Condition: a.Condition,
		Order:     a.Order,
		Source:    a.Source,
	}
	if a.Value != nil {
		b, err := value.Marshal(a.Value)
		if err != nil {
			return nil, fmt.Errorf("action %d value: %w", a.Seq, err)
		}
		aj.Value = b
	}
	return json.Marshal(aj)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(data []byte) error {
	var aj actionJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	*a = Action{
		Seq:       aj.Seq,
		Kind:      aj.Kind,
		Field:     aj.Field,
		Condition: aj.Condition,
		Order:     aj.Order,
		Source:    aj.Source,
	}
	if len(aj.Value) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(aj.Value))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("action %d value: %w", aj.Seq, err)
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return fmt.Errorf("action %d value: %w", aj.Seq, err)
	}
	a.Value = v
	return nil
}
