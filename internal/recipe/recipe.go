// Package recipe reads, runs and writes recipes: ordered lists of filter,
// sort and reset steps that can be applied to any dataset in one pass.
//
// Recipes are written in YAML or CUE:
//
//	steps:
//	  - filter: {field: age, condition: greater_than, value: 30}
//	  - sort: {field: name, order: a_to_z}
//	  - reset: true
//
// Condition and order names are checked when the recipe is read, unlike the
// interactive filter command which passes unknown conditions through.
package recipe

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/sorting"
	"github.com/roach88/sieve/internal/value"
)

// ErrInvalidStep is returned for steps that are malformed or name an
// unknown condition or order.
var ErrInvalidStep = errors.New("invalid recipe step")

// Recipe is an ordered list of steps.
type Recipe struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step holds exactly one of Filter, Sort or Reset.
type Step struct {
	Filter *FilterStep `json:"filter,omitempty" yaml:"filter,omitempty"`
	Sort   *SortStep   `json:"sort,omitempty" yaml:"sort,omitempty"`
	Reset  bool        `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// FilterStep filters on one field. A string Value is read the way the
// filter command reads typed input, against the field's kind; any other
// Value is used as is.
type FilterStep struct {
	Field     string `json:"field" yaml:"field"`
	Condition string `json:"condition" yaml:"condition"`
	Value     any    `json:"value" yaml:"value"`
}

// SortStep sorts by one field.
type SortStep struct {
	Field string `json:"field" yaml:"field"`
	Order string `json:"order" yaml:"order"`
}

// Validate checks every step.
func (r *Recipe) Validate() error {
	for i, st := range r.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	n := 0
	if st.Filter != nil {
		n++
	}
	if st.Sort != nil {
		n++
	}
	if st.Reset {
		n++
	}
	if n != 1 {
		return fmt.Errorf("%w: want exactly one of filter, sort or reset", ErrInvalidStep)
	}

	switch {
	case st.Filter != nil:
		if st.Filter.Field == "" {
			return fmt.Errorf("%w: filter needs a field", ErrInvalidStep)
		}
		if _, err := filter.ParseCondition(st.Filter.Condition); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidStep, err)
		}
	case st.Sort != nil:
		if st.Sort.Field == "" {
			return fmt.Errorf("%w: sort needs a field", ErrInvalidStep)
		}
		if o := st.Sort.Order; o != "" && sorting.ParseOrder(o) != sorting.Order(o) {
			return fmt.Errorf("%w: unknown order %q", ErrInvalidStep, o)
		}
	}
	return nil
}

// Run applies the recipe to ds and returns the resulting session, whose
// history records every step. ds is not modified.
func Run(r *Recipe, source string, ds dataset.Dataset, logger *zap.Logger) (*session.Session, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sess := session.New("recipe", source, ds, session.WithLogger(logger))
	for i, st := range r.Steps {
		action, err := st.action(sess.Current())
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, err := sess.Commit(action); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, action, err)
		}
	}
	logger.Debug("recipe applied",
		zap.String("source", source),
		zap.Int("steps", len(r.Steps)),
		zap.Int("records", len(sess.Current())),
	)
	return sess, nil
}

// action converts the step into a session action. current is used to type a
// textual filter value.
func (st Step) action(current dataset.Dataset) (session.Action, error) {
	switch {
	case st.Reset:
		return session.Action{Kind: session.KindReset}, nil
	case st.Sort != nil:
		return session.Sort(st.Sort.Field, sorting.ParseOrder(st.Sort.Order)), nil
	}

	f := st.Filter
	cond, err := filter.ParseCondition(f.Condition)
	if err != nil {
		return session.Action{}, err
	}
	var arg value.Value
	switch raw := f.Value.(type) {
	case string:
		arg, err = filter.ParseLiteral(cond, dataset.Classify(current, f.Field), raw)
	case nil:
		arg, err = filter.ParseLiteral(cond, dataset.Classify(current, f.Field), "")
	default:
		arg, err = value.FromAny(raw)
	}
	if err != nil {
		return session.Action{}, fmt.Errorf("filter %s %s: %w", f.Field, cond, err)
	}
	return session.Filter(f.Field, cond, arg), nil
}

// FromHistory builds the recipe that reproduces a session's committed
// filters, sorts and resets.
func FromHistory(history []session.Action) *Recipe {
	r := &Recipe{Steps: []Step{}}
	for _, a := range history {
		switch a.Kind {
		case session.KindFilter:
			r.Steps = append(r.Steps, Step{Filter: &FilterStep{
				Field:     a.Field,
				Condition: string(a.Condition),
				Value:     plain(a.Value),
			}})
		case session.KindSort:
			r.Steps = append(r.Steps, Step{Sort: &SortStep{Field: a.Field, Order: string(a.Order)}})
		case session.KindReset:
			r.Steps = append(r.Steps, Step{Reset: true})
		}
	}
	return r
}

// plain converts a value to the Go type a YAML or JSON encoder writes natively.
func plain(v value.Value) any {
	switch val := v.(type) {
	case value.String:
		return string(val)
	case value.Int:
		return int64(val)
	case value.Float:
		return float64(val)
	case value.Bool:
		return bool(val)
	case value.Seq:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = plain(elem)
		}
		return out
	}
	return nil
}
