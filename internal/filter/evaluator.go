package filter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/dataset"
)

// Evaluator applies conditions to datasets.
// It holds one predicate per condition; the mapping is total over Conditions().
type Evaluator struct {
	predicates map[Condition]Predicate
	logger     *zap.Logger
}

// NewEvaluator creates an Evaluator with every built-in predicate registered.
// A nil logger is replaced by a no-op logger.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		predicates: builtinPredicates(),
		logger:     logger,
	}
}

// Evaluate returns the records of ds that satisfy spec, in their original
// order. ds is not modified.
//
// Evaluation stops at the first record whose predicate fails (for example
// ErrEmptySequence, ErrKindMismatch or value.ErrIncomparable); the error
// names the record index and no partial result is returned.
func (e *Evaluator) Evaluate(ds dataset.Dataset, spec Spec) (dataset.Dataset, error) {
	pred, ok := e.predicates[spec.Condition]
	if !ok {
		return nil, fmt.Errorf("filter %s: %w: %q", spec.Field, ErrUnknownCondition, spec.Condition)
	}

	out := make(dataset.Dataset, 0, len(ds))
	for i, rec := range ds {
		match, err := pred(rec, spec.Field, spec.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s %s: record %d: %w", spec.Field, spec.Condition, i, err)
		}
		if match {
			out = append(out, rec)
		}
	}

	e.logger.Debug("filter evaluated",
		zap.String("field", spec.Field),
		zap.String("condition", string(spec.Condition)),
		zap.Int("in", len(ds)),
		zap.Int("out", len(out)),
	)
	return out, nil
}

// EvaluateNamed is the text entry point used by shells: the condition is
// given by name and the comparison value as typed.
//
// An unknown condition name returns a copy of ds unchanged, and so does a
// field whose values are of more than one kind. Use ParseCondition first to
// reject unknown names instead.
func (e *Evaluator) EvaluateNamed(ds dataset.Dataset, field, name, raw string) (dataset.Dataset, error) {
	cond, err := ParseCondition(name)
	if err != nil {
		e.logger.Warn("unknown condition, dataset passed through unchanged",
			zap.String("field", field),
			zap.String("condition", name),
		)
		return ds.Clone(), nil
	}

	kind := dataset.Classify(ds, field)
	if kind == dataset.KindMixed {
		e.logger.Warn("mixed field, dataset passed through unchanged",
			zap.String("field", field),
			zap.String("condition", name),
		)
		return ds.Clone(), nil
	}

	arg, err := ParseLiteral(cond, kind, raw)
	if err != nil {
		return nil, fmt.Errorf("filter %s %s: %w", field, cond, err)
	}
	return e.Evaluate(ds, Spec{Field: field, Condition: cond, Value: arg})
}
