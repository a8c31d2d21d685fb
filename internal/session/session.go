// Package session holds a loaded dataset together with the history of
// actions committed against it.
//
// A session keeps the dataset as loaded (the snapshot) and the current
// dataset. Filters and sorts are previewed, then committed; a commit replaces
// the current dataset and appends an Action. Undo removes one action and
// rebuilds the current dataset by replaying the remaining history from the
// snapshot, so the result is the same as if the action had never been taken.
//
// A Session is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/sorting"
)

var (
	// ErrNotUndoable is returned when undoing the load action.
	ErrNotUndoable = errors.New("action cannot be undone")

	// ErrNoSuchAction is returned when no committed action has the given seq.
	ErrNoSuchAction = errors.New("no action with that seq")

	// ErrInvalidAction is returned for actions that cannot be evaluated.
	ErrInvalidAction = errors.New("invalid action")
)

// Session is a dataset with its committed history.
type Session struct {
	id       string
	source   string
	snapshot dataset.Dataset
	current  dataset.Dataset
	history  []Action

	clock  *Clock
	eval   *filter.Evaluator
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for the session and its evaluator.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the session clock.
func WithClock(c *Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

func newSession(id, source string, snapshot dataset.Dataset, opts []Option) *Session {
	s := &Session{
		id:       id,
		source:   source,
		snapshot: snapshot.Clone(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewClock()
	}
	s.eval = filter.NewEvaluator(s.logger)
	s.current = s.snapshot.Clone()
	return s
}

// New starts a session over snapshot, recording a load action for source.
func New(id, source string, snapshot dataset.Dataset, opts ...Option) *Session {
	s := newSession(id, source, snapshot, opts)
	s.history = append(s.history, Action{Seq: s.clock.Next(), Kind: KindLoad, Source: source})
	return s
}

// Replay rebuilds a session from a persisted snapshot and history. The
// history must start with the load action; the clock resumes after the
// highest seq.
func Replay(id, source string, snapshot dataset.Dataset, history []Action, opts ...Option) (*Session, error) {
	if len(history) == 0 || history[0].Kind != KindLoad {
		return nil, fmt.Errorf("replay session %s: %w: history must start with a load", id, ErrInvalidAction)
	}
	var last int64
	for _, a := range history {
		last = max(last, a.Seq)
	}

	s := newSession(id, source, snapshot, append([]Option{WithClock(NewClockAt(last))}, opts...))
	s.history = slices.Clone(history)
	current, err := s.rebuild(s.history)
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", id, err)
	}
	s.current = current
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Source returns the path the snapshot was loaded from.
func (s *Session) Source() string { return s.source }

// Snapshot returns the dataset as loaded.
func (s *Session) Snapshot() dataset.Dataset { return s.snapshot.Clone() }

// Current returns the dataset after every committed action.
func (s *Session) Current() dataset.Dataset { return s.current.Clone() }

// History returns the committed actions in seq order.
func (s *Session) History() []Action { return slices.Clone(s.history) }

// Clock returns the session clock.
func (s *Session) Clock() *Clock { return s.clock }

// Preview evaluates a filter or sort action against the current dataset
// without committing it.
func (s *Session) Preview(a Action) (dataset.Dataset, error) {
	return s.apply(s.current, a)
}

// Commit evaluates a, makes its result the current dataset and appends it to
// the history. The committed action, stamped with its seq, is returned. On
// error the session is unchanged.
func (s *Session) Commit(a Action) (Action, error) {
	if a.Kind == KindReset {
		return s.Reset(), nil
	}
	next, err := s.apply(s.current, a)
	if err != nil {
		return Action{}, err
	}
	a.Seq = s.clock.Next()
	s.current = next
	s.history = append(s.history, a)

	s.logger.Debug("action committed",
		zap.String("session", s.id),
		zap.Int64("seq", a.Seq),
		zap.String("action", a.String()),
		zap.Int("records", len(next)),
	)
	return a, nil
}

// Reset restores the snapshot as the current dataset. The reset is recorded
// so that it can itself be undone.
func (s *Session) Reset() Action {
	a := Action{Seq: s.clock.Next(), Kind: KindReset}
	s.current = s.snapshot.Clone()
	s.history = append(s.history, a)
	s.logger.Debug("session reset", zap.String("session", s.id), zap.Int64("seq", a.Seq))
	return a
}

// Undo removes the action with the given seq and rebuilds the current
// dataset from the snapshot. If the remaining history no longer evaluates
// (a later filter depended on the removed one), the error is returned and
// the session is unchanged.
func (s *Session) Undo(seq int64) (Action, error) {
	i := slices.IndexFunc(s.history, func(a Action) bool { return a.Seq == seq })
	if i < 0 {
		return Action{}, fmt.Errorf("undo %d: %w", seq, ErrNoSuchAction)
	}
	removed := s.history[i]
	if removed.Kind == KindLoad {
		return Action{}, fmt.Errorf("undo %d: %w", seq, ErrNotUndoable)
	}

	history := slices.Delete(slices.Clone(s.history), i, i+1)
	current, err := s.rebuild(history)
	if err != nil {
		return Action{}, fmt.Errorf("undo %d: %w", seq, err)
	}
	s.history = history
	s.current = current

	s.logger.Debug("action undone",
		zap.String("session", s.id),
		zap.Int64("seq", seq),
		zap.String("action", removed.String()),
	)
	return removed, nil
}

// rebuild replays the filters and sorts after the last reset in history.
func (s *Session) rebuild(history []Action) (dataset.Dataset, error) {
	start := 0
	for i, a := range history {
		if a.Kind == KindReset {
			start = i + 1
		}
	}

	ds := s.snapshot.Clone()
	for _, a := range history[start:] {
		if a.Kind == KindLoad {
			continue
		}
		next, err := s.apply(ds, a)
		if err != nil {
			return nil, fmt.Errorf("replay action %d: %w", a.Seq, err)
		}
		ds = next
	}
	return ds, nil
}

func (s *Session) apply(ds dataset.Dataset, a Action) (dataset.Dataset, error) {
	switch a.Kind {
	case KindFilter:
		return s.eval.Evaluate(ds, a.Spec())
	case KindSort:
		return sorting.Sort(ds, a.Field, a.Order)
	case KindReset:
		return s.snapshot.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAction, a.Kind)
}
