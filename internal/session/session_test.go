package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/sorting"
	"github.com/roach88/sieve/internal/value"
)

func person(name string, age int64, scores ...int64) dataset.Record {
	return dataset.NewRecord(
		dataset.F("name", value.String(name)),
		dataset.F("age", value.Int(age)),
		dataset.F("scores", value.Ints(scores...)),
	)
}

func people() dataset.Dataset {
	return dataset.Dataset{
		person("Alice", 30, 90, 80),
		person("Bob", 25),
		person("Carol", 41, 70),
		person("Dave", 35, 60, 65),
	}
}

func names(ds dataset.Dataset) []string {
	out := make([]string, len(ds))
	for i, r := range ds {
		v, _ := r.Get("name")
		out[i] = value.Text(v)
	}
	return out
}

func TestNewRecordsLoad(t *testing.T) {
	s := New("s1", "people.csv", people())
	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, Action{Seq: 1, Kind: KindLoad, Source: "people.csv"}, h[0])
	assert.True(t, s.Current().Equal(people()))
	assert.Equal(t, "s1", s.ID())
}

func TestPreviewDoesNotCommit(t *testing.T) {
	s := New("s1", "people.csv", people())
	out, err := s.Preview(Filter("age", filter.GreaterThan, value.Int(30)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol", "Dave"}, names(out))

	assert.Len(t, s.History(), 1)
	assert.Len(t, s.Current(), 4)
}

func TestCommitAppendsAndReplaces(t *testing.T) {
	s := New("s1", "people.csv", people())

	a, err := s.Commit(Filter("age", filter.GreaterThan, value.Int(28)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Seq)

	b, err := s.Commit(Sort("name", sorting.ZToA))
	require.NoError(t, err)
	assert.Equal(t, int64(3), b.Seq)

	assert.Equal(t, []string{"Dave", "Carol", "Alice"}, names(s.Current()))
	assert.Len(t, s.History(), 3)
	assert.True(t, s.Snapshot().Equal(people()), "snapshot is never modified")
}

func TestCommitFailureLeavesSessionUnchanged(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Filter("scores", filter.AverageGreater, value.Float(50)))
	require.ErrorIs(t, err, filter.ErrEmptySequence)

	assert.Len(t, s.History(), 1)
	assert.Len(t, s.Current(), 4)

	// The failed commit did not consume a seq.
	a, err := s.Commit(Sort("age", sorting.Ascending))
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Seq)
}

func TestReset(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Filter("age", filter.LessThan, value.Int(30)))
	require.NoError(t, err)

	r := s.Reset()
	assert.Equal(t, KindReset, r.Kind)
	assert.True(t, s.Current().Equal(people()))

	_, err = s.Commit(Filter("age", filter.GreaterThan, value.Int(40)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol"}, names(s.Current()))
}

func TestUndoIsAsIfNeverTaken(t *testing.T) {
	s := New("s1", "people.csv", people())
	f1, err := s.Commit(Filter("age", filter.GreaterThanEquals, value.Int(30)))
	require.NoError(t, err)
	_, err = s.Commit(Sort("age", sorting.Descending))
	require.NoError(t, err)
	_, err = s.Commit(Filter("name", filter.NotEquals, value.String("Carol")))
	require.NoError(t, err)

	removed, err := s.Undo(f1.Seq)
	require.NoError(t, err)
	assert.Equal(t, f1, removed)

	// Same as sorting then filtering the snapshot directly.
	expect := New("s2", "people.csv", people())
	_, err = expect.Commit(Sort("age", sorting.Descending))
	require.NoError(t, err)
	_, err = expect.Commit(Filter("name", filter.NotEquals, value.String("Carol")))
	require.NoError(t, err)

	assert.True(t, expect.Current().Equal(s.Current()))
	assert.Equal(t, []string{"Dave", "Alice", "Bob"}, names(s.Current()))
	assert.Len(t, s.History(), 3)
}

func TestUndoReplaysFromLastReset(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Filter("age", filter.LessThan, value.Int(30)))
	require.NoError(t, err)
	s.Reset()
	f, err := s.Commit(Filter("age", filter.GreaterThan, value.Int(32)))
	require.NoError(t, err)
	_, err = s.Commit(Sort("name", sorting.AToZ))
	require.NoError(t, err)

	_, err = s.Undo(f.Seq)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, names(s.Current()))
}

func TestUndoReset(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Filter("age", filter.LessThan, value.Int(30)))
	require.NoError(t, err)
	r := s.Reset()

	_, err = s.Undo(r.Seq)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, names(s.Current()))
}

func TestUndoErrors(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Undo(1)
	assert.ErrorIs(t, err, ErrNotUndoable)

	_, err = s.Undo(99)
	assert.ErrorIs(t, err, ErrNoSuchAction)
}

func TestUndoThatBreaksLaterActionIsRejected(t *testing.T) {
	s := New("s1", "people.csv", people())
	f, err := s.Commit(Filter("scores", filter.MinLength, value.Int(1)))
	require.NoError(t, err)
	_, err = s.Commit(Filter("scores", filter.AverageGreater, value.Float(70)))
	require.NoError(t, err)
	before := s.Current()

	_, err = s.Undo(f.Seq)
	require.ErrorIs(t, err, filter.ErrEmptySequence)
	assert.Len(t, s.History(), 3)
	assert.True(t, before.Equal(s.Current()))
}

func TestSeqsAreNotReused(t *testing.T) {
	s := New("s1", "people.csv", people())
	a, err := s.Commit(Sort("age", sorting.Ascending))
	require.NoError(t, err)
	_, err = s.Undo(a.Seq)
	require.NoError(t, err)
	b, err := s.Commit(Sort("age", sorting.Ascending))
	require.NoError(t, err)
	assert.Greater(t, b.Seq, a.Seq)
}

func TestReplay(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Filter("age", filter.GreaterThan, value.Int(26)))
	require.NoError(t, err)
	_, err = s.Commit(Sort("age", sorting.Descending))
	require.NoError(t, err)

	r, err := Replay("s1", "people.csv", s.Snapshot(), s.History())
	require.NoError(t, err)
	assert.True(t, s.Current().Equal(r.Current()))
	assert.Equal(t, s.History(), r.History())
	assert.Equal(t, int64(3), r.Clock().Current())

	_, err = Replay("s1", "people.csv", people(), []Action{Sort("age", sorting.Ascending)})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestCommitRejectsUnknownKind(t *testing.T) {
	s := New("s1", "people.csv", people())
	_, err := s.Commit(Action{Kind: KindLoad})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestActionJSON(t *testing.T) {
	in := []Action{
		{Seq: 1, Kind: KindLoad, Source: "a.csv"},
		{Seq: 2, Kind: KindFilter, Field: "h", Condition: filter.Equals, Value: value.Float(2)},
		{Seq: 3, Kind: KindFilter, Field: "s", Condition: filter.Equals, Value: value.Ints(1, 2)},
		{Seq: 4, Kind: KindSort, Field: "n", Order: sorting.ZToA},
		{Seq: 5, Kind: KindReset},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"value":2.0`)

	var out []Action
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "filter age greater_than 30", Filter("age", filter.GreaterThan, value.Int(30)).String())
	assert.Equal(t, "filter ok true", Filter("ok", filter.True, value.Bool(true)).String())
	assert.Equal(t, "sort name a_to_z", Sort("name", sorting.AToZ).String())
	assert.Equal(t, "load x.json", Action{Kind: KindLoad, Source: "x.json"}.String())
	assert.Equal(t, "reset", Action{Kind: KindReset}.String())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7GeneratorIsSortable(t *testing.T) {
	var g UUIDv7Generator
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a[:13], b[:13])
}

func TestClock(t *testing.T) {
	c := NewClockAt(100)
	assert.Equal(t, int64(100), c.Current())
	assert.Equal(t, int64(101), c.Next())
	assert.Equal(t, int64(101), c.Current())
}
