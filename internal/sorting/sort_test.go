package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

func kv(k value.Value, id string) dataset.Record {
	return dataset.NewRecord(dataset.F("k", k), dataset.F("id", value.String(id)))
}

func ids(ds dataset.Dataset) []string {
	out := make([]string, len(ds))
	for i, r := range ds {
		v, _ := r.Get("id")
		out[i] = value.Text(v)
	}
	return out
}

func TestParseOrder(t *testing.T) {
	tests := map[string]Order{
		"descending":    Descending,
		"z_to_a":        ZToA,
		"true_to_false": TrueToFalse,
		"a_to_z":        AToZ,
		"ascending":     Ascending,
		"sideways":      Ascending,
		"":              Ascending,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseOrder(name), name)
	}

	assert.True(t, ParseOrder("z_to_a").Descending())
	assert.True(t, ParseOrder("true_to_false").Descending())
	assert.False(t, ParseOrder("sideways").Descending())
}

func TestSortNumbers(t *testing.T) {
	ds := dataset.Dataset{kv(value.Int(3), "c"), kv(value.Float(1.5), "a"), kv(value.Int(2), "b")}

	asc, err := Sort(ds, "k", Ascending)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(asc))

	desc, err := Sort(ds, "k", Descending)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(desc))

	assert.Equal(t, []string{"c", "a", "b"}, ids(ds), "input must not be reordered")
}

func TestSortStrictlyByteOrder(t *testing.T) {
	ds := dataset.Dataset{kv(value.String("b"), "1"), kv(value.String("B"), "2"), kv(value.String("a"), "3")}
	out, err := Sort(ds, "k", AToZ)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "1"}, ids(out))
}

func TestSortBooleans(t *testing.T) {
	ds := dataset.Dataset{kv(value.Bool(true), "t1"), kv(value.Bool(false), "f1"), kv(value.Bool(true), "t2")}
	out, err := Sort(ds, "k", FalseToTrue)
	require.NoError(t, err)
	assert.Equal(t, []string{"f1", "t1", "t2"}, ids(out))

	out, err = Sort(ds, "k", TrueToFalse)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "f1"}, ids(out))
}

func TestSortIsStable(t *testing.T) {
	ds := dataset.Dataset{kv(value.Int(1), "a"), kv(value.Int(1), "b")}
	for _, o := range []Order{Ascending, Descending} {
		out, err := Sort(ds, "k", o)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids(out), string(o))
	}
}

func TestSortIsIdempotent(t *testing.T) {
	ds := dataset.Dataset{
		kv(value.Int(2), "a"), kv(value.Int(1), "b"), kv(value.Int(2), "c"), kv(value.Int(0), "d"),
	}
	for _, o := range []Order{Ascending, Descending} {
		once, err := Sort(ds, "k", o)
		require.NoError(t, err)
		twice, err := Sort(once, "k", o)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), string(o))
	}
}

func TestSortEmpty(t *testing.T) {
	out, err := Sort(dataset.Dataset{}, "k", Ascending)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSortErrors(t *testing.T) {
	missing := dataset.Dataset{kv(value.Int(1), "a"), dataset.NewRecord(dataset.F("id", value.String("b")))}
	_, err := Sort(missing, "k", Ascending)
	assert.ErrorIs(t, err, ErrMissingField)

	mixed := dataset.Dataset{kv(value.Int(1), "a"), kv(value.String("x"), "b")}
	_, err = Sort(mixed, "k", Ascending)
	assert.ErrorIs(t, err, value.ErrIncomparable)
}

func TestOrdersFor(t *testing.T) {
	assert.Equal(t, []Order{AToZ, ZToA}, OrdersFor(dataset.KindString))
	assert.Equal(t, []Order{FalseToTrue, TrueToFalse}, OrdersFor(dataset.KindBoolean))
	assert.Equal(t, []Order{Ascending, Descending}, OrdersFor(dataset.KindNumeric))
	assert.Nil(t, OrdersFor(dataset.KindMixed))
}
