package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

func one(key string, v value.Value) dataset.Record {
	return dataset.NewRecord(dataset.F(key, v))
}

func TestNumericField(t *testing.T) {
	ds := dataset.Dataset{one("n", value.Int(2)), one("n", value.Int(4)), one("n", value.Int(6))}
	res, err := Compute(ds)
	require.NoError(t, err)

	fs, ok := res.Get("n")
	require.True(t, ok)
	assert.Equal(t, dataset.KindNumeric, fs.Kind)
	assert.Equal(t, value.Int(2), fs.Min)
	assert.Equal(t, value.Int(6), fs.Max)
	assert.InDelta(t, 4.0, fs.Avg, 1e-9)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"n":{"min":2,"max":6,"avg":4.0}}`, string(b))
}

func TestMinMaxKeepType(t *testing.T) {
	ds := dataset.Dataset{one("x", value.Float(1.5)), one("x", value.Int(3)), one("x", value.Int(-1))}
	res, err := Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, value.Int(-1), res[0].Min)
	assert.Equal(t, value.Int(3), res[0].Max)

	ds = dataset.Dataset{one("x", value.Float(0.5)), one("x", value.Int(3))}
	res, err = Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, value.Float(0.5), res[0].Min)
}

func TestBooleanField(t *testing.T) {
	ds := dataset.Dataset{
		one("b", value.Bool(true)), one("b", value.Bool(true)),
		one("b", value.Bool(false)), one("b", value.Bool(false)),
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, dataset.KindBoolean, res[0].Kind)
	assert.InDelta(t, 50.0, res[0].TruePercentage, 1e-9)
	assert.InDelta(t, 50.0, res[0].FalsePercentage, 1e-9)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"true_percentage":50.0,"false_percentage":50.0}}`, string(b))
}

func TestBooleanTextIsNormalised(t *testing.T) {
	ds := dataset.Dataset{one("b", value.String("TRUE")), one("b", value.String("false")), one("b", value.Bool(true))}
	res, err := Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, dataset.KindBoolean, res[0].Kind)
	assert.InDelta(t, 200.0/3, res[0].TruePercentage, 1e-9)
}

func TestSequencesArePooled(t *testing.T) {
	ds := dataset.Dataset{
		one("s", value.Ints(1, 2)),
		one("s", value.String("[10]")),
		one("s", value.Seq{}),
		one("s", value.Floats(3.5)),
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	fs := res[0]
	assert.Equal(t, dataset.KindSequence, fs.Kind)
	assert.Equal(t, value.Int(1), fs.Min)
	assert.Equal(t, value.Int(10), fs.Max)
	assert.InDelta(t, 16.5/4, fs.Avg, 1e-9)
}

func TestMixedFieldGetsNote(t *testing.T) {
	ds := dataset.Dataset{
		dataset.NewRecord(dataset.F("name", value.String("a")), dataset.F("v", value.Int(1))),
		dataset.NewRecord(dataset.F("name", value.String("b")), dataset.F("v", value.String("x"))),
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, UnsupportedNote, res[0].Note)
	assert.Equal(t, UnsupportedNote, res[1].Note)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"name":{"note":"unsupported or mixed type"},"v":{"note":"unsupported or mixed type"}}`, string(b))
}

func TestMissingFieldsAreSkipped(t *testing.T) {
	ds := dataset.Dataset{
		dataset.NewRecord(dataset.F("n", value.Int(1)), dataset.F("m", value.Int(7))),
		dataset.NewRecord(dataset.F("m", value.Int(8))),
		dataset.NewRecord(dataset.F("n", value.Int(3)), dataset.F("extra", value.Int(0))),
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	require.Len(t, res, 2, "only fields of the first record are reported")
	n, _ := res.Get("n")
	assert.InDelta(t, 2.0, n.Avg, 1e-9)
	m, _ := res.Get("m")
	assert.InDelta(t, 7.5, m.Avg, 1e-9)
	_, ok := res.Get("extra")
	assert.False(t, ok)
}

func TestFailures(t *testing.T) {
	_, err := Compute(dataset.Dataset{})
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = Compute(dataset.Dataset{one("s", value.Seq{}), one("s", value.Seq{})})
	assert.ErrorIs(t, err, ErrNoValues)

}

func TestAllNullFieldGetsNote(t *testing.T) {
	ds := dataset.Dataset{
		dataset.NewRecord(dataset.F("n", value.Int(2)), dataset.F("note", value.Null{})),
		dataset.NewRecord(dataset.F("n", value.Int(4)), dataset.F("note", value.Null{})),
	}
	res, err := Compute(ds)
	require.NoError(t, err)
	require.Len(t, res, 2)

	n, _ := res.Get("n")
	assert.Equal(t, value.Int(2), n.Min)
	assert.Equal(t, value.Int(4), n.Max)
	assert.InDelta(t, 3.0, n.Avg, 1e-9)

	note, ok := res.Get("note")
	require.True(t, ok)
	assert.Equal(t, dataset.KindEmpty, note.Kind)
	assert.Equal(t, UnsupportedNote, note.Note)
}
