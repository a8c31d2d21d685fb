package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/value"
)

func people() Dataset {
	return Dataset{
		NewRecord(F("name", value.String("Alice")), F("age", value.Int(30)), F("active", value.Bool(true))),
		NewRecord(F("name", value.String("Bob")), F("age", value.Int(25)), F("active", value.Bool(false))),
		NewRecord(F("name", value.String("Carol")), F("age", value.Float(41.5)), F("scores", value.Ints(1, 2))),
	}
}

func TestRecordKeepsFieldOrder(t *testing.T) {
	r := NewRecord(F("z", value.Int(1)), F("a", value.Int(2)), F("m", value.Int(3)))
	assert.Equal(t, []string{"z", "a", "m"}, r.Fields())

	r.Set("a", value.Int(9))
	assert.Equal(t, []string{"z", "a", "m"}, r.Fields())
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, value.Value(value.Int(9)), v)
}

func TestRecordSetNilBecomesNull(t *testing.T) {
	var r Record
	r.Set("x", nil)
	v, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Value(value.Null{}), v)
}

func TestRecordString(t *testing.T) {
	r := NewRecord(F("name", value.String("Alice")), F("scores", value.Ints(1, 2)))
	assert.Equal(t, "{name: Alice, scores: [1, 2]}", r.String())
}

func TestRecordJSONOrder(t *testing.T) {
	r := NewRecord(F("name", value.String("Alice")), F("age", value.Int(30)), F("ratio", value.Float(2)))
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Alice","age":30,"ratio":2.0}`, string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, r.Equal(back))
	assert.Equal(t, r.Fields(), back.Fields())
	v, _ := back.Get("ratio")
	assert.Equal(t, value.KindFloat, value.KindOf(v))
}

func TestDecodeJSON(t *testing.T) {
	ds, err := DecodeJSON(strings.NewReader(`[
		{"b": 1, "a": "x", "l": [1, 2.5], "n": null},
		{"a": "y", "b": 2}
	]`))
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, []string{"b", "a", "l", "n"}, ds[0].Fields())
	assert.Equal(t, []string{"a", "b"}, ds[1].Fields())

	l, _ := ds[0].Get("l")
	assert.Equal(t, value.Value(value.Seq{value.Int(1), value.Float(2.5)}), l)
}

func TestDecodeJSONRejectsNonArray(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`{"a": 1}`))
	assert.Error(t, err)
}

func TestDecodeJSONRejectsNestedObjects(t *testing.T) {
	_, err := DecodeJSON(strings.NewReader(`[{"a": {"b": 1}}]`))
	assert.ErrorIs(t, err, value.ErrUnsupported)
}

func TestFieldUnion(t *testing.T) {
	assert.Equal(t, []string{"name", "age", "active"}, people().Fields())
	assert.Equal(t, []string{"name", "age", "active", "scores"}, people().FieldUnion())
	assert.Nil(t, Dataset{}.Fields())
}

func TestCloneIsIndependentSlice(t *testing.T) {
	ds := people()
	c := ds.Clone()
	c[0] = NewRecord(F("name", value.String("Zed")))
	assert.True(t, ds[0].Has("age"))
	assert.True(t, ds.Equal(people()))
}

func TestNormalize(t *testing.T) {
	ds := Dataset{NewRecord(F("flag", value.String("TRUE")), F("list", value.String("[1, 2]")), F("s", value.String("hi")))}
	n := Normalize(ds)

	flag, _ := n[0].Get("flag")
	list, _ := n[0].Get("list")
	s, _ := n[0].Get("s")
	assert.Equal(t, value.Value(value.Bool(true)), flag)
	assert.Equal(t, value.Value(value.Ints(1, 2)), list)
	assert.Equal(t, value.Value(value.String("hi")), s)

	orig, _ := ds[0].Get("flag")
	assert.Equal(t, value.Value(value.String("TRUE")), orig)
}
