package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("lexicographically_greater_than_field")
	require.NoError(t, err)
	assert.Equal(t, LexicographicallyGreaterThanField, c)

	_, err = ParseCondition("Equals")
	assert.ErrorIs(t, err, ErrUnknownCondition)
}

func TestConditionsFor(t *testing.T) {
	assert.Equal(t, []Condition{True, False}, ConditionsFor(dataset.KindBoolean))
	assert.Contains(t, ConditionsFor(dataset.KindSequence), AverageGreater)
	assert.Contains(t, ConditionsFor(dataset.KindString), StartsWith)
	assert.NotContains(t, ConditionsFor(dataset.KindNumeric), StartsWith)
	assert.Nil(t, ConditionsFor(dataset.KindMixed))

	for _, kind := range []dataset.Kind{dataset.KindBoolean, dataset.KindNumeric, dataset.KindSequence, dataset.KindString} {
		for _, c := range ConditionsFor(kind) {
			assert.True(t, c.Valid(), "%s offered for %s is not valid", c, kind)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		cond Condition
		kind dataset.Kind
		raw  string
		want value.Value
	}{
		{GreaterThan, dataset.KindNumeric, "30", value.Int(30)},
		{GreaterThan, dataset.KindNumeric, "30.5", value.Float(30.5)},
		{LessThan, dataset.KindString, "m", value.String("m")},
		{Equals, dataset.KindNumeric, "7", value.Int(7)},
		{Equals, dataset.KindNumeric, "seven", value.String("seven")},
		{Equals, dataset.KindBoolean, "true", value.Bool(true)},
		{Equals, dataset.KindSequence, "[1, 2]", value.Ints(1, 2)},
		{Equals, dataset.KindString, "42", value.String("42")},
		{Contains, dataset.KindSequence, "3", value.Int(3)},
		{Contains, dataset.KindString, "3", value.String("3")},
		{True, dataset.KindBoolean, "", value.Bool(true)},
		{False, dataset.KindBoolean, "ignored", value.Bool(false)},
		{MinLength, dataset.KindSequence, " 2 ", value.Int(2)},
		{AverageEquals, dataset.KindSequence, "2", value.Float(2)},
		{StartsWith, dataset.KindString, "Al", value.String("Al")},
		{LexicographicallyLessThanField, dataset.KindString, "city", value.String("city")},
	}
	for _, tt := range tests {
		got, err := ParseLiteral(tt.cond, tt.kind, tt.raw)
		require.NoError(t, err, "%s %q", tt.cond, tt.raw)
		assert.Equal(t, tt.want, got, "%s %s %q", tt.cond, tt.kind, tt.raw)
	}
}

func TestParseLiteralErrors(t *testing.T) {
	cases := []struct {
		cond Condition
		kind dataset.Kind
		raw  string
	}{
		{GreaterThan, dataset.KindNumeric, "abc"},
		{ExactLength, dataset.KindSequence, "1.5"},
		{AverageLess, dataset.KindSequence, "x"},
		{Contains, dataset.KindSequence, "x"},
	}
	for _, c := range cases {
		_, err := ParseLiteral(c.cond, c.kind, c.raw)
		assert.ErrorIs(t, err, ErrBadLiteral, "%s %q", c.cond, c.raw)
	}
}
