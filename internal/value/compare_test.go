package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(4), Int(4), true},
		{Int(4), Float(4), true},
		{Float(4.5), Int(4), false},
		{String("a"), String("a"), true},
		{String("a"), String("A"), false},
		{String("4"), Int(4), false},
		{Bool(true), Bool(true), true},
		{Bool(true), Int(1), false},
		{Ints(1, 2), Seq{Int(1), Float(2)}, true},
		{Ints(1, 2), Ints(1, 2, 3), false},
		{Null{}, Null{}, true},
		{Null{}, nil, true},
		{Null{}, String(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Equal(tt.a, tt.b), "Equal(%#v, %#v)", tt.a, tt.b)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Value
		want int
	}{
		{Int(1), Int(2), -1},
		{Int(2), Float(1.5), 1},
		{Float(2), Int(2), 0},
		{String("apple"), String("banana"), -1},
		{String("B"), String("a"), -1}, // byte order, not folded
		{Bool(false), Bool(true), -1},
		{Ints(1, 2), Ints(1, 3), -1},
		{Ints(1, 2), Ints(1), 1},
		{Seq{}, Seq{}, 0},
	}
	for _, tt := range tests {
		got, err := Compare(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Compare(%#v, %#v)", tt.a, tt.b)
	}
}

func TestCompareIncomparable(t *testing.T) {
	pairs := [][2]Value{
		{String("1"), Int(1)},
		{Bool(true), Int(1)},
		{Null{}, Int(1)},
		{Ints(1), Int(1)},
		{Seq{String("x")}, Ints(1)},
	}
	for _, p := range pairs {
		_, err := Compare(p[0], p[1])
		assert.ErrorIs(t, err, ErrIncomparable, "Compare(%#v, %#v)", p[0], p[1])
	}
}
