package value

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// ErrIncomparable is returned by Compare when two values have no ordering.
var ErrIncomparable = errors.New("values are not comparable")

// Equal reports whether a and b hold the same value.
// Int and Float compare numerically; every other kind only equals its own kind.
func Equal(a, b Value) bool {
	if fa, ok := AsFloat(a); ok {
		if ia, isInt := a.(Int); isInt {
			if ib, ok := b.(Int); ok {
				return ia == ib
			}
		}
		fb, ok := AsFloat(b)
		return ok && fa == fb
	}

	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Null, nil:
		return KindOf(b) == KindNull
	}
	return false
}

// Compare orders a against b, returning -1, 0 or +1.
//
// Defined orderings:
//   - number vs number (Int and Float mix freely)
//   - string vs string (byte order)
//   - bool vs bool (false < true)
//   - seq vs seq (element-wise, then shorter first)
//
// Any other pairing returns ErrIncomparable.
func Compare(a, b Value) (int, error) {
	if IsNumber(a) && IsNumber(b) {
		ia, aInt := a.(Int)
		ib, bInt := b.(Int)
		if aInt && bInt {
			return cmp.Compare(ia, ib), nil
		}
		fa, _ := AsFloat(a)
		fb, _ := AsFloat(b)
		return cmp.Compare(fa, fb), nil
	}

	switch av := a.(type) {
	case String:
		if bv, ok := b.(String); ok {
			return strings.Compare(string(av), string(bv)), nil
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			return cmp.Compare(boolRank(av), boolRank(bv)), nil
		}
	case Seq:
		if bv, ok := b.(Seq); ok {
			return compareSeq(av, bv)
		}
	}
	return 0, fmt.Errorf("%w: %s and %s", ErrIncomparable, KindOf(a), KindOf(b))
}

func boolRank(b Bool) int {
	if b {
		return 1
	}
	return 0
}

func compareSeq(a, b Seq) (int, error) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		c, err := Compare(a[i], b[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	return cmp.Compare(len(a), len(b)), nil
}
