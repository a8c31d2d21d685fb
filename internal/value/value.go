package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a sealed interface representing a record field value.
// Only Null, String, Int, Float, Bool and Seq implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent value (JSON/YAML null, empty CSV cell).
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a text value.
type String string

func (String) value() {}

// Int represents an integer value.
type Int int64

func (Int) value() {}

// Float represents a floating-point value.
type Float float64

func (Float) value() {}

// MarshalJSON implements json.Marshaler for Float.
// Integral floats keep a decimal point so they decode back as Float.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("unsupported float value: %v", v)
	}
	return []byte(FormatFloat(v)), nil
}

// Bool represents a boolean value.
type Bool bool

func (Bool) value() {}

// Seq represents an ordered sequence of numbers.
// Elements are always Int or Float; use NewSeq to build one from arbitrary values.
type Seq []Value

func (Seq) value() {}

// Kind identifies the concrete type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindSeq
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindSeq:    "seq",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindOf returns the Kind of v. A nil Value is reported as KindNull.
func KindOf(v Value) Kind {
	switch v.(type) {
	case String:
		return KindString
	case Int:
		return KindInt
	case Float:
		return KindFloat
	case Bool:
		return KindBool
	case Seq:
		return KindSeq
	default:
		return KindNull
	}
}

// ErrNotNumber is returned when a sequence element is not an Int or Float.
var ErrNotNumber = errors.New("not a number")

// ErrUnsupported is returned by FromAny for decoded values with no Value form.
var ErrUnsupported = errors.New("unsupported value")

// NewSeq creates a Seq, rejecting any element that is not a number.
func NewSeq(vals ...Value) (Seq, error) {
	seq := make(Seq, len(vals))
	for i, v := range vals {
		if !IsNumber(v) {
			return nil, fmt.Errorf("seq[%d]: %s: %w", i, KindOf(v), ErrNotNumber)
		}
		seq[i] = v
	}
	return seq, nil
}

// Ints creates a Seq of Int elements.
func Ints(ns ...int64) Seq {
	seq := make(Seq, len(ns))
	for i, n := range ns {
		seq[i] = Int(n)
	}
	return seq
}

// Floats creates a Seq of Float elements.
func Floats(fs ...float64) Seq {
	seq := make(Seq, len(fs))
	for i, f := range fs {
		seq[i] = Float(f)
	}
	return seq
}

// IsNumber reports whether v is an Int or a Float.
func IsNumber(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

// AsFloat returns the numeric value of an Int or Float.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}

// Sum returns the sum of the sequence as a float64.
func (s Seq) Sum() float64 {
	var total float64
	for _, v := range s {
		f, _ := AsFloat(v)
		total += f
	}
	return total
}

// FormatFloat renders f with the shortest exact representation and always a
// decimal point for finite integral values ("4.0", not "4").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Text renders v the way it is written into CSV cells and XML text.
// Null renders as the empty string and sequences as "[1, 2.5]".
func Text(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return FormatFloat(float64(val))
	case Bool:
		return strconv.FormatBool(bool(val))
	case Seq:
		return "[" + joinSeq(val, ", ") + "]"
	default:
		return ""
	}
}

// JoinSeq renders the elements of s separated by sep, without brackets.
func JoinSeq(s Seq, sep string) string {
	return joinSeq(s, sep)
}

func joinSeq(s Seq, sep string) string {
	parts := make([]string, len(s))
	for i, elem := range s {
		parts[i] = Text(elem)
	}
	return strings.Join(parts, sep)
}

// Marshal marshals v to JSON bytes.
func Marshal(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// FromAny converts a value produced by a generic decoder (encoding/json with
// UseNumber, yaml.v3, cue) into a Value. Nested objects and non-numeric lists
// are rejected with ErrUnsupported.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return Float(float64(val)), nil
		}
		return Int(int64(val)), nil
	case float64:
		return Float(val), nil
	case json.Number:
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			if n, err := val.Int64(); err == nil {
				return Int(n), nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", s, err)
		}
		return Float(f), nil
	case []any:
		seq := make(Seq, len(val))
		for i, elem := range val {
			ev, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("seq[%d]: %w", i, err)
			}
			if !IsNumber(ev) {
				return nil, fmt.Errorf("seq[%d]: %s: %w", i, KindOf(ev), ErrUnsupported)
			}
			seq[i] = ev
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("%T: %w", v, ErrUnsupported)
	}
}
