package value

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses s as an Int, falling back to a finite Float.
func ParseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return Float(f), true
}

// ParseScalar parses a text cell: Int, then Float, otherwise String.
// The empty string is Null.
func ParseScalar(s string) Value {
	if s == "" {
		return Null{}
	}
	if n, ok := ParseNumber(s); ok {
		return n
	}
	return String(s)
}

// ParseSeq parses a bracketed numeric list such as "[1, 2.5, 3]".
// "[]" is the empty sequence.
func ParseSeq(s string) (Seq, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") || len(s) < 2 {
		return nil, false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return Seq{}, true
	}
	parts := strings.Split(inner, ",")
	seq := make(Seq, 0, len(parts))
	for _, part := range parts {
		n, ok := ParseNumber(part)
		if !ok {
			return nil, false
		}
		seq = append(seq, n)
	}
	return seq, true
}

// Normalize converts string encodings of booleans and numeric lists into
// Bool and Seq. "TRUE", "False" and the like become Bool; "[1, 2]" becomes
// Seq. Any other value is returned unchanged.
func Normalize(v Value) Value {
	s, ok := v.(String)
	if !ok {
		return v
	}
	str := string(s)
	switch {
	case strings.EqualFold(str, "true"):
		return Bool(true)
	case strings.EqualFold(str, "false"):
		return Bool(false)
	case strings.HasPrefix(str, "[") && strings.HasSuffix(str, "]"):
		if seq, ok := ParseSeq(str); ok {
			return seq
		}
	}
	return v
}
