package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sieve/internal/value"
)

func TestClassify(t *testing.T) {
	ds := people()

	assert.Equal(t, KindString, Classify(ds, "name"))
	assert.Equal(t, KindNumeric, Classify(ds, "age"))
	assert.Equal(t, KindBoolean, Classify(ds, "active"))
	assert.Equal(t, KindSequence, Classify(ds, "scores"))
	assert.Equal(t, KindEmpty, Classify(ds, "missing"))
}

func TestClassifyMixed(t *testing.T) {
	ds := Dataset{
		NewRecord(F("x", value.Int(1))),
		NewRecord(F("x", value.String("one"))),
	}
	assert.Equal(t, KindMixed, Classify(ds, "x"))
}

func TestClassifySkipsNull(t *testing.T) {
	ds := Dataset{
		NewRecord(F("x", value.Int(1))),
		NewRecord(F("x", value.Null{})),
		NewRecord(F("y", value.Int(2))),
	}
	assert.Equal(t, KindNumeric, Classify(ds, "x"))
}

func TestInfer(t *testing.T) {
	s := Infer(people())
	assert.Equal(t, []string{"name", "age", "active"}, s.Fields)
	assert.Equal(t, KindBoolean, s.Kind("active"))
	assert.Equal(t, KindEmpty, s.Kind("scores"))
}
