package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

func testResult() *Result {
	r := NewResult()
	r.Session = "s-1"
	r.History = []string{
		"load people.json",
		"filter age greater_than 26",
		"sort name z_to_a",
	}
	r.Current = dataset.Dataset{
		dataset.NewRecord(dataset.F("name", value.String("Carol")), dataset.F("scores", value.Ints(70))),
		dataset.NewRecord(dataset.F("name", value.String("Alice"))),
	}
	return r
}

func TestAssertHistoryContains(t *testing.T) {
	r := testResult()
	assert.NoError(t, assertHistoryContains(r.History, Assertion{Action: "sort name z_to_a"}))

	err := assertHistoryContains(r.History, Assertion{Action: "sort name a_to_z"})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertHistoryContains, ae.Type)
	assert.Equal(t, r.History, ae.History)
}

func TestAssertHistoryOrder(t *testing.T) {
	h := testResult().History

	tests := []struct {
		name    string
		actions []string
		wantErr string
	}{
		{name: "consecutive", actions: []string{"load people.json", "filter age greater_than 26"}},
		{name: "with gap", actions: []string{"load people.json", "sort name z_to_a"}},
		{name: "single", actions: []string{"sort name z_to_a"}},
		{name: "reversed", actions: []string{"sort name z_to_a", "load people.json"}, wantErr: "appears out of order"},
		{name: "missing", actions: []string{"load people.json", "reset"}, wantErr: "missing action: reset"},
		{name: "repeated", actions: []string{"load people.json", "load people.json"}, wantErr: "out of order"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertHistoryOrder(h, Assertion{Actions: tt.actions})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssertHistoryCount(t *testing.T) {
	h := testResult().History
	assert.NoError(t, assertHistoryCount(h, Assertion{Count: 3}))
	assert.NoError(t, assertHistoryCount(nil, Assertion{Count: 0}))

	err := assertHistoryCount(h, Assertion{Count: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 2 actions")
	assert.Contains(t, err.Error(), "Actual: 3 actions")
}

func TestAssertRecords(t *testing.T) {
	r := testResult()
	assert.NoError(t, assertRecords(AssertRecords, r.Current, r.History,
		Assertion{Field: "name", Values: []string{"Carol", "Alice"}}))
	assert.NoError(t, assertRecords(AssertRecords, r.Current, r.History,
		Assertion{Field: "scores", Values: []string{"[70]", ""}}), "a missing field renders empty")
	assert.NoError(t, assertRecords(AssertRecords, dataset.Dataset{}, nil,
		Assertion{Field: "name"}), "no values matches no records")

	err := assertRecords(AssertRecords, r.Current, r.History,
		Assertion{Field: "name", Values: []string{"Alice", "Carol"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name = [Alice Carol]")
	assert.Contains(t, err.Error(), "name = [Carol Alice]")
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertHistoryCount,
		Expected: "1 actions",
		Actual:   "2 actions",
		History:  []string{"load a.json", "reset"},
	}
	assert.Equal(t,
		"Assertion failed: history_count\n"+
			"  Expected: 1 actions\n"+
			"  Actual: 2 actions\n"+
			"\nFull history:\n"+
			"  [1] load a.json\n"+
			"  [2] reset\n",
		err.Error())
}

func TestEvaluateAssertions(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(out, []byte("name,age\nCarol,41\nAlice,30\n"), 0o644))

	r := testResult()
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertHistoryContains, Action: "filter age greater_than 26"},
		{Type: AssertHistoryOrder, Actions: []string{"load people.json", "sort name z_to_a"}},
		{Type: AssertHistoryCount, Count: 3},
		{Type: AssertRecords, Field: "name", Values: []string{"Carol", "Alice"}},
		{Type: AssertFileRecords, Path: out, Field: "age", Values: []string{"41", "30"}},
	})
	assert.Empty(t, errs)

	errs = EvaluateAssertions(r, []Assertion{
		{Type: AssertHistoryCount, Count: 1},
		{Type: AssertFileRecords, Path: filepath.Join(dir, "missing.json"), Field: "name"},
		{Type: AssertFileRecords, Path: out, Field: "name", Values: []string{"Alice"}},
		{Type: "row_contains"},
	})
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0], "history_count")
	assert.Contains(t, errs[1], "assertion[1]")
	assert.Contains(t, errs[2], "file_records")
	assert.Contains(t, errs[3], `unknown assertion type "row_contains"`)
}
