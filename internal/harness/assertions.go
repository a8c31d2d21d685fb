package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sieve/internal/codec"
	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/value"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	History  []string // Full history for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull history:\n")
	for i, line := range e.History {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
	}
	return buf.String()
}

// assertHistoryContains checks that the history holds the action line.
func assertHistoryContains(history []string, assertion Assertion) error {
	if slices.Contains(history, assertion.Action) {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryContains,
		Expected: fmt.Sprintf("action %q", assertion.Action),
		Actual:   "not found in history",
		History:  history,
	}
}

// assertHistoryOrder checks that actions appear in the specified order.
// Actions don't need to be consecutive (intervening actions are allowed).
func assertHistoryOrder(history []string, assertion Assertion) error {
	pos := 0
	for _, want := range assertion.Actions {
		i := slices.Index(history[pos:], want)
		if i < 0 {
			actual := fmt.Sprintf("missing action: %s", want)
			if slices.Contains(history, want) {
				actual = fmt.Sprintf("%s appears out of order", want)
			}
			return &AssertionError{
				Type:     AssertHistoryOrder,
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual:   actual,
				History:  history,
			}
		}
		pos += i + 1
	}
	return nil
}

// assertHistoryCount checks the number of actions in the history.
func assertHistoryCount(history []string, assertion Assertion) error {
	if len(history) != assertion.Count {
		return &AssertionError{
			Type:     AssertHistoryCount,
			Expected: fmt.Sprintf("%d actions", assertion.Count),
			Actual:   fmt.Sprintf("%d actions", len(history)),
			History:  history,
		}
	}
	return nil
}

// assertRecords compares the rendered values of a field across ds.
func assertRecords(kind string, ds dataset.Dataset, history []string, assertion Assertion) error {
	actual := fieldTexts(ds, assertion.Field)
	want := assertion.Values
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(actual, want) {
		return &AssertionError{
			Type:     kind,
			Expected: fmt.Sprintf("%s = %v", assertion.Field, want),
			Actual:   fmt.Sprintf("%s = %v", assertion.Field, actual),
			History:  history,
		}
	}
	return nil
}

// fieldTexts renders field of every record; a missing field renders as "".
func fieldTexts(ds dataset.Dataset, field string) []string {
	out := make([]string, 0, len(ds))
	for _, rec := range ds {
		v, _ := rec.Get(field)
		out = append(out, value.Text(v))
	}
	return out
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions. File paths are
// resolved against the working directory.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertHistoryContains:
			err = assertHistoryContains(result.History, assertion)
		case AssertHistoryOrder:
			err = assertHistoryOrder(result.History, assertion)
		case AssertHistoryCount:
			err = assertHistoryCount(result.History, assertion)
		case AssertRecords:
			err = assertRecords(AssertRecords, result.Current, result.History, assertion)
		case AssertFileRecords:
			ds, loadErr := codec.Load(assertion.Path)
			if loadErr != nil {
				err = fmt.Errorf("assertion[%d]: %w", i, loadErr)
			} else {
				err = assertRecords(AssertFileRecords, ds, result.History, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
