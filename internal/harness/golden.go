package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario in a fresh temporary directory and
// compares its stdout transcript against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the transcript doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, t.TempDir())
	if err != nil {
		return nil, err
	}
	newGoldie(t).Assert(t, scenario.Name, []byte(result.Transcript()))
	return result, nil
}

// AssertGolden compares the given result's transcript against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()
	newGoldie(t).Assert(t, name, []byte(result.Transcript()))
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
