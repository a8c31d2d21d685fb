package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_NarrowAndUndo(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "narrow_and_undo.yaml"))
	require.NoError(t, err)

	// To regenerate:
	//   go test ./internal/harness -run TestRunWithGolden_NarrowAndUndo -update
	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "s-1", result.Session)
}

func TestRunWithGolden_RecipeBatch(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "recipe_batch.yaml"))
	require.NoError(t, err)

	result, err := RunWithGolden(t, scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Session, "apply does not open a session")
}

func TestAssertGolden_FromResult(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "narrow_and_undo.yaml"))
	require.NoError(t, err)
	scenario.Name = "renamed"

	result, err := Run(scenario, t.TempDir())
	require.NoError(t, err)
	AssertGolden(t, "narrow_and_undo", result)
}

// TestScenarios runs every scenario under testdata/scenarios.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario, t.TempDir())
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Steps, len(scenario.Steps))
		})
	}
}
