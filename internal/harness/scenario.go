package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an end-to-end run of the CLI.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionIDs are handed out in order to each session the scenario opens.
	// If empty, ids are "session-1", "session-2", and so on.
	SessionIDs []string `yaml:"session_ids,omitempty"`

	// Files are written into the working directory before the first step,
	// keyed by relative path.
	Files map[string]string `yaml:"files,omitempty"`

	// Steps are CLI invocations, run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final session and written files.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one CLI invocation.
type Step struct {
	// Run holds the arguments after the program name. --db is added by the
	// harness.
	Run []string `yaml:"run"`

	// Expect specifies the expected exit code and output. If nil, the step
	// must exit 0.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	Exit           int      `yaml:"exit"`
	StdoutContains []string `yaml:"stdout_contains,omitempty"`
	StderrContains []string `yaml:"stderr_contains,omitempty"`
}

// Assertion validates the state left behind by a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "history_contains": Action appears in the current history
	// - "history_order": Actions appear in order
	// - "history_count": History holds exactly Count actions
	// - "records": Current records carry Values of Field, in order
	// - "file_records": The file at Path carries Values of Field, in order
	Type string `yaml:"type"`

	// Action is a history line such as "filter age greater_than 30"
	// (used by history_contains).
	Action string `yaml:"action,omitempty"`

	// Actions is the expected action order (used by history_order).
	Actions []string `yaml:"actions,omitempty"`

	// Count is the expected number of actions (used by history_count).
	Count int `yaml:"count,omitempty"`

	// Field and Values describe the expected records (used by records and
	// file_records). Values are compared as rendered text.
	Field  string   `yaml:"field,omitempty"`
	Values []string `yaml:"values,omitempty"`

	// Path is the file to load (used by file_records).
	Path string `yaml:"path,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryContains = "history_contains"
	AssertHistoryOrder    = "history_order"
	AssertHistoryCount    = "history_count"
	AssertRecords         = "records"
	AssertFileRecords     = "file_records"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for path := range s.Files {
		if !filepath.IsLocal(path) {
			return fmt.Errorf("files: %q must be a relative path inside the working directory", path)
		}
	}

	for i, step := range s.Steps {
		if len(step.Run) == 0 {
			return fmt.Errorf("steps[%d]: run is required", i)
		}
		if step.Expect != nil && step.Expect.Exit < 0 {
			return fmt.Errorf("steps[%d].expect: exit must be non-negative", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHistoryContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for history_contains", index)
		}
	case AssertHistoryOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for history_order", index)
		}
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	case AssertRecords:
		if a.Field == "" {
			return fmt.Errorf("assertions[%d]: field is required for records", index)
		}
	case AssertFileRecords:
		if a.Path == "" || a.Field == "" {
			return fmt.Errorf("assertions[%d]: path and field are required for file_records", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// sessionIDs returns the ids handed out to opened sessions.
func (s *Scenario) sessionIDs() []string {
	if len(s.SessionIDs) > 0 {
		return s.SessionIDs
	}
	ids := make([]string, 0, len(s.Steps))
	for i := range s.Steps {
		ids = append(ids, fmt.Sprintf("session-%d", i+1))
	}
	return ids
}
