package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/dataset"
)

// StepRecord is one CLI invocation of a scenario run.
type StepRecord struct {
	Args   []string `json:"args"`
	Exit   int      `json:"exit"`
	Stdout string   `json:"stdout"`
	Stderr string   `json:"-"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Steps holds every invocation in order.
	Steps []StepRecord `json:"steps"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Session is the id of the current session after the last step, empty
	// when none is open.
	Session string `json:"session,omitempty"`

	// History holds the current session's actions rendered as history lines.
	History []string `json:"history,omitempty"`

	// Current holds the current session's records.
	Current dataset.Dataset `json:"current,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepRecord{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep records an invocation.
func (r *Result) AddStep(args []string, exit int, stdout, stderr string) {
	r.Steps = append(r.Steps, StepRecord{Args: args, Exit: exit, Stdout: stdout, Stderr: stderr})
}

// Transcript renders the steps as a shell-like log: the command line, the
// exit code when it is not zero, then stdout.
func (r *Result) Transcript() string {
	var b strings.Builder
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "$ sieve %s\n", strings.Join(s.Args, " "))
		if s.Exit != 0 {
			fmt.Fprintf(&b, "[exit %d]\n", s.Exit)
		}
		b.WriteString(s.Stdout)
	}
	return b.String()
}
