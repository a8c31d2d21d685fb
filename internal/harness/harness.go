package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/sieve/internal/cli"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/store"
)

// DBName is the session database created in the working directory.
const DBName = "scenario.db"

// Run executes a scenario in dir, which should be empty, and returns the
// result.
//
// Steps run with dir as the working directory so that relative file names
// in arguments resolve against the scenario's files. Run changes the process
// working directory for its duration and is not safe for concurrent use.
func Run(scenario *Scenario, dir string) (result *Result, err error) {
	for name, content := range scenario.Files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	defer func() {
		if cerr := os.Chdir(prev); cerr != nil && err == nil {
			err = cerr
		}
	}()

	db := filepath.Join(dir, DBName)
	ids := session.NewFixedGenerator(scenario.sessionIDs()...)

	result = NewResult()
	for i, step := range scenario.Steps {
		var stdout, stderr bytes.Buffer
		args := append([]string{"--db", db}, step.Run...)
		code := cli.Execute(args, &stdout, &stderr, cli.WithIDGenerator(ids))
		result.AddStep(step.Run, code, stdout.String(), stderr.String())
		checkExpect(i, step, result.Steps[i], result)
	}

	if err := readFinalState(db, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// checkExpect validates a step against its expect clause.
func checkExpect(i int, step Step, rec StepRecord, result *Result) {
	want := ExpectClause{}
	if step.Expect != nil {
		want = *step.Expect
	}

	if rec.Exit != want.Exit {
		result.AddError(fmt.Sprintf("step %d (%s): exit %d, want %d\nstdout: %s\nstderr: %s",
			i, strings.Join(step.Run, " "), rec.Exit, want.Exit, rec.Stdout, rec.Stderr))
		return
	}
	for _, s := range want.StdoutContains {
		if !strings.Contains(rec.Stdout, s) {
			result.AddError(fmt.Sprintf("step %d (%s): stdout does not contain %q\nstdout: %s",
				i, strings.Join(step.Run, " "), s, rec.Stdout))
		}
	}
	for _, s := range want.StderrContains {
		if !strings.Contains(rec.Stderr, s) {
			result.AddError(fmt.Sprintf("step %d (%s): stderr does not contain %q\nstderr: %s",
				i, strings.Join(step.Run, " "), s, rec.Stderr))
		}
	}
}

// readFinalState loads the current session, if any, into result.
func readFinalState(db string, result *Result) error {
	if _, err := os.Stat(db); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	st, err := store.Open(db)
	if err != nil {
		return fmt.Errorf("failed to open scenario database: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	id, err := st.Current(ctx)
	if errors.Is(err, store.ErrNoCurrent) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read current session: %w", err)
	}

	sess, _, err := st.LoadSession(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", id, err)
	}
	result.Session = id
	for _, a := range sess.History() {
		result.History = append(result.History, a.String())
	}
	result.Current = sess.Current()
	return nil
}
