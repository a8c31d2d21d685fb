package cli

import (
	"errors"
	"io"
)

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported to stderr, or to stdout as a JSON envelope when the resolved
// format (flag, SIEVE_FORMAT or config file) is json.
func Execute(args []string, stdout, stderr io.Writer, options ...Option) int {
	opts := newRootOptions(options)
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	// Commands return coded errors; anything else is a usage error from cobra.
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitCommandError, "invalid usage", err)
	}
	out := &OutputFormatter{Format: opts.Format, Writer: stdout, ErrWriter: stderr}
	out.Report(err)
	return GetExitCode(err)
}
