package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/sieve/internal/codec"
	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/recipe"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/sorting"
	"github.com/roach88/sieve/internal/stats"
	"github.com/roach88/sieve/internal/store"
	"github.com/roach88/sieve/internal/value"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Action failure (a filter, sort or undo could not be applied)
	ExitCommandError = 2 // Command error (bad paths, unreadable files, no session, etc.)
)

// Error codes reported in the JSON error envelope.
const (
	CodeCommand    = "E001" // bad arguments or configuration
	CodeFile       = "E002" // a data file could not be read or written
	CodeStore      = "E003" // the session database failed
	CodeNoSession  = "E004" // no session is open
	CodeAction     = "E005" // a filter, sort or undo failed
	CodeRecipe     = "E006" // the recipe is invalid
	CodeStatistics = "E007" // statistics could not be computed
)

// ErrNoSession is returned by session commands when no session is current.
var ErrNoSession = errors.New("no open session (run 'sieve open <file>' first)")

// errDatabase marks failures of the session database.
var errDatabase = errors.New("session database")

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode classifies err for the JSON error envelope.
func ErrorCode(err error) string {
	var codecErr *codec.Error
	switch {
	case errors.Is(err, ErrNoSession):
		return CodeNoSession
	case errors.Is(err, errDatabase):
		return CodeStore
	case errors.As(err, &codecErr), errors.Is(err, codec.ErrUnsupportedFormat):
		return CodeFile
	case errors.Is(err, recipe.ErrInvalidStep), errors.Is(err, recipe.ErrUnsupportedFormat):
		return CodeRecipe
	case errors.Is(err, stats.ErrEmptyDataset), errors.Is(err, stats.ErrNoValues):
		return CodeStatistics
	case errors.Is(err, filter.ErrUnknownCondition), errors.Is(err, filter.ErrBadLiteral),
		errors.Is(err, filter.ErrEmptySequence), errors.Is(err, filter.ErrKindMismatch),
		errors.Is(err, value.ErrIncomparable), errors.Is(err, sorting.ErrMissingField),
		errors.Is(err, session.ErrNoSuchAction), errors.Is(err, session.ErrNotUndoable):
		return CodeAction
	case errors.Is(err, store.ErrNotFound):
		return CodeCommand
	}
	if GetExitCode(err) == ExitFailure {
		return CodeAction
	}
	return CodeCommand
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Data    any       `json:"data,omitempty"`    // success payload
	Error   *CLIError `json:"error,omitempty"`   // error details
	Session string    `json:"session,omitempty"` // session the command ran against
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Report writes err through the formatter. JSON errors go to Writer so that
// callers always receive a well-formed envelope; text errors go to ErrWriter.
func (f *OutputFormatter) Report(err error) {
	out := *f
	if f.Format != "json" {
		out.Writer = f.GetErrWriter()
	}
	var details any
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		details = exitErr.Err.Error()
	}
	_ = out.Error(ErrorCode(err), err.Error(), details)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// WriteTable renders ds as an aligned table. Columns follow the union of all
// record fields; missing values are left blank.
func WriteTable(w io.Writer, ds dataset.Dataset) error {
	if len(ds) == 0 {
		_, err := fmt.Fprintln(w, "(no records)")
		return err
	}
	fields := ds.FieldUnion()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, f := range fields {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, f)
	}
	fmt.Fprintln(tw)
	for _, rec := range ds {
		for i, f := range fields {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			if v, ok := rec.Get(f); ok {
				fmt.Fprint(tw, value.Text(v))
			}
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d records)\n", len(ds))
	return err
}
