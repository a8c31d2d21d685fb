package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/recipe"
)

// ValidationResult holds the outcome of validating a recipe.
type ValidationResult struct {
	Recipe string `json:"recipe"`
	Valid  bool   `json:"valid"`
	Steps  int    `json:"steps"`
	Error  string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <recipe>",
		Short: "Check a recipe without running it",
		Long: `Parse a YAML or CUE recipe and check every step: exactly one of filter,
sort or reset, a known condition and a known order.

Exit codes:
  0 - Recipe is valid
  1 - Recipe is invalid
  2 - Command error (file not found, unsupported extension)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	r, err := recipe.Load(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, recipe.ErrUnsupportedFormat) {
		return WrapExitError(ExitCommandError, "cannot read recipe", err)
	}

	result := ValidationResult{Recipe: path, Valid: err == nil}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Steps = len(r.Steps)
	}

	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		if err := out.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d steps\n", path, result.Steps)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", path)
	}

	if !result.Valid {
		return WrapExitError(ExitFailure, "invalid recipe", err)
	}
	return nil
}
