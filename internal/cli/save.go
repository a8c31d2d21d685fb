package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/codec"
	"github.com/roach88/sieve/internal/recipe"
)

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Write the current dataset to a file",
		Long: `Write the current dataset to a file. The format follows the extension:
.csv, .json, .yaml, .yml or .xml.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runSave(opts *RootOptions, path string, cmd *cobra.Command) error {
	ws, err := openWorkspace(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	current := ws.session.Current()
	if err := codec.Save(current, path); err != nil {
		return WrapExitError(ExitCommandError, "failed to save "+path, err)
	}
	opts.logger().Debug("dataset saved", zap.String("path", path), zap.Int("records", len(current)))
	return writeWritten(opts, cmd, path, len(current))
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a data file to another format",
		Long: `Load a data file and write it in the format of the output extension. No
session is created.

Example:
  sieve convert people.csv people.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runConvert(opts *RootOptions, in, out string, cmd *cobra.Command) error {
	ds, err := codec.Load(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load "+in, err)
	}
	if err := codec.Save(ds, out); err != nil {
		return WrapExitError(ExitCommandError, "failed to save "+out, err)
	}
	opts.logger().Debug("file converted", zap.String("from", in), zap.String("to", out))
	return writeWritten(opts, cmd, out, len(ds))
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <recipe> <input> <output>",
		Short: "Run a recipe against a file and write the result",
		Long: `Run the filter, sort and reset steps of a YAML or CUE recipe against an
input file and write the result to the output file. No session is created.

A recipe looks like:

  steps:
    - filter: {field: age, condition: greater_than_equals, value: 30}
    - sort: {field: name, order: a_to_z}

Recipes can be exported from a session with 'sieve history --export'.

Exit codes:
  0 - Recipe applied and output written
  1 - A step could not be applied
  2 - Command error (unreadable recipe or input, unwritable output)`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runApply(opts *RootOptions, recipePath, in, out string, cmd *cobra.Command) error {
	r, err := recipe.Load(recipePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load recipe", err)
	}
	ds, err := codec.Load(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load "+in, err)
	}

	sess, err := recipe.Run(r, in, ds, opts.logger())
	if err != nil {
		return WrapExitError(ExitFailure, "recipe failed", err)
	}
	result := sess.Current()
	if err := codec.Save(result, out); err != nil {
		return WrapExitError(ExitCommandError, "failed to save "+out, err)
	}

	f := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return f.Success(map[string]any{
			"steps":   len(r.Steps),
			"input":   len(ds),
			"output":  len(result),
			"written": out,
		})
	}
	return f.Success(fmt.Sprintf("Applied %d steps: %d -> %d records, wrote %s", len(r.Steps), len(ds), len(result), out))
}

func writeWritten(opts *RootOptions, cmd *cobra.Command, path string, records int) error {
	f := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return f.Success(map[string]any{"written": path, "records": records})
	}
	return f.Success(fmt.Sprintf("Wrote %d records to %s", records, path))
}
