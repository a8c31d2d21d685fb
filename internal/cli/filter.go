package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/sorting"
)

// ActionResult is the JSON payload of the filter and sort commands.
type ActionResult struct {
	Action    *session.Action `json:"action,omitempty"`
	Committed bool            `json:"committed"`
	Records   dataset.Dataset `json:"records"`
}

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Commit bool
	Strict bool
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter <field> <condition> [value]",
		Short: "Preview or commit a filter on the current dataset",
		Long: `Keep the records whose field satisfies the condition. The value is read
against the field's kind: numbers for numeric fields and sequence lengths or
averages, text otherwise. The true and false conditions take no value.

Without --commit the result is only previewed. An unknown condition leaves
the dataset unchanged with a warning; --strict turns that into an error. A
field holding values of more than one kind is also left unchanged.

Example:
  sieve filter age greater_than 30
  sieve filter name starts_with a --commit
  sieve filter scores average_greater 75 --commit`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 3 {
				raw = args[2]
			}
			return runFilter(opts, args[0], args[1], raw, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "apply the filter and record it in the history")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject unknown conditions")

	return cmd
}

func runFilter(opts *FilterOptions, field, name, raw string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer ws.Close()

	current := ws.session.Current()
	kind := dataset.Classify(current, field)
	cond, err := filter.ParseCondition(name)
	if err != nil && opts.Strict {
		return WrapExitError(ExitFailure, "filter rejected", err)
	}
	if err != nil || kind == dataset.KindMixed {
		// Passthrough: nothing to commit.
		unchanged, err := filter.NewEvaluator(opts.logger()).EvaluateNamed(current, field, name, raw)
		if err != nil {
			return WrapExitError(ExitFailure, "filter failed", err)
		}
		return writeActionResult(opts.RootOptions, cmd, nil, false, unchanged)
	}

	arg, err := filter.ParseLiteral(cond, kind, raw)
	if err != nil {
		return WrapExitError(ExitFailure, "filter rejected", err)
	}
	action := session.Filter(field, cond, arg)
	return previewOrCommit(ctx, opts.RootOptions, ws, action, opts.Commit, cmd)
}

// SortOptions holds flags for the sort command.
type SortOptions struct {
	*RootOptions
	Commit bool
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SortOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sort <field> <order>",
		Short: "Preview or commit a sort of the current dataset",
		Long: `Order the records by a field. Orders are ascending and descending for
numbers and sequences, a_to_z and z_to_a for text, false_to_true and
true_to_false for booleans. An unknown order sorts ascending.

Every record must carry the field. The sort is stable.

Example:
  sieve sort age descending --commit
  sieve sort name a_to_z`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "apply the sort and record it in the history")

	return cmd
}

func runSort(opts *SortOptions, field, name string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer ws.Close()

	order := sorting.ParseOrder(name)
	if string(order) != name {
		opts.logger().Warn("unknown sort order, sorting ascending", zap.String("order", name))
	}
	return previewOrCommit(ctx, opts.RootOptions, ws, session.Sort(field, order), opts.Commit, cmd)
}

func previewOrCommit(ctx context.Context, opts *RootOptions, ws *workspace, action session.Action, commit bool, cmd *cobra.Command) error {
	if !commit {
		preview, err := ws.session.Preview(action)
		if err != nil {
			return WrapExitError(ExitFailure, action.String()+" failed", err)
		}
		return writeActionResult(opts, cmd, &action, false, preview)
	}

	committed, err := ws.session.Commit(action)
	if err != nil {
		return WrapExitError(ExitFailure, action.String()+" failed", err)
	}
	if err := ws.record(ctx, committed); err != nil {
		return err
	}
	return writeActionResult(opts, cmd, &committed, true, ws.session.Current())
}

func writeActionResult(opts *RootOptions, cmd *cobra.Command, action *session.Action, committed bool, ds dataset.Dataset) error {
	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(ActionResult{Action: action, Committed: committed, Records: nonNil(ds)})
	}

	w := cmd.OutOrStdout()
	if err := WriteTable(w, ds); err != nil {
		return err
	}
	switch {
	case action == nil:
		fmt.Fprintln(w, "Dataset unchanged.")
	case committed:
		fmt.Fprintf(w, "Committed #%d: %s\n", action.Seq, action)
	default:
		fmt.Fprintf(w, "Preview of %s (use --commit to apply)\n", action)
	}
	return nil
}
