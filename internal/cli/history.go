package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/recipe"
	"github.com/roach88/sieve/internal/session"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Export string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the committed actions of the current session",
		Long: `List the committed actions of the current session, oldest first, with the
seq used by undo.

With --export the filters, sorts and resets are written as a YAML recipe that
'sieve apply' can run against another file. Use --export - for stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Export, "export", "", "write the history as a YAML recipe to this path")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ws, err := openWorkspace(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer ws.Close()

	if opts.Export != "" {
		steps, err := ws.store.ReadActionsOfKind(cmd.Context(), ws.session.ID(),
			session.KindFilter, session.KindSort, session.KindReset)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read history", fmt.Errorf("%w: %w", errDatabase, err))
		}
		return exportRecipe(opts, steps, cmd)
	}

	history := ws.session.History()

	if opts.Format == "json" {
		return newFormatter(opts.RootOptions, cmd).Success(history)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session %s\n", ws.session.ID())
	for _, a := range history {
		fmt.Fprintf(w, "  #%d  %s\n", a.Seq, a)
	}
	return nil
}

func exportRecipe(opts *HistoryOptions, history []session.Action, cmd *cobra.Command) (err error) {
	r := recipe.FromHistory(history)
	if opts.Export == "-" {
		return r.WriteYAML(cmd.OutOrStdout())
	}

	f, err := os.Create(opts.Export)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create recipe file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to write recipe file", cerr)
		}
	}()
	if err := r.WriteYAML(f); err != nil {
		return WrapExitError(ExitCommandError, "failed to write recipe file", err)
	}
	opts.logger().Debug("recipe exported", zap.String("path", opts.Export), zap.Int("steps", len(r.Steps)))

	out := newFormatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return out.Success(map[string]any{"path": opts.Export, "steps": len(r.Steps)})
	}
	return out.Success(fmt.Sprintf("Wrote %d steps to %s", len(r.Steps), opts.Export))
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <seq>",
		Short: "Remove one committed action from the history",
		Long: `Remove the action with the given seq (see 'sieve history') and rebuild the
current dataset as if it had never been taken. The load cannot be undone. If
a later action no longer applies without it, nothing changes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndo(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runUndo(opts *RootOptions, arg string, cmd *cobra.Command) error {
	seq, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid seq "+strconv.Quote(arg), err)
	}

	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	removed, err := ws.session.Undo(seq)
	if err != nil {
		return WrapExitError(ExitFailure, "undo failed", err)
	}
	if err := ws.store.DeleteAction(ctx, ws.session.ID(), seq); err != nil {
		return WrapExitError(ExitCommandError, "failed to record undo", fmt.Errorf("%w: %w", errDatabase, err))
	}

	current := ws.session.Current()
	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return out.Success(map[string]any{"undone": removed, "records": nonNil(current)})
	}
	if err := WriteTable(cmd.OutOrStdout(), current); err != nil {
		return err
	}
	return out.Success(fmt.Sprintf("Undid #%d: %s", removed.Seq, removed))
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reset",
		Short:         "Restore the dataset as it was loaded",
		Long:          "Restore the dataset as it was loaded. The reset is recorded and can be undone.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, cmd)
		},
	}
	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	a := ws.session.Reset()
	if err := ws.record(ctx, a); err != nil {
		return err
	}
	current := ws.session.Current()
	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return out.Success(map[string]any{"action": a, "records": len(current)})
	}
	return out.Success(fmt.Sprintf("Reset #%d: %d records", a.Seq, len(current)))
}
