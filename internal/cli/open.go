package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/codec"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/store"
)

// OpenOptions holds flags for the open command.
type OpenOptions struct {
	*RootOptions
}

// OpenResult is the JSON payload of the open command.
type OpenResult struct {
	Session string `json:"session"`
	Source  string `json:"source"`
	Format  string `json:"format"`
	Records int    `json:"records"`
}

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Load a data file into a new session",
		Long: `Load records from a CSV, JSON, YAML or XML file into a new session and
make it the current session. The format follows the file extension.

Example:
  sieve open people.csv
  sieve open data/people.json --db ./work.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(opts, args[0], cmd)
		},
	}
	return cmd
}

func runOpen(opts *OpenOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := opts.logger()

	format, err := codec.FormatFromPath(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open "+path, err)
	}
	ds, err := codec.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load "+path, err)
	}

	ids := opts.IDs
	if ids == nil {
		ids = session.UUIDv7Generator{}
	}
	sess := session.New(ids.Generate(), path, ds, session.WithLogger(log))

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.CreateSession(ctx, sess, string(format)); err != nil {
		return WrapExitError(ExitCommandError, "failed to store session", fmt.Errorf("%w: %w", errDatabase, err))
	}
	if err := st.SetCurrent(ctx, sess.ID()); err != nil {
		return WrapExitError(ExitCommandError, "failed to select session", fmt.Errorf("%w: %w", errDatabase, err))
	}
	log.Info("session opened",
		zap.String("session", sess.ID()),
		zap.String("source", path),
		zap.Int("records", len(ds)),
	)

	out := newFormatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return out.Success(OpenResult{Session: sess.ID(), Source: path, Format: string(format), Records: len(ds)})
	}
	return out.Success(fmt.Sprintf("Opened %s (%d records) as session %s", path, len(ds), sess.ID()))
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sessions",
		Short:         "List stored sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(rootOpts, cmd)
		},
	}
	return cmd
}

func runSessions(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListSessions(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", fmt.Errorf("%w: %w", errDatabase, err))
	}

	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return out.Success(infos)
	}

	w := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(w, "No sessions.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tSOURCE\tFORMAT\tACTIONS")
	for _, info := range infos {
		mark := ""
		if info.Current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", mark, info.ID, info.Source, info.Format, info.Actions)
	}
	return tw.Flush()
}

// NewUseCommand creates the use command.
func NewUseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "use <session-id>",
		Short:         "Make a stored session current",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUse(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runUse(opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SetCurrent(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, "unknown session "+id, err)
		}
		return WrapExitError(ExitCommandError, "failed to select session", fmt.Errorf("%w: %w", errDatabase, err))
	}
	opts.logger().Debug("session selected", zap.String("session", id))

	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return out.Success(map[string]string{"session": id})
	}
	return out.Success("Now using session " + id)
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "drop <session-id>",
		Short:         "Delete a stored session and its history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runDrop(opts *RootOptions, id string, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteSession(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, "unknown session "+id, err)
		}
		return WrapExitError(ExitCommandError, "failed to delete session", fmt.Errorf("%w: %w", errDatabase, err))
	}
	out := newFormatter(opts, cmd)
	if opts.Format == "json" {
		return out.Success(map[string]string{"dropped": id})
	}
	return out.Success("Dropped session " + id)
}
