package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sieve/internal/dataset"
	"github.com/roach88/sieve/internal/session"
	"github.com/roach88/sieve/internal/store"
)

// workspace is the current session together with the store it lives in.
type workspace struct {
	store   *store.Store
	session *session.Session
	format  string
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// record persists an action the session has already committed.
func (w *workspace) record(ctx context.Context, a session.Action) error {
	if err := w.store.AppendAction(ctx, w.session.ID(), a); err != nil {
		return WrapExitError(ExitCommandError, "failed to record action", fmt.Errorf("%w: %w", errDatabase, err))
	}
	return nil
}

func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open session database", fmt.Errorf("%w: %w", errDatabase, err))
	}
	return st, nil
}

// openWorkspace opens the store and replays the current session.
// The caller must Close the workspace.
func openWorkspace(ctx context.Context, opts *RootOptions) (*workspace, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}

	id, err := st.Current(ctx)
	if errors.Is(err, store.ErrNoCurrent) {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "no session", ErrNoSession)
	}
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read current session", fmt.Errorf("%w: %w", errDatabase, err))
	}

	sess, format, err := st.LoadSession(ctx, id, session.WithLogger(opts.logger()))
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load session "+id, fmt.Errorf("%w: %w", errDatabase, err))
	}
	opts.logger().Debug("session loaded",
		zap.String("session", id),
		zap.Int("actions", len(sess.History())),
	)
	return &workspace{store: st, session: sess, format: format}, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil(ds dataset.Dataset) dataset.Dataset {
	if ds == nil {
		return dataset.Dataset{}
	}
	return ds
}
