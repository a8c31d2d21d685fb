package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/sieve/internal/session"
)

// SessionInfo summarises a stored session.
type SessionInfo struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Format  string `json:"format"`
	Actions int    `json:"actions"`
	LastSeq int64  `json:"last_seq"`
	Current bool   `json:"current"`
}

// ListSessions returns every stored session ordered by id.
// Returns an empty slice (not nil) when there are none.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	current, err := s.Current(ctx)
	if err != nil && !errors.Is(err, ErrNoCurrent) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.source, s.format, s.last_seq,
		       (SELECT COUNT(*) FROM actions a WHERE a.session_id = s.id)
		FROM sessions s
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	infos := []SessionInfo{}
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.Source, &info.Format, &info.LastSeq, &info.Actions); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.Current = info.ID == current
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return infos, nil
}

// Current returns the id of the current session, or ErrNoCurrent.
func (s *Store) Current(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, currentKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCurrent
	}
	if err != nil {
		return "", fmt.Errorf("read current session: %w", err)
	}
	return id, nil
}

// ReadActions returns the stored history of a session ordered by seq.
func (s *Store) ReadActions(ctx context.Context, sessionID string) ([]session.Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM actions
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	return scanActions(rows)
}

// ReadActionsOfKind returns the session's actions of the given kinds, in seq
// order. It is served by idx_actions_kind.
func (s *Store) ReadActionsOfKind(ctx context.Context, sessionID string, kinds ...session.Kind) ([]session.Action, error) {
	if len(kinds) == 0 {
		return []session.Action{}, nil
	}
	args := make([]any, 0, len(kinds)+1)
	args = append(args, sessionID)
	for _, k := range kinds {
		args = append(args, string(k))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(kinds)), ", ")
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM actions
		WHERE session_id = ? AND kind IN (`+placeholders+`)
		ORDER BY seq ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	return scanActions(rows)
}

func scanActions(rows *sql.Rows) ([]session.Action, error) {
	defer rows.Close()

	actions := []session.Action{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a, err := unmarshalAction(payload)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}

// LoadSession rebuilds a stored session by replaying its history over its
// snapshot. It also returns the stored format name.
func (s *Store) LoadSession(ctx context.Context, id string, opts ...session.Option) (*session.Session, string, error) {
	var source, format, snapshotJSON string
	var lastSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT source, format, snapshot, last_seq FROM sessions WHERE id = ?
	`, id).Scan(&source, &format, &snapshotJSON, &lastSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("load session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("load session %s: %w", id, err)
	}

	snapshot, err := unmarshalSnapshot(snapshotJSON)
	if err != nil {
		return nil, "", fmt.Errorf("load session %s: %w", id, err)
	}
	actions, err := s.ReadActions(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("load session %s: %w", id, err)
	}

	// Resume after the highest seq ever issued, including undone ones.
	opts = append(opts, session.WithClock(session.NewClockAt(lastSeq)))
	sess, err := session.Replay(id, source, snapshot, actions, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("load session %s: %w", id, err)
	}
	return sess, format, nil
}
