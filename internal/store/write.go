package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/sieve/internal/session"
)

const currentKey = "current_session"

// CreateSession stores a new session with its snapshot and history.
// The session id must not already exist.
func (s *Store) CreateSession(ctx context.Context, sess *session.Session, format string) error {
	snapshot, err := marshalSnapshot(sess.Snapshot())
	if err != nil {
		return fmt.Errorf("create session %s: %w", sess.ID(), err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (id, source, format, snapshot, last_seq)
			VALUES (?, ?, ?, ?, ?)
		`, sess.ID(), sess.Source(), format, snapshot, sess.Clock().Current())
		if err != nil {
			return fmt.Errorf("create session %s: %w", sess.ID(), err)
		}

		for _, a := range sess.History() {
			if err := insertAction(ctx, tx, sess.ID(), a); err != nil {
				return fmt.Errorf("create session %s: %w", sess.ID(), err)
			}
		}
		return nil
	})
}

// AppendAction records a committed action and advances the session's
// highest seq.
func (s *Store) AppendAction(ctx context.Context, sessionID string, a session.Action) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertAction(ctx, tx, sessionID, a); err != nil {
			return fmt.Errorf("append action: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE sessions SET last_seq = MAX(last_seq, ?) WHERE id = ?
		`, a.Seq, sessionID)
		if err != nil {
			return fmt.Errorf("append action: %w", err)
		}
		return requireRow(res, sessionID)
	})
}

// DeleteAction removes an undone action from the history. The session's
// highest seq is kept so that the seq is never issued again.
func (s *Store) DeleteAction(ctx context.Context, sessionID string, seq int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM actions WHERE session_id = ? AND seq = ?
	`, sessionID, seq)
	if err != nil {
		return fmt.Errorf("delete action %d: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete action %d: %w", seq, err)
	}
	if n == 0 {
		return fmt.Errorf("delete action %d of %s: %w", seq, sessionID, sql.ErrNoRows)
	}
	return nil
}

// DeleteSession removes a session and its history. If it was current, no
// session is current afterwards.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
		if err := requireRow(res, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM meta WHERE key = ? AND value = ?`, currentKey, id)
		if err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
		return nil
	})
}

// SetCurrent makes id the current session.
func (s *Store) SetCurrent(ctx context.Context, id string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM sessions WHERE id = ?)
	`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("set current: %w", err)
	}
	if !exists {
		return fmt.Errorf("set current %s: %w", id, ErrNotFound)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, currentKey, id)
	if err != nil {
		return fmt.Errorf("set current: %w", err)
	}
	return nil
}

func insertAction(ctx context.Context, tx *sql.Tx, sessionID string, a session.Action) error {
	payload, err := marshalAction(a)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO actions (session_id, seq, kind, payload)
		VALUES (?, ?, ?, ?)
	`, sessionID, a.Seq, string(a.Kind), payload)
	if err != nil {
		return fmt.Errorf("insert action %d: %w", a.Seq, err)
	}
	return nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}
