// Package store provides SQLite-backed persistence for sessions.
//
// Each session is stored as its snapshot (the dataset as loaded, as a JSON
// array) plus the committed actions in seq order. The current dataset is
// never stored: it is rebuilt by replaying the actions over the snapshot,
// which keeps undo exact across process restarts.
//
// Tables:
//   - sessions: id, source path, format, snapshot, highest issued seq
//   - actions: (session_id, seq) keyed history, payload as JSON
//   - meta: key/value pairs, holding the current session pointer
//
// All history reads order by seq ASC. Session listings order by id, which
// for UUIDv7 ids is creation order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting a session deletes its actions
package store
