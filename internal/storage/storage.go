package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Offblink/Flow/internal/task"
)

// ErrCorrupt marks a persisted snapshot that failed to parse back into
// valid tasks. The whole load is rejected; the session starts empty.
var ErrCorrupt = errors.New("snapshot corrupt")

// PersistenceError is an I/O failure against the backing store. It is
// never fatal: in-memory state stays authoritative and the next
// mutation retries the save.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store keeps one full snapshot per user key in a sqlite table. Save
// is a single upsert, so a snapshot is replaced whole or not at all.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
	user_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load returns the user's tasks and next id. A missing snapshot is an
// empty initial state, not an error. A snapshot that fails to decode
// yields empty state plus an ErrCorrupt-wrapped error for the caller
// to surface.
func (s *Store) Load(userKey string) (open, completed []task.Task, nextID int, err error) {
	var payload string
	row := s.db.QueryRow(`SELECT payload FROM snapshots WHERE user_key = ?;`, userKey)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, 1, nil
		}
		return nil, nil, 1, &PersistenceError{Op: "load", Err: err}
	}
	open, completed, nextID, err = decodeSnapshot([]byte(payload))
	if err != nil {
		return nil, nil, 1, err
	}
	return open, completed, nextID, nil
}

// Save writes the full snapshot for the user in one statement.
func (s *Store) Save(userKey string, open, completed []task.Task, nextID int) error {
	payload, err := encodeSnapshot(open, completed, nextID)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	now := time.Now().Format(task.StampLayout)
	_, err = s.db.Exec(`
INSERT INTO snapshots (user_key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(user_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at;`,
		userKey, string(payload), now)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
