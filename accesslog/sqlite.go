package accesslog

import (
	"database/sql"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteStore persists the access log in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at filename. An empty
// filename uses a shared in-memory database.
func NewSQLiteStore(filename string) (*SQLiteStore, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS access_log (
		id TEXT PRIMARY KEY,
		time TEXT NOT NULL,
		remote_addr TEXT NOT NULL,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status INTEGER NOT NULL,
		bytes_sent INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		user_agent TEXT NOT NULL
	)`); err != nil {
		return nil, err
	}
	if _, err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_access_log_time ON access_log (time)"); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(entry Entry) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO access_log (id, time, remote_addr, method, path, status, bytes_sent, duration_ms, user_agent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID,
		entry.Time.UTC().Format(time.RFC3339Nano),
		entry.RemoteAddr,
		entry.Method,
		entry.Path,
		entry.Status,
		entry.BytesSent,
		entry.DurationMs,
		entry.UserAgent,
	)
	return err
}

func (s *SQLiteStore) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = memStoreLimit
	}
	rows, err := s.db.Query(
		"SELECT id, time, remote_addr, method, path, status, bytes_sent, duration_ms, user_agent FROM access_log ORDER BY time DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var stamp string
		if err := rows.Scan(
			&entry.ID,
			&stamp,
			&entry.RemoteAddr,
			&entry.Method,
			&entry.Path,
			&entry.Status,
			&entry.BytesSent,
			&entry.DurationMs,
			&entry.UserAgent,
		); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
			entry.Time = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
