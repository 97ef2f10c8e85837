// Package store provides the durable key/value store that survives client
// restarts. It holds the auth token, the current user record, and the active
// chat session token.
//
// Every operation is infallible from the caller's perspective: storage faults
// (missing directory, unwritable disk, corrupt rows) are logged and swallowed,
// so losing persistence degrades to "not remembered" instead of breaking the
// client.
package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Keys used by the rest of the client. Kept together so logout can clear the
// full set.
const (
	KeyAuthToken    = "auth_token"
	KeyCurrentUser  = "current_user"
	KeySessionToken = "session_token"
)

// Store is a SQLite-backed key/value store. A Store whose database failed to
// open stays usable: reads miss and writes are dropped.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the state database at path. Open never fails; when the
// database cannot be opened the returned store operates in memory-less mode.
func Open(path string, logger *slog.Logger) *Store {
	s := &Store{logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("state directory unavailable, persistence disabled", "path", path, "error", err)
		return s
	}

	db, err := sql.Open("sqlite", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		logger.Warn("state database unavailable, persistence disabled", "path", path, "error", err)
		return s
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		logger.Warn("state schema init failed, persistence disabled", "path", path, "error", err)
		db.Close()
		return s
	}

	s.db = db
	return s
}

// Set serializes value as JSON and stores it under key.
func (s *Store) Set(key string, value any) {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to serialize state value", "key", key, "error", err)
		return
	}
	if _, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data),
	); err != nil {
		s.logger.Warn("failed to persist state value", "key", key, "error", err)
	}
}

// Get deserializes the value stored under key into dest. Returns false when
// the key is absent or the stored value cannot be decoded.
func (s *Store) Get(key string, dest any) bool {
	if s.db == nil {
		return false
	}
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		s.logger.Warn("failed to read state value", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("failed to decode state value", "key", key, "error", err)
		return false
	}
	return true
}

// GetString returns the string stored under key, or "" when absent.
func (s *Store) GetString(key string) string {
	var v string
	if !s.Get(key, &v) {
		return ""
	}
	return v
}

// Remove deletes the value stored under key.
func (s *Store) Remove(key string) {
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.logger.Warn("failed to remove state value", "key", key, "error", err)
	}
}

// Clear deletes every stored value.
func (s *Store) Clear() {
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM kv`); err != nil {
		s.logger.Warn("failed to clear state", "error", err)
	}
}

// Close closes the underlying database.
func (s *Store) Close() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("failed to close state database", "error", err)
	}
	s.db = nil
}
