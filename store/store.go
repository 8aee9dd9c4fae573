// Package store persists settings and transcript history in a local
// SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Setting keys. Values are stored as strings; booleans as "1"/"0".
const (
	KeyBinding        = "hotkey_binding"
	KeyHotkeyEnabled  = "hotkey_enabled"
	KeyCleanupEnabled = "cleanup_enabled"
	KeyDevice         = "input_device"
	KeyMode           = "transcription_mode"
)

type Store struct {
	db *sql.DB
}

// Record is one persisted transcript history entry.
type Record struct {
	RawText     string
	CleanedText string
	Language    string
	ModeID      string
	Timestamp   time.Time
}

// DefaultPath returns the default database location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	xdgData := os.Getenv("XDG_DATA_HOME")
	if xdgData == "" {
		xdgData = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(xdgData, "murmur", "murmur.sqlite")
}

// Open opens (creating if needed) the settings database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS history (
			position INTEGER PRIMARY KEY,
			rawText TEXT NOT NULL,
			cleanedText TEXT NOT NULL,
			language TEXT NOT NULL,
			modeId TEXT NOT NULL,
			timestampMs INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value for key, or "" if unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// GetBool reads a boolean setting. Unset keys return fallback.
func (s *Store) GetBool(key string, fallback bool) (bool, error) {
	value, err := s.Get(key)
	if err != nil {
		return fallback, err
	}
	switch value {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return fallback, nil
	}
}

func (s *Store) SetBool(key string, on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	return s.Set(key, value)
}

// SaveHistory replaces the persisted history with records, front first.
func (s *Store) SaveHistory(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for i, r := range records {
		_, err := tx.Exec(`
			INSERT INTO history (position, rawText, cleanedText, language, modeId, timestampMs)
			VALUES (?, ?, ?, ?, ?, ?)
		`, i, r.RawText, r.CleanedText, r.Language, r.ModeID, r.Timestamp.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert history row: %w", err)
		}
	}
	return tx.Commit()
}

// LoadHistory returns the persisted history, front first.
func (s *Store) LoadHistory() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT rawText, cleanedText, language, modeId, timestampMs
		FROM history
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var ts int64
		if err := rows.Scan(&r.RawText, &r.CleanedText, &r.Language, &r.ModeID, &ts); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		records = append(records, r)
	}
	return records, rows.Err()
}
