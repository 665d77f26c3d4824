package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS chats (
	id            TEXT PRIMARY KEY,
	video_id      TEXT NOT NULL,
	video_title   TEXT NOT NULL DEFAULT '',
	export_date   TEXT NOT NULL,
	message_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	chat_id   TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
	seq       INTEGER NOT NULL,
	sender    TEXT NOT NULL,
	content   TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	PRIMARY KEY (chat_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_chats_video ON chats(video_id);
`

// OpenDatabase opens (creating if needed) the SQLite history database at path
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	// A single connection keeps in-memory databases shared and serializes writers
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "migrate", Err: err}
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
