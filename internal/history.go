package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry summarizes a saved chat
type HistoryEntry struct {
	ID           string    `json:"id" yaml:"id"`
	VideoID      string    `json:"video_id" yaml:"video_id"`
	VideoTitle   string    `json:"video_title,omitempty" yaml:"video_title,omitempty"`
	ExportDate   time.Time `json:"export_date" yaml:"export_date"`
	MessageCount int       `json:"message_count" yaml:"message_count"`
}

// HistoryStore persists exported chats in SQLite
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a HistoryStore on an opened database
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Save stores a record and returns its id. Records without an id get a new one.
func (s *HistoryStore) Save(ctx context.Context, rec *ExportRecord) (string, error) {
	if rec == nil || len(rec.Messages) == 0 {
		return "", ErrEmptyHistory
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Re-saving a chat replaces its messages
	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return "", fmt.Errorf("failed to clear messages: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chats (id, video_id, video_title, export_date, message_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			video_id = excluded.video_id,
			video_title = excluded.video_title,
			export_date = excluded.export_date,
			message_count = excluded.message_count`,
		id, rec.VideoID, rec.VideoTitle, formatTime(rec.ExportDate), len(rec.Messages))
	if err != nil {
		return "", fmt.Errorf("failed to save chat: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO messages (chat_id, seq, sender, content, timestamp) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, msg := range rec.Messages {
		if _, err := stmt.ExecContext(ctx, id, i, string(msg.Sender), msg.Content, formatTime(msg.Timestamp)); err != nil {
			return "", fmt.Errorf("failed to save message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit chat: %w", err)
	}

	rec.ID = id
	return id, nil
}

// List returns all saved chats, newest first
func (s *HistoryStore) List(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, video_id, video_title, export_date, message_count
		FROM chats ORDER BY export_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var exported string
		if err := rows.Scan(&entry.ID, &entry.VideoID, &entry.VideoTitle, &exported, &entry.MessageCount); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		entry.ExportDate = parseTime(exported)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Load returns a saved chat by id or unique id prefix
func (s *HistoryStore) Load(ctx context.Context, idOrPrefix string) (*ExportRecord, error) {
	id, err := s.resolveID(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	var rec ExportRecord
	var exported string
	err = s.db.QueryRowContext(ctx,
		"SELECT id, video_id, video_title, export_date FROM chats WHERE id = ?", id).
		Scan(&rec.ID, &rec.VideoID, &rec.VideoTitle, &exported)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat %s: %w", id, err)
	}
	rec.ExportDate = parseTime(exported)

	rows, err := s.db.QueryContext(ctx,
		"SELECT sender, content, timestamp FROM messages WHERE chat_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg Message
		var sender, ts string
		if err := rows.Scan(&sender, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		msg.Sender = Sender(sender)
		msg.Timestamp = parseTime(ts)
		rec.Messages = append(rec.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return &rec, nil
}

// Delete removes a saved chat by id or unique id prefix
func (s *HistoryStore) Delete(ctx context.Context, idOrPrefix string) error {
	id, err := s.resolveID(ctx, idOrPrefix)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", id, err)
	}
	return nil
}

func (s *HistoryStore) resolveID(ctx context.Context, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("chat %w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM chats WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2",
		idOrPrefix, idOrPrefix+"%", idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan failed: %w", err)
		}
		if id == idOrPrefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("chat %s %w", idOrPrefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("chat id prefix %q is ambiguous", idOrPrefix)
	}
}

// storedTimeLayout is fixed-width so stored timestamps sort lexically
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
