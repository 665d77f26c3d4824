package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/video-chat/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "new database in missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(testutil.CreateTempDir(t), "nested", "history.db")
			},
		},
		{
			name: "existing database from another tool",
			setup: func(t *testing.T) string {
				dbPath := filepath.Join(testutil.CreateTempDir(t), "history.db")
				testutil.CreateSQLiteFixture(t, dbPath)
				return dbPath
			},
		},
		{
			name: "in memory",
			setup: func(t *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "parent is a file",
			setup: func(t *testing.T) string {
				dir := testutil.CreateTempDir(t)
				blocker := filepath.Join(dir, "blocker")
				testutil.WriteFile(t, blocker, "x")
				return filepath.Join(blocker, "history.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var storageErr *StorageError
				if !errors.As(err, &storageErr) {
					t.Errorf("OpenDatabase() error = %T, want *StorageError", err)
				}
				return
			}
			defer db.Close()

			if got := testutil.CountRows(t, db, "chats"); got != 0 {
				t.Errorf("chats has %d rows, want 0", got)
			}
			if got := testutil.CountRows(t, db, "messages"); got != 0 {
				t.Errorf("messages has %d rows, want 0", got)
			}
		})
	}
}

func TestOpenDatabase_KeepsExistingTables(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "history.db")
	testutil.CreateSQLiteFixture(t, dbPath)

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if got := testutil.CountRows(t, db, "notes"); got != 1 {
		t.Errorf("notes has %d rows, want 1", got)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)

	for i := 0; i < 2; i++ {
		if err := migrate(db); err != nil {
			t.Fatalf("migrate() run %d error = %v", i+1, err)
		}
	}
}

func TestOpenDatabase_Reopen(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "history.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	if _, err := db.Exec(`INSERT INTO chats (id, video_id, export_date, message_count) VALUES ('c1', 'v', '2024', 0)`); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file missing: %v", err)
	}

	db, err = OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() reopen error = %v", err)
	}
	defer db.Close()
	if got := testutil.CountRows(t, db, "chats"); got != 1 {
		t.Errorf("chats has %d rows after reopen, want 1", got)
	}
}
