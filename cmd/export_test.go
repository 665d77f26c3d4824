package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/video-chat/internal"
	"github.com/iksnae/video-chat/testutil"
)

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	env.seedHistory(t,
		testRecord("11111111-old", testVideoID, day),
		testRecord("22222222-new", testVideoID, day.Add(time.Hour)),
	)

	tests := []struct {
		name      string
		args      []string
		wantFiles []string
	}{
		{
			name:      "latest as json",
			args:      []string{"export", "--format", "json", "--all=false"},
			wantFiles: []string{"yt-chatbot-dQw4w9WgXcQ-2024-03-09.json"},
		},
		{
			name:      "by id as markdown",
			args:      []string{"export", "1111", "--format", "md", "--all=false"},
			wantFiles: []string{"yt-chatbot-dQw4w9WgXcQ-2024-03-09.md"},
		},
		{
			name: "all chats with the same name",
			args: []string{"export", "--format", "yaml", "--all"},
			wantFiles: []string{
				"yt-chatbot-dQw4w9WgXcQ-2024-03-09.yaml",
				"yt-chatbot-dQw4w9WgXcQ-2024-03-09-11111111.yaml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := testutil.CreateTempDir(t)
			out, err := env.run(t, append(tt.args, "--out", outDir)...)
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}

			for _, name := range tt.wantFiles {
				path := filepath.Join(outDir, name)
				if _, err := os.Stat(path); err != nil {
					t.Errorf("expected %s: %v", name, err)
				}
				if !strings.Contains(out, path) {
					t.Errorf("export output should list %s:\n%s", path, out)
				}
			}

			entries, _ := os.ReadDir(outDir)
			if len(entries) != len(tt.wantFiles) {
				t.Errorf("export wrote %d file(s), want %d", len(entries), len(tt.wantFiles))
			}
		})
	}
}

func TestExportCommand_LatestContent(t *testing.T) {
	env := newTestEnv(t, nil)
	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	older := testRecord("11111111-old", "aaaaaaaaaaa", day)
	newer := testRecord("22222222-new", "bbbbbbbbbbb", day.Add(time.Hour))
	env.seedHistory(t, older, newer)

	outDir := testutil.CreateTempDir(t)
	if _, err := env.run(t, "export", "--format", "json", "--all=false", "--out", outDir); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "yt-chatbot-bbbbbbbbbbb-2024-03-09.json"))
	if err != nil {
		t.Fatalf("newest chat not exported: %v", err)
	}
	var decoded internal.ExportRecord
	testutil.JSONUnmarshal(t, data, &decoded)
	if decoded.VideoID != "bbbbbbbbbbb" || len(decoded.Messages) != 3 {
		t.Errorf("exported record = %+v, want newest chat with 3 messages", decoded)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	env := newTestEnv(t, nil)
	outDir := testutil.CreateTempDir(t)

	_, err := env.run(t, "export", "--format", "invalid", "--all=false", "--out", outDir)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("export --format invalid error = %v, want unsupported format", err)
	}

	_, err = env.run(t, "export", "--format", "json", "--all=false", "--out", outDir)
	if !errors.Is(err, internal.ErrEmptyHistory) {
		t.Errorf("export with empty history error = %v, want ErrEmptyHistory", err)
	}

	_, err = env.run(t, "export", "nope", "--format", "json", "--all=false", "--out", outDir)
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("export of unknown id error = %v, want ErrNotFound", err)
	}
}
