package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		message  string
		fn       func() error
		wantErr  bool
		wantMark string
	}{
		{
			name:     "successful function",
			message:  "Analyzing video abc",
			fn:       func() error { return nil },
			wantMark: "✓",
		},
		{
			name:     "function with error",
			message:  "Analyzing video abc",
			fn:       func() error { return errors.New("test error") },
			wantErr:  true,
			wantMark: "✗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := ShowProgress(ctx, &buf, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}

			out := buf.String()
			want := tt.wantMark + " " + tt.message + "\n"
			if out != want {
				t.Errorf("ShowProgress() output = %q, want %q", out, want)
			}
		})
	}
}

func TestSpinner_AnimatesFrames(t *testing.T) {
	var buf bytes.Buffer
	s := &Spinner{w: &buf, animate: true, interval: 10 * time.Millisecond}

	err := s.Run(context.Background(), "Exporting", func() error {
		time.Sleep(80 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, spinnerFrames[0]) {
		t.Errorf("Run() output = %q, want spinner frames", out)
	}
	if !strings.HasSuffix(out, "\r✓ Exporting\n") {
		t.Errorf("Run() output = %q, want final success line", out)
	}
}

func TestSpinner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	err := ShowProgress(ctx, &buf, "Testing", func() error {
		time.Sleep(500 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ShowProgress() error = %v, want deadline exceeded", err)
	}
	if !strings.Contains(buf.String(), "Testing (cancelled)") {
		t.Errorf("ShowProgress() output = %q, want cancelled line", buf.String())
	}
}

func TestPrintHelpers(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *bytes.Buffer)
		want  string
	}{
		{name: "success", print: func(w *bytes.Buffer) { PrintSuccess(w, "saved") }, want: "saved\n"},
		{name: "warning", print: func(w *bytes.Buffer) { PrintWarning(w, "clamped") }, want: "WARNING: clamped\n"},
		{name: "error", print: func(w *bytes.Buffer) { PrintError(w, "Error: boom") }, want: "Error: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Error("IsTerminal() should be false for a buffer")
	}
}
