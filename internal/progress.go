package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cautionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner reports a long-running step, such as waiting for the analysis
// service, on a single status line
type Spinner struct {
	w        io.Writer
	animate  bool
	interval time.Duration
}

// NewSpinner returns a spinner writing to w. Frames are only drawn when w is
// a terminal; otherwise only the final status line is written.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w, animate: IsTerminal(w), interval: 100 * time.Millisecond}
}

// Run calls fn and marks message as done or failed when it returns.
// Cancelling ctx abandons fn and returns ctx.Err().
func (s *Spinner) Run(ctx context.Context, message string, fn func() error) error {
	result := make(chan error, 1)
	go func() {
		result <- fn()
	}()

	var stop func()
	if s.animate {
		stop = s.spin(ctx, message)
	} else {
		LogDebug("%s", message)
		stop = func() {}
	}

	select {
	case err := <-result:
		stop()
		if err != nil {
			s.finish(failedStyle, "✗", message)
			return err
		}
		s.finish(doneStyle, "✓", message)
		return nil
	case <-ctx.Done():
		stop()
		s.finish(cautionStyle, "…", message+" (cancelled)")
		return ctx.Err()
	}
}

// spin draws frames until the returned stop function is called
func (s *Spinner) spin(ctx context.Context, message string) func() {
	spinCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-spinCtx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(s.w, "\r%s %s", spinnerStyle.Render(frame), message)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *Spinner) finish(style lipgloss.Style, mark, message string) {
	prefix := ""
	if s.animate {
		prefix = "\r"
	}
	fmt.Fprintf(s.w, "%s%s %s\n", prefix, style.Render(mark), message)
}

// ShowProgress runs fn behind a spinner on w
func ShowProgress(ctx context.Context, w io.Writer, message string, fn func() error) error {
	return NewSpinner(w).Run(ctx, message, fn)
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// PrintSuccess writes a success line to w
func PrintSuccess(w io.Writer, message string) {
	printMarked(w, doneStyle, "✓", "", message)
}

// PrintWarning writes a warning line to w
func PrintWarning(w io.Writer, message string) {
	printMarked(w, cautionStyle, "⚠", "WARNING: ", message)
}

// PrintError writes an error line to w
func PrintError(w io.Writer, message string) {
	printMarked(w, failedStyle, "✗", "", message)
}

func printMarked(w io.Writer, style lipgloss.Style, mark, plainPrefix, message string) {
	if IsTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", style.Render(mark), message)
		return
	}
	fmt.Fprintf(w, "%s%s\n", plainPrefix, message)
}
