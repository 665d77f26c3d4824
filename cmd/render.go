package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/video-chat/internal"
)

const wrapWidth = 80

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	statusStyles = map[internal.SessionStatus]lipgloss.Style{
		internal.StatusDisconnected:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		internal.StatusConnected:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		internal.StatusAnalyzing:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		internal.StatusAnalyzed:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		internal.StatusAnalysisFailed: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// newMarkdownRenderer returns a glamour renderer for assistant answers.
// Plain output uses the notty style so pipes and tests get no escape codes.
func newMarkdownRenderer(styled bool) *glamour.TermRenderer {
	style := "notty"
	if styled {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		internal.LogDebug("Markdown rendering disabled: %v", err)
		return nil
	}
	return r
}

// renderMarkdown renders text with md, falling back to wrapped plain text
func renderMarkdown(md *glamour.TermRenderer, text string) string {
	if md != nil {
		if out, err := md.Render(text); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return messageContentStyle.Render(wrapText(text, wrapWidth))
}

// writeMessage prints one chat message with its sender header
func writeMessage(w io.Writer, md *glamour.TermRenderer, msg internal.Message) {
	var header string
	switch msg.Sender {
	case internal.SenderUser:
		header = userMessageStyle.Render("👤 You")
	default:
		header = assistantMessageStyle.Render("🤖 Assistant")
	}
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Local().Format("15:04:05"))
	}
	fmt.Fprintln(w, header)

	content := strings.TrimSpace(msg.Content)
	switch {
	case content == "":
		fmt.Fprintln(w, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	case msg.Sender == internal.SenderUser:
		fmt.Fprintln(w, messageContentStyle.Render(wrapText(content, wrapWidth)))
	default:
		fmt.Fprintln(w, renderMarkdown(md, content))
	}
	fmt.Fprintln(w)
}

// terminalRenderer prints a controller's transitions as a running transcript:
// a status line when the video or status changes, then each new message once.
// Render is called with the controller lock held and only touches its own fields.
type terminalRenderer struct {
	out io.Writer
	md  *glamour.TermRenderer

	started    bool
	videoID    string
	videoTitle string
	status     internal.SessionStatus
	depth      int
	shown      int
}

func newTerminalRenderer(out io.Writer, styled bool) *terminalRenderer {
	return &terminalRenderer{out: out, md: newMarkdownRenderer(styled)}
}

func (r *terminalRenderer) Render(s internal.State) {
	videoChanged := !r.started || s.VideoID != r.videoID
	if videoChanged || len(s.Messages) < r.shown {
		r.shown = 0
	}

	if videoChanged || s.Status != r.status {
		r.writeStatus(s)
	} else if s.VideoTitle != r.videoTitle && s.VideoTitle != "" {
		fmt.Fprintln(r.out, titleStyle.Render("🎬 "+s.VideoTitle))
	}
	if r.started && s.ContextDepth != r.depth {
		fmt.Fprintln(r.out, dateStyle.Render(fmt.Sprintf("Context depth set to %d", s.ContextDepth)))
	}

	for _, msg := range s.Messages[r.shown:] {
		writeMessage(r.out, r.md, msg)
	}

	r.started = true
	r.videoID = s.VideoID
	r.videoTitle = s.VideoTitle
	r.status = s.Status
	r.depth = s.ContextDepth
	r.shown = len(s.Messages)
}

func (r *terminalRenderer) writeStatus(s internal.State) {
	style, ok := statusStyles[s.Status]
	if !ok {
		style = dateStyle
	}
	line := style.Render("● " + s.StatusText())
	if s.VideoTitle != "" {
		line += " " + titleStyle.Render(s.VideoTitle)
	} else if s.VideoID != "" {
		line += " " + idStyle.Render(s.VideoID)
	}
	fmt.Fprintln(r.out, line)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		// Wrap long lines
		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}
