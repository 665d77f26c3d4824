package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/video-chat/internal"
)

// MarkdownExporter exports records as a readable Markdown transcript
type MarkdownExporter struct{}

// Export exports a record to Markdown format
func (e *MarkdownExporter) Export(record *internal.ExportRecord, w io.Writer) error {
	title := record.VideoTitle
	if title == "" {
		title = internal.FallbackTitle(record.VideoID)
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", title)

	_, _ = fmt.Fprintf(w, "**Video:** %s  \n", internal.WatchURL(record.VideoID))
	if !record.ExportDate.IsZero() {
		_, _ = fmt.Fprintf(w, "**Exported:** %s  \n", record.ExportDate.Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(record.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range record.Messages {
		timestamp := ""
		if !msg.Timestamp.IsZero() {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp.Format("15:04:05"))
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", senderLabel(msg.Sender), timestamp, formatContent(msg))

		if i < len(record.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func senderLabel(s internal.Sender) string {
	switch s {
	case internal.SenderUser:
		return "You"
	case internal.SenderAssistant:
		return "Assistant"
	default:
		return string(s)
	}
}

// formatContent keeps assistant markdown as-is and escapes user text
func formatContent(msg internal.Message) string {
	if msg.Sender == internal.SenderAssistant {
		return msg.Content
	}
	return escapeMarkdown(msg.Content)
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
