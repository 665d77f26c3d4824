package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
	since string
)

var (
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Show the messages of a saved chat",
	Long:  `Display a chat from the history database. Any unique prefix of the ID works.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		rec, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		messages := rec.Messages
		if since != "" {
			sinceTime, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			filtered := make([]internal.Message, 0, len(messages))
			for _, msg := range messages {
				if !msg.Timestamp.Before(sinceTime) {
					filtered = append(filtered, msg)
				}
			}
			messages = filtered
		}

		out := cmd.OutOrStdout()
		displayRecordHeader(out, rec)

		total := len(messages)
		if limit > 0 && limit < total {
			messages = messages[:limit]
		}

		md := newMarkdownRenderer(internal.IsTerminal(out))
		for _, msg := range messages {
			writeMessage(out, md, msg)
		}

		// Show remaining count if limit was applied
		if limit > 0 && limit < total {
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", total-limit)))
		}
		return nil
	},
}

func displayRecordHeader(out io.Writer, rec *internal.ExportRecord) {
	title := rec.VideoTitle
	if title == "" {
		title = internal.FallbackTitle(rec.VideoID)
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", title)))

	metaParts := []string{internal.WatchURL(rec.VideoID)}
	if !rec.ExportDate.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Saved: %s", rec.ExportDate.Local().Format("2006-01-02 15:04")))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(rec.Messages)))
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
}
