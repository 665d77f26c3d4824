package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

var (
	listVideo string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved chats",
	Long:  `List the chats saved in the history database, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if listVideo != "" {
			videoID, err := internal.ResolveVideoID(listVideo)
			if err != nil {
				return err
			}
			filtered := make([]internal.HistoryEntry, 0, len(entries))
			for _, entry := range entries {
				if entry.VideoID == videoID {
					filtered = append(filtered, entry)
				}
			}
			entries = filtered
		}

		displayHistory(cmd.OutOrStdout(), entries, time.Now())
		return nil
	},
}

func displayHistory(out io.Writer, entries []internal.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No saved chats"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d chat(s)", len(entries))))
	fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Video")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Saved")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, entry := range entries {
		title := entry.VideoTitle
		if title == "" {
			title = internal.FallbackTitle(entry.VideoID)
		}
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		// Show short ID (first 8 chars); show/export accept any unique prefix
		shortID := entry.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID),
			entry.VideoID,
			lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title),
			countStyle.Render(strconv.Itoa(entry.MessageCount)),
			dateStyle.Render(relativeDate(entry.ExportDate, now)),
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID with `video-chat show <id>` or `video-chat export <id>`"))
}

// relativeDate formats t more compactly the closer it is to now
func relativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listVideo, "video", "", "Only list chats about this video (URL or id)")
}
