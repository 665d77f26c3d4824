package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/video-chat/internal"
	"github.com/iksnae/video-chat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format    string
	outputDir string
	exportAll bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [chat-id]",
	Short: "Export saved chats to files",
	Long: `Export chats from the history database (json, jsonl, md, yaml).

Without an ID the most recent chat is exported; --all exports every chat.
Files are named yt-chatbot-<video id>-<date>.<ext>.
Use 'video-chat list' to see available chat IDs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails before touching storage
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		store, db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		ids, err := exportIDs(ctx, store, args)
		if err != nil {
			return err
		}

		var written []string
		err = internal.ShowProgress(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Exporting %d chat(s) to %s", len(ids), outputDir), func() error {
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			seen := make(map[string]bool)
			for _, id := range ids {
				rec, err := store.Load(ctx, id)
				if err != nil {
					return err
				}
				path := exportPath(outputDir, rec, exporter, seen)
				if _, err := export.WritePath(path, rec, exporter); err != nil {
					return err
				}
				written = append(written, path)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Export complete: %d chat(s) exported to %s", len(written), outputDir))
		return nil
	},
}

// exportIDs picks the chats to export: the argument, all chats, or the newest one
func exportIDs(ctx context.Context, store *internal.HistoryStore, args []string) ([]string, error) {
	if len(args) == 1 {
		return []string{args[0]}, nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if len(entries) == 0 {
		return nil, internal.ErrEmptyHistory
	}
	if !exportAll {
		entries = entries[:1]
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids, nil
}

// exportPath returns the download name of rec, adding the chat id when another
// chat exported in the same run already took that name
func exportPath(dir string, rec *internal.ExportRecord, exporter export.Exporter, seen map[string]bool) string {
	path := filepath.Join(dir, export.FileName(rec, exporter.Extension()))
	if seen[path] {
		shortID := rec.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		path = strings.TrimSuffix(path, "."+exporter.Extension()) + "-" + shortID + "." + exporter.Extension()
	}
	seen[path] = true
	return path
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every saved chat")
}
