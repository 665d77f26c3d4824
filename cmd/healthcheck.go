package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

var errUnhealthy = errors.New("healthcheck failed")

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that video-chat can reach the analysis service and its files",
	Long: `Check the health of video-chat by verifying:
  • App path detection
  • Settings file readability
  • History database access
  • Analysis service reachability

This command is useful when the chat reports that the backend is not running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		healthy := true

		fmt.Fprintln(out, sectionStyle.Render("🔍 video-chat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Detect app paths
		fmt.Fprintln(out, infoStyle.Render("Step 1: Detecting app paths..."))
		paths, err := appPaths()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to detect app paths:"), err)
			return errUnhealthy
		}
		fmt.Fprintln(out, successStyle.Render("✅ App paths detected"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Settings: %s\n", paths.SettingsFile)
			fmt.Fprintf(out, "   History: %s\n", paths.HistoryDB)
			fmt.Fprintf(out, "   Current URL: %s\n", paths.CurrentURL)
		}
		fmt.Fprintln(out)

		// Step 2: Settings
		fmt.Fprintln(out, infoStyle.Render("Step 2: Reading settings..."))
		settings, err := internal.NewFileSettingsStore(paths.SettingsFile).Load()
		switch {
		case err != nil:
			fmt.Fprintln(out, warningStyle.Render("⚠️  Settings unreadable, defaults will be used:"), err)
		case !paths.SettingsExist():
			fmt.Fprintln(out, warningStyle.Render("⚠️  No settings file yet, using defaults"))
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Settings loaded"))
		}
		if healthcheckVerbose {
			fmt.Fprintf(out, "   context-depth = %d, auto-connect = %t\n", settings.ContextK, settings.AutoConnect)
		}
		fmt.Fprintln(out)

		// Step 3: History database
		fmt.Fprintln(out, infoStyle.Render("Step 3: Opening history database..."))
		store, db, err := openHistory()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open history:"), err)
			healthy = false
		} else {
			entries, err := store.List(cmd.Context())
			db.Close()
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Failed to read history:"), err)
				healthy = false
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ History accessible (%d saved chat(s))", len(entries))))
			}
		}
		fmt.Fprintln(out)

		// Step 4: Analysis service
		client := newAnalysisClient()
		fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("Step 4: Contacting analysis service at %s...", client.BaseURL())))
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := client.Ping(ctx); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Analysis service unreachable:"), err)
			fmt.Fprintln(out, "   Please make sure the backend server is running.")
			healthy = false
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Analysis service is up"))
		}
		fmt.Fprintln(out)

		if !healthy {
			return errUnhealthy
		}
		fmt.Fprintln(out, successStyle.Render("✅ All checks passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckVerbose, "details", false, "Show file locations and settings")
}
