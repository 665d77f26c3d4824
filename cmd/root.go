package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iksnae/video-chat/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "VIDEO_CHAT"

var (
	verbose        bool
	serverURL      string
	requestTimeout time.Duration
	settingsPath   string
	historyPath    string
	version        string = "dev"
	commit         string = "unknown"
	date           string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "video-chat",
	Short: "Chat about YouTube videos from the terminal",
	Long: `A terminal client for a video analysis service.

video-chat follows the YouTube video you are watching, asks the analysis
service to process its captions, and lets you ask questions about the
content. Finished chats are kept in a local history database.

Quick Start:
  video-chat chat https://www.youtube.com/watch?v=<id>   # Interactive chat
  video-chat ask <url> "What is this video about?"        # One-shot question
  video-chat list                                         # Saved chats
  video-chat export --format md                           # Export the latest chat

Configuration is read from flags, VIDEO_CHAT_* environment variables and a
.env file in the working directory, in that order of precedence.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(viper.GetBool("verbose"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(os.Stderr, fmt.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&serverURL, "server", internal.DefaultServerURL, "Analysis service base URL")
	flags.DurationVar(&requestTimeout, "timeout", 2*time.Minute, "Timeout for a single analysis service request")
	flags.StringVar(&settingsPath, "settings", "", "Settings file (default: <config dir>/video-chat/settings.yaml)")
	flags.StringVar(&historyPath, "history", "", "History database (default: <config dir>/video-chat/history.db)")

	for _, name := range []string{"verbose", "server", "timeout", "settings", "history"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initConfig loads .env and enables VIDEO_CHAT_* overrides
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		internal.LogWarn("Failed to load .env: %v", err)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// appPaths resolves the settings and history locations, honoring overrides
func appPaths() (internal.AppPaths, error) {
	paths, err := internal.DetectAppPaths()
	if err != nil {
		return paths, err
	}
	if p := viper.GetString("settings"); p != "" {
		paths.SettingsFile = p
	}
	if p := viper.GetString("history"); p != "" {
		paths.HistoryDB = p
	}
	return paths, nil
}

func newSettingsStore() (*internal.FileSettingsStore, error) {
	paths, err := appPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get app paths: %w", err)
	}
	return internal.NewFileSettingsStore(paths.SettingsFile), nil
}

func newAnalysisClient() *internal.AnalysisClient {
	return internal.NewAnalysisClient(viper.GetString("server"), viper.GetDuration("timeout"))
}

// openHistory opens the history database. Callers must close the returned db.
func openHistory() (*internal.HistoryStore, *sql.DB, error) {
	paths, err := appPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get app paths: %w", err)
	}
	db, err := internal.OpenDatabase(paths.HistoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return internal.NewHistoryStore(db), db, nil
}

// newController builds a controller wired to the configured service and settings
func newController(renderer internal.Renderer, titles internal.TitleSource) (*internal.Controller, error) {
	settings, err := newSettingsStore()
	if err != nil {
		return nil, err
	}
	return internal.NewController(internal.ControllerOptions{
		Service:  newAnalysisClient(),
		Settings: settings,
		Titles:   titles,
		Renderer: renderer,
	}), nil
}
