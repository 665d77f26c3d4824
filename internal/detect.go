package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "video-chat"

// AppPaths holds the locations of the files video-chat keeps between runs
type AppPaths struct {
	BasePath     string // per-user configuration directory
	SettingsFile string // settings.yaml
	HistoryDB    string // history.db
	CurrentURL   string // file a browser helper writes the active tab URL to
}

// DetectAppPaths resolves the default paths under the user configuration directory
func DetectAppPaths() (AppPaths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return AppPaths{}, fmt.Errorf("failed to get configuration directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return NewAppPaths(filepath.Join(configDir, appDirName)), nil
}

// NewAppPaths lays out the app files under basePath
func NewAppPaths(basePath string) AppPaths {
	return AppPaths{
		BasePath:     basePath,
		SettingsFile: filepath.Join(basePath, "settings.yaml"),
		HistoryDB:    filepath.Join(basePath, "history.db"),
		CurrentURL:   filepath.Join(basePath, "current-url"),
	}
}

// SettingsExist checks if a settings file has been written
func (p AppPaths) SettingsExist() bool {
	_, err := os.Stat(p.SettingsFile)
	return err == nil
}

// HistoryExists checks if the history database exists
func (p AppPaths) HistoryExists() bool {
	_, err := os.Stat(p.HistoryDB)
	return err == nil
}
