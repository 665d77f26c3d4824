package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
)

// CreateSettingsFixture writes a settings file in the on-disk format and returns its path
func CreateSettingsFixture(t *testing.T, dir string, contextK int, autoConnect bool) string {
	t.Helper()
	path := filepath.Join(dir, "settings.yaml")
	WriteFile(t, path, fmt.Sprintf("ytChatBotSettings:\n  contextK: %d\n  autoConnect: %t\n", contextK, autoConnect))
	return path
}

// CreateCurrentURLFixture writes the active tab URL the way a browser helper does
func CreateCurrentURLFixture(t *testing.T, dir, url string) string {
	t.Helper()
	path := filepath.Join(dir, "current-url")
	WriteFile(t, path, url+"\n")
	return path
}

// CreateAppDir creates an application directory with settings and a current URL
func CreateAppDir(t *testing.T, url string) string {
	t.Helper()
	dir := CreateTempDir(t)
	CreateSettingsFixture(t, dir, 4, false)
	CreateCurrentURLFixture(t, dir, url)
	return dir
}
