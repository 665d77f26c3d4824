package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	MinContextDepth     = 2
	MaxContextDepth     = 8
	DefaultContextDepth = 4
)

// Settings holds the user preferences persisted between runs
type Settings struct {
	ContextK    int  `yaml:"contextK"`
	AutoConnect bool `yaml:"autoConnect"`
}

// DefaultSettings returns the settings used on first run
func DefaultSettings() Settings {
	return Settings{
		ContextK:    DefaultContextDepth,
		AutoConnect: true,
	}
}

// ClampContextDepth limits n to the supported retrieval breadth
func ClampContextDepth(n int) int {
	if n < MinContextDepth {
		return MinContextDepth
	}
	if n > MaxContextDepth {
		return MaxContextDepth
	}
	return n
}

// SettingsStore persists Settings
type SettingsStore interface {
	Load() (Settings, error)
	Save(Settings) error
}

// FileSettingsStore keeps settings in a YAML file
type FileSettingsStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSettingsStore creates a store backed by the file at path
func NewFileSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Path returns the settings file location
func (s *FileSettingsStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields the defaults.
func (s *FileSettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultSettings()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, &StorageError{Path: s.path, Op: "read", Err: err}
	}

	// Keys absent from the file keep their defaults
	defaults := DefaultSettings()
	var file struct {
		Settings *Settings `yaml:"ytChatBotSettings"`
	}
	file.Settings = &defaults
	if err := yaml.Unmarshal(data, &file); err != nil {
		return DefaultSettings(), &StorageError{Path: s.path, Op: "read", Err: fmt.Errorf("failed to parse settings: %w", err)}
	}
	if file.Settings == nil {
		return settings, nil
	}

	settings = *file.Settings
	if settings.ContextK == 0 {
		settings.ContextK = DefaultContextDepth
	}
	settings.ContextK = ClampContextDepth(settings.ContextK)
	return settings, nil
}

// Save writes the settings file, creating its directory if needed
func (s *FileSettingsStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.ContextK = ClampContextDepth(settings.ContextK)
	data, err := yaml.Marshal(map[string]Settings{"ytChatBotSettings": settings})
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// MemorySettingsStore keeps settings in memory
type MemorySettingsStore struct {
	mu       sync.Mutex
	settings Settings
	saves    int
}

// NewMemorySettingsStore creates an in-memory store seeded with settings
func NewMemorySettingsStore(settings Settings) *MemorySettingsStore {
	return &MemorySettingsStore{settings: settings}
}

func (s *MemorySettingsStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *MemorySettingsStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saves++
	return nil
}

// Saves returns how many times Save was called
func (s *MemorySettingsStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
