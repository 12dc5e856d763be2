package testsupport

import (
	"path/filepath"
	"testing"

	"orpheus/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDocument = filepath.Join(base, "Library.xml")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithSimulate flips the scanner into simulate mode.
func WithSimulate() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scanner.Simulate = true
	}
}

// WithTagService points the config at a test tag-identification endpoint.
func WithTagService(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TagService.Enabled = true
		cfg.TagService.BaseURL = baseURL
		cfg.TagService.TimeoutSeconds = 2
	}
}
