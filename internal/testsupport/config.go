package testsupport

import (
	"path/filepath"
	"testing"

	"cutout/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.ProcessedDir = filepath.Join(base, "processed")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithVisionEndpoint sets the inference endpoint on the test config.
func WithVisionEndpoint(endpoint string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Vision.Endpoint = endpoint
	}
}

// WithAutoCaption enables daemon auto-captioning on the test config.
func WithAutoCaption() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Daemon.AutoCaption = true
	}
}
