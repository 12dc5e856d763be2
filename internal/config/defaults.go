package config

import (
	"os"
	"path/filepath"
)

const defaultTagTimeoutSeconds = 15

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:   defaultStateDir(),
			ArchiveDir: "",
		},
		TagService: TagService{
			Enabled:        false,
			TimeoutSeconds: defaultTagTimeoutSeconds,
		},
		Scanner: Scanner{
			Simulate: false,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && base != "" {
		return filepath.Join(base, "orpheus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".orpheus")
	}
	return filepath.Join(home, ".local", "state", "orpheus")
}
