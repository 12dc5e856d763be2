package config

import (
	"fmt"
	"strings"
)

// Validate rejects configurations Orpheus cannot run with. Missing optional
// paths are allowed; commands that need them fail with a pointed error later.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}

	if c.TagService.Enabled {
		if strings.TrimSpace(c.TagService.BaseURL) == "" {
			return fmt.Errorf("tag_service.base_url is required when tag_service.enabled is true")
		}
		if !strings.HasPrefix(c.TagService.BaseURL, "http://") && !strings.HasPrefix(c.TagService.BaseURL, "https://") {
			return fmt.Errorf("tag_service.base_url: %q is not an http(s) URL", c.TagService.BaseURL)
		}
	}

	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return fmt.Errorf("paths.state_dir must not be empty")
	}

	return nil
}
