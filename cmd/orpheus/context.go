package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"orpheus/internal/archive"
	"orpheus/internal/catalog"
	"orpheus/internal/config"
	"orpheus/internal/librarian"
	"orpheus/internal/logging"
	"orpheus/internal/tagid"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openCatalog loads the library document for read-only commands. Reads never
// take the writer lock.
func (c *commandContext) openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cat := catalog.New(cfg.Paths.LibraryDocument, c.logger())
	if err := cat.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("load library document: %w", err)
	}
	return cat, nil
}

// withLibrarian runs fn against a started librarian, wiring the journal store
// and the tag service when configured, and tears everything down after.
func (c *commandContext) withLibrarian(ctx context.Context, fn func(*librarian.Librarian) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	store, err := archive.Open(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer store.Close()

	var tags tagid.Resolver
	if cfg.TagService.Enabled {
		client, err := tagid.New(cfg.TagService.BaseURL, cfg.TagService.APIKey,
			time.Duration(cfg.TagService.TimeoutSeconds)*time.Second)
		if err != nil {
			return fmt.Errorf("tag service: %w", err)
		}
		tags = tagid.NewMemo(client)
	}

	lib, err := librarian.New(librarian.Options{
		Config: cfg,
		Store:  store,
		Logger: c.logger(),
		Tags:   tags,
	})
	if err != nil {
		return err
	}
	if err := lib.Start(ctx); err != nil {
		return err
	}
	defer lib.Close()

	return fn(lib)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
