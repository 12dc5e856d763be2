package librarian

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"orpheus/internal/archive"
	"orpheus/internal/bridge"
	"orpheus/internal/catalog"
	"orpheus/internal/config"
	"orpheus/internal/logging"
	"orpheus/internal/mediatypes"
	"orpheus/internal/tagid"
)

// Options configure a Librarian. Config and Store are mandatory; the bridge
// collaborators are optional and their absence degrades gracefully (no live
// track data, no notification application, no tag resolution).
type Options struct {
	Config   *config.Config
	Store    *archive.Store
	Logger   *slog.Logger
	Tracks   bridge.TrackSource
	Resolver bridge.IDResolver
	Tags     tagid.Resolver
	Writer   bridge.MetadataWriter
}

// Librarian is the orchestrator owning the catalog lifecycle and the
// single-writer discipline. The catalog itself never locks; every mutating
// entry point funnels through here under one mutex, and a file lock keeps a
// second process out of the same state directory.
type Librarian struct {
	cfg      *config.Config
	store    *archive.Store
	logger   *slog.Logger
	catalog  *catalog.Catalog
	registry *mediatypes.Registry
	lock     *flock.Flock
	tracks   bridge.TrackSource
	resolver bridge.IDResolver
	tags     tagid.Resolver
	writer   bridge.MetadataWriter

	mu      sync.Mutex
	running atomic.Bool
}

// New builds a librarian around the configured library document.
func New(opts Options) (*Librarian, error) {
	if opts.Config == nil {
		return nil, errors.New("librarian: config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("librarian: journal store is required")
	}
	logger := logging.WithComponent(opts.Logger, "librarian")
	return &Librarian{
		cfg:      opts.Config,
		store:    opts.Store,
		logger:   logger,
		catalog:  catalog.New(opts.Config.Paths.LibraryDocument, opts.Logger),
		registry: mediatypes.NewRegistry(opts.Config.Scanner.ExtraAudioExtensions),
		lock:     flock.New(opts.Config.LockPath()),
		tracks:   opts.Tracks,
		resolver: opts.Resolver,
		tags:     opts.Tags,
		writer:   opts.Writer,
	}, nil
}

// Start acquires the writer lock and loads the catalog. A document that
// fails to parse leaves the librarian running with a not-ready catalog;
// queries answer empty and mutations no-op until a later Reload succeeds.
func (l *Librarian) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("librarian already running")
	}

	ok, err := l.lock.TryLock()
	if err != nil {
		l.running.Store(false)
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		l.running.Store(false)
		return fmt.Errorf("%w: %s", ErrLockHeld, l.cfg.LockPath())
	}

	if err := l.catalog.Initialize(ctx); err != nil {
		l.logger.Warn("catalog not ready", "error", err)
	}
	return nil
}

// Reload re-streams the library document into a fresh catalog tree.
func (l *Librarian) Reload(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catalog.Initialize(ctx)
}

// Close releases the writer lock.
func (l *Librarian) Close() error {
	if !l.running.CompareAndSwap(true, false) {
		return nil
	}
	return l.lock.Unlock()
}

// Catalog exposes the owned catalog for read-side callers.
func (l *Librarian) Catalog() *catalog.Catalog {
	return l.catalog
}

// Registry exposes the audio extension registry.
func (l *Librarian) Registry() *mediatypes.Registry {
	return l.registry
}
