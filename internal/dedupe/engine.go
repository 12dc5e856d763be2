package dedupe

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"orpheus/internal/catalog"
	"orpheus/internal/logging"
	"orpheus/internal/tagid"
	"orpheus/internal/textutil"
)

// Track is the record shape reconciliation compares. It is supplied by an
// accessor collaborator, typically backed by the live player, because lyric
// and artwork presence are not part of the library document.
type Track struct {
	PersistentID catalog.PersistentID
	Artist       string
	Title        string
	Album        string
	DurationMS   int64
	BitRate      int64
	HasLyrics    bool
	HasArtwork   bool
	Rating       int64
	PlayCount    int64
	Location     string
}

// Accessor fetches the comparable data for one persistent ID.
type Accessor func(ctx context.Context, id catalog.PersistentID) (*Track, error)

// StagedEdit carries attribute values filled in from tag identification,
// held back until their track is confirmed retained.
type StagedEdit struct {
	Track  catalog.PersistentID
	Artist string
	Title  string
	Album  string
}

// Committer persists a staged edit once its track is promoted.
type Committer func(ctx context.Context, edit StagedEdit) error

// Mode selects whether decisions are persisted or only reported.
type Mode int

const (
	// ModeLive commits staged edits and marks removals actionable.
	ModeLive Mode = iota
	// ModeSimulate reports every decision without persisting anything.
	ModeSimulate
)

// Disposition tags a demoted track with how its file may be handled.
type Disposition int

const (
	// ArchiveAndRemove means the loser's file is safe to move away.
	ArchiveAndRemove Disposition = iota
	// CatalogOnlyRemove means the winner references the same physical file;
	// only the catalog entry may be removed.
	CatalogOnlyRemove
)

// String returns the disposition's wire-friendly name.
func (d Disposition) String() string {
	if d == CatalogOnlyRemove {
		return "catalog-only"
	}
	return "archive"
}

// Demoted is one duplicate-comparison loser.
type Demoted struct {
	Track       *Track
	Winner      *Track
	Disposition Disposition
}

// Result is the partition produced by one reconciliation run.
type Result struct {
	Candidates []*Track
	Duplicates []Demoted
}

// Options configure an Engine.
type Options struct {
	Accessor Accessor
	Resolver tagid.Resolver
	Commit   Committer
	Mode     Mode
	Logger   *slog.Logger
}

// Engine runs the duplicate partition. One engine may serve many runs; all
// per-run state lives on the stack of Run.
type Engine struct {
	accessor Accessor
	resolver tagid.Resolver
	commit   Committer
	mode     Mode
	logger   *slog.Logger
}

// New constructs an engine. The accessor is mandatory; without a resolver
// every incomplete-key track stays unanalyzed, and without a committer staged
// edits are dropped at promotion.
func New(opts Options) (*Engine, error) {
	if opts.Accessor == nil {
		return nil, errors.New("dedupe: accessor is required")
	}
	return &Engine{
		accessor: opts.Accessor,
		resolver: opts.Resolver,
		commit:   opts.Commit,
		mode:     opts.Mode,
		logger:   logging.WithComponent(opts.Logger, "dedupe"),
	}, nil
}

// candidate is a track provisionally retained during a run.
type candidate struct {
	track      *Track
	resolved   bool
	unanalyzed bool
	tagID      string
	staged     *StagedEdit
	committed  bool
}

// Run partitions the tracks named by ids, in input order. Cancellation is
// polled once per candidate; on cancellation the partial partition is
// returned alongside the context error, with nothing rolled back.
func (e *Engine) Run(ctx context.Context, ids []catalog.PersistentID) (*Result, error) {
	byKey := make(map[string][]*candidate)
	var order []*candidate
	result := &Result{}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.Candidates = candidateTracks(order)
			return result, err
		}
		track, err := e.accessor(ctx, id)
		if err != nil {
			e.logger.Warn("track fetch failed", "persistent_id", id.String(), "error", err)
			continue
		}
		if track == nil {
			continue
		}
		e.consider(ctx, track, byKey, &order, result)
	}

	// Candidates promoted before any resolution may still hold staged edits.
	for _, cand := range order {
		e.commitStaged(ctx, cand)
	}
	result.Candidates = candidateTracks(order)
	return result, nil
}

func (e *Engine) consider(ctx context.Context, track *Track, byKey map[string][]*candidate, order *[]*candidate, result *Result) {
	key := textutil.CompositeKey(track.Artist, track.Title, track.Album)
	complete := strings.TrimSpace(track.Artist) != "" &&
		strings.TrimSpace(track.Title) != "" &&
		strings.TrimSpace(track.Album) != ""

	cand := &candidate{track: track}
	contenders := byKey[key]
	if len(contenders) == 0 {
		e.promote(ctx, cand, key, byKey, order, !complete)
		return
	}

	for i, existing := range contenders {
		if !e.comparable(ctx, existing, cand, complete) {
			continue
		}
		if Compare(existing.track, cand.track) >= 0 {
			// Incumbent keeps the slot; ties favor it by policy.
			e.demote(result, cand.track, existing.track)
			return
		}
		// Newcomer takes the incumbent's slot.
		e.demote(result, existing.track, cand.track)
		contenders[i] = cand
		replaceCandidate(order, existing, cand)
		if !complete {
			e.commitStaged(ctx, cand)
		}
		return
	}

	// No comparable incumbent; the track stands as its own candidate.
	e.promote(ctx, cand, key, byKey, order, !complete)
}

// comparable decides whether two tracks under the same key may be ranked
// against each other. Complete keys gate on exact duration equality.
// Incomplete keys gate on both tracks resolving to the same tag identifier;
// an unanalyzed track is never compared.
func (e *Engine) comparable(ctx context.Context, existing, cand *candidate, complete bool) bool {
	if complete {
		return existing.track.DurationMS == cand.track.DurationMS
	}
	e.resolve(ctx, existing)
	e.resolve(ctx, cand)
	if existing.unanalyzed || cand.unanalyzed {
		return false
	}
	return existing.tagID == cand.tagID
}

func (e *Engine) promote(ctx context.Context, cand *candidate, key string, byKey map[string][]*candidate, order *[]*candidate, incompleteKey bool) {
	byKey[key] = append(byKey[key], cand)
	*order = append(*order, cand)
	if incompleteKey {
		e.commitStaged(ctx, cand)
	}
}

func (e *Engine) demote(result *Result, loser, winner *Track) {
	disposition := ArchiveAndRemove
	if sameLocation(loser, winner) {
		disposition = CatalogOnlyRemove
	}
	result.Duplicates = append(result.Duplicates, Demoted{
		Track:       loser,
		Winner:      winner,
		Disposition: disposition,
	})
	e.logger.Debug("track demoted",
		"persistent_id", loser.PersistentID.String(),
		"winner", winner.PersistentID.String(),
		"disposition", disposition.String())
}

// resolve asks the tag service for a canonical identity, at most once per
// candidate per run. A failed lookup marks the candidate unanalyzed for the
// rest of the run. Resolution that fills in missing name parts is staged, not
// applied; the edit commits only if the track ends up retained.
func (e *Engine) resolve(ctx context.Context, cand *candidate) {
	if cand.resolved {
		return
	}
	cand.resolved = true
	if e.resolver == nil {
		cand.unanalyzed = true
		return
	}
	track := cand.track
	match, err := e.resolver.Resolve(ctx, tagid.Query{
		Artist:     track.Artist,
		Title:      track.Title,
		Album:      track.Album,
		Location:   track.Location,
		DurationMS: track.DurationMS,
	})
	if err != nil {
		cand.unanalyzed = true
		e.logger.Debug("track left unanalyzed", "persistent_id", track.PersistentID.String(), "error", err)
		return
	}
	cand.tagID = match.ID

	edit := StagedEdit{Track: track.PersistentID}
	staged := false
	if strings.TrimSpace(track.Artist) == "" && match.Artist != "" {
		edit.Artist = match.Artist
		staged = true
	}
	if strings.TrimSpace(track.Title) == "" && match.Title != "" {
		edit.Title = match.Title
		staged = true
	}
	if strings.TrimSpace(track.Album) == "" && match.Album != "" {
		edit.Album = match.Album
		staged = true
	}
	if staged {
		cand.staged = &edit
	}
}

func (e *Engine) commitStaged(ctx context.Context, cand *candidate) {
	if cand.staged == nil || cand.committed {
		return
	}
	cand.committed = true
	if e.mode == ModeSimulate {
		e.logger.Debug("simulate: staged edit not committed", "persistent_id", cand.track.PersistentID.String())
		return
	}
	if e.commit == nil {
		return
	}
	if err := e.commit(ctx, *cand.staged); err != nil {
		e.logger.Warn("staged edit commit failed", "persistent_id", cand.track.PersistentID.String(), "error", err)
	}
}

func sameLocation(a, b *Track) bool {
	if strings.TrimSpace(a.Location) == "" || strings.TrimSpace(b.Location) == "" {
		return false
	}
	return textutil.NormalizePath(a.Location) == textutil.NormalizePath(b.Location)
}

func candidateTracks(order []*candidate) []*Track {
	out := make([]*Track, 0, len(order))
	for _, cand := range order {
		out = append(out, cand.track)
	}
	return out
}

func replaceCandidate(order *[]*candidate, outgoing, incoming *candidate) {
	for i, cand := range *order {
		if cand == outgoing {
			(*order)[i] = incoming
			return
		}
	}
}
