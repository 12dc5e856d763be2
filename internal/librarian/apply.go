package librarian

import (
	"context"
	"fmt"

	"orpheus/internal/bridge"
	"orpheus/internal/catalog"
	"orpheus/internal/change"
)

// Listen consumes notifications from the source until delivery fails or ctx
// is done. Apply failures are logged and the loop keeps going; one bad
// notification must not stall the stream.
func (l *Librarian) Listen(ctx context.Context, source bridge.NotificationSource) error {
	for {
		n, err := source.Deliver(ctx)
		if err != nil {
			return err
		}
		if err := l.Apply(ctx, n); err != nil {
			l.logger.Warn("notification apply failed", "error", err)
		}
	}
}

// Apply classifies a library notification and applies the inferred
// maintenance action to the catalog. Notifications that match no known
// shape are dropped without error; nothing above debug is logged for them.
func (l *Librarian) Apply(ctx context.Context, n change.Notification) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	action, ok := change.Classify(n)
	if !ok {
		l.logger.Debug("notification dropped", "tuples", len(n))
		return nil
	}
	if l.resolver == nil {
		return fmt.Errorf("apply %s: %w", action.Kind, ErrNoResolver)
	}

	playlist, err := l.resolver.ResolvePlaylist(ctx, action.Playlist)
	if err != nil {
		return fmt.Errorf("resolve playlist %d: %w", action.Playlist.PlaylistID, err)
	}

	switch action.Kind {
	case change.ActionAddPlaylist:
		l.catalog.AddPlaylist(catalog.PlaylistInfo{
			PersistentID: playlist.PersistentID,
			PlaylistID:   action.Playlist.PlaylistID,
			Name:         playlist.Name,
		})
	case change.ActionAddTracksToPlaylist:
		l.catalog.AddPlaylist(catalog.PlaylistInfo{
			PersistentID: playlist.PersistentID,
			PlaylistID:   action.Playlist.PlaylistID,
			Name:         playlist.Name,
		})
		added := l.catalog.AddTracksToPlaylist(l.resolveTracks(ctx, action.Tracks), playlist.PersistentID)
		l.logger.Info("tracks added to playlist", "playlist", playlist.Name, "added", added)
		return nil
	case change.ActionRemovePlaylist:
		l.catalog.RemovePlaylist(playlist.PersistentID)
	case change.ActionRemoveTracksFromPlaylist:
		removed := l.catalog.RemoveTracksFromPlaylist(l.resolveTracks(ctx, action.Tracks), playlist.PersistentID)
		l.logger.Info("tracks removed from playlist", "playlist", playlist.Name, "removed", removed)
		return nil
	}

	l.logger.Info("notification applied", "action", action.Kind.String(), "playlist", playlist.Name)
	return nil
}

// resolveTracks maps session track references to persistent IDs, inserting
// any track the catalog has never seen. References the bridge cannot resolve
// are logged and skipped so one stale row does not sink the whole action.
func (l *Librarian) resolveTracks(ctx context.Context, refs []change.ObjectRef) []catalog.PersistentID {
	ids := make([]catalog.PersistentID, 0, len(refs))
	for _, ref := range refs {
		track, err := l.resolver.ResolveTrack(ctx, ref)
		if err != nil {
			l.logger.Warn("track resolution failed", "track_id", ref.TrackID, "error", err)
			continue
		}
		if _, known := l.catalog.Track(track.PersistentID); !known {
			l.catalog.AddTrack(catalog.TrackInfo{
				PersistentID: track.PersistentID,
				TrackID:      ref.TrackID,
				Name:         track.Title,
				Artist:       track.Artist,
				Album:        track.Album,
				TotalTime:    track.DurationMS,
				BitRate:      track.BitRate,
				Rating:       track.Rating,
				PlayCount:    track.PlayCount,
				Location:     track.Location,
			})
		}
		ids = append(ids, track.PersistentID)
	}
	return ids
}
