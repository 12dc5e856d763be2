package change

// ObjectRef is one notification entry: the player's session-scoped object
// identifiers for a source, playlist, track, and database row. These are
// never identities across sessions; callers resolve them to persistent IDs
// through the live bridge before touching the catalog.
type ObjectRef struct {
	SourceID   int64
	PlaylistID int64
	TrackID    int64
	DatabaseID int64
}

// Notification is the raw tuple sequence delivered for one library event.
// Row order is significant.
type Notification []ObjectRef

// Label identifies what kind of object a single tuple names.
type Label byte

const (
	// LabelSource marks a tuple naming only a source.
	LabelSource Label = 'S'
	// LabelPlaylist marks a tuple naming a playlist without a track.
	LabelPlaylist Label = 'P'
	// LabelTrack marks a tuple naming a concrete track row.
	LabelTrack Label = 'T'
	// LabelUnrecognized marks a tuple matching no known shape.
	LabelUnrecognized Label = 'X'
)

// ActionKind is the semantic meaning inferred from a notification.
type ActionKind int

const (
	// ActionAddPlaylist reports a playlist was created.
	ActionAddPlaylist ActionKind = iota + 1
	// ActionAddTracksToPlaylist reports tracks were added to a playlist.
	ActionAddTracksToPlaylist
	// ActionRemovePlaylist reports a playlist was deleted.
	ActionRemovePlaylist
	// ActionRemoveTracksFromPlaylist reports tracks were removed from a playlist.
	ActionRemoveTracksFromPlaylist
)

// String returns the action's wire-friendly name.
func (k ActionKind) String() string {
	switch k {
	case ActionAddPlaylist:
		return "add-playlist"
	case ActionAddTracksToPlaylist:
		return "add-tracks-to-playlist"
	case ActionRemovePlaylist:
		return "remove-playlist"
	case ActionRemoveTracksFromPlaylist:
		return "remove-tracks-from-playlist"
	default:
		return "unknown"
	}
}

// Action is a classified notification: what happened, to which playlist, and
// which tracks were involved. The identifiers are still session-scoped.
type Action struct {
	Kind     ActionKind
	Playlist ObjectRef
	Tracks   []ObjectRef
}

// LabelOf classifies a single tuple.
func LabelOf(ref ObjectRef) Label {
	switch {
	case ref.DatabaseID > 0 && ref.PlaylistID > 0 && ref.TrackID > 0:
		return LabelTrack
	case ref.DatabaseID == 0 && ref.PlaylistID > 0 && ref.TrackID == 0:
		return LabelPlaylist
	case ref.PlaylistID == 0 && ref.SourceID > 0 && ref.TrackID == 0:
		return LabelSource
	default:
		return LabelUnrecognized
	}
}

// Classify infers the maintenance action a notification describes. The
// recognized shapes, checked in priority order with the first match winning:
//
//	S P      -> add playlist
//	S P T+   -> add tracks to playlist
//	P S      -> remove playlist
//	T+ S P   -> remove tracks from playlist
//
// Anything else, including an empty notification or any unrecognized tuple,
// yields no action.
func Classify(n Notification) (Action, bool) {
	if len(n) == 0 {
		return Action{}, false
	}
	labels := make([]Label, len(n))
	for i, ref := range n {
		labels[i] = LabelOf(ref)
		if labels[i] == LabelUnrecognized {
			return Action{}, false
		}
	}

	switch {
	case len(labels) == 2 && labels[0] == LabelSource && labels[1] == LabelPlaylist:
		return assemble(ActionAddPlaylist, n, labels), true
	case len(labels) >= 3 && labels[0] == LabelSource && labels[1] == LabelPlaylist && allTracks(labels[2:]):
		return assemble(ActionAddTracksToPlaylist, n, labels), true
	case len(labels) == 2 && labels[0] == LabelPlaylist && labels[1] == LabelSource:
		return assemble(ActionRemovePlaylist, n, labels), true
	case len(labels) >= 3 && allTracks(labels[:len(labels)-2]) &&
		labels[len(labels)-2] == LabelSource && labels[len(labels)-1] == LabelPlaylist:
		return assemble(ActionRemoveTracksFromPlaylist, n, labels), true
	default:
		return Action{}, false
	}
}

func allTracks(labels []Label) bool {
	for _, label := range labels {
		if label != LabelTrack {
			return false
		}
	}
	return true
}

// assemble collects the first playlist-labeled tuple and every track-labeled
// tuple from the notification.
func assemble(kind ActionKind, n Notification, labels []Label) Action {
	action := Action{Kind: kind}
	for i, label := range labels {
		switch label {
		case LabelPlaylist:
			if action.Playlist == (ObjectRef{}) {
				action.Playlist = n[i]
			}
		case LabelTrack:
			action.Tracks = append(action.Tracks, n[i])
		}
	}
	return action
}
