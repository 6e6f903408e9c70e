package player

// HistoryStore persists the durable play record. All calls except List are
// fire-and-forget from the session's perspective: failures are logged and
// the in-memory state stays authoritative for the running session.
type HistoryStore interface {
	// List returns the user's history oldest-first with row IDs set.
	List(userID string) ([]SongRef, error)

	// Replace deletes the rows for removeVideoIDs and bulk-inserts refs at
	// the top of recency, returning the new row IDs in insert order.
	Replace(userID string, removeVideoIDs []string, insert []SongRef) ([]uint, error)

	// Touch moves the given videos to the top of recency server-side so the
	// persisted ordering matches an in-memory bump.
	Touch(userID string, ids []string) error

	// TouchPlaylist bumps an imported playlist's whole run, preserving the
	// run's internal order.
	TouchPlaylist(userID, playlistID string) error

	// UpdateMetadata backfills title/channel for one row.
	UpdateMetadata(rowID uint, title, channel string) error
}

// LikedStore persists the liked-songs set, keyed by (user, video).
type LikedStore interface {
	List(userID string) ([]SongRef, error)
	Upsert(userID string, ref SongRef) error
	Delete(userID, videoID string) error
}
