package player

// PlayingSource tags where the current queue came from. It governs the
// auto-advance policy when a track ends.
type PlayingSource string

const (
	SourceURL     PlayingSource = "url"
	SourceHistory PlayingSource = "history"
	SourceLiked   PlayingSource = "liked"
)

// SongRef is a queueable reference to one piece of remote content plus the
// metadata known locally so far. Title and Channel may be empty until the
// player widget reports them.
type SongRef struct {
	VideoID       string `json:"video_id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Channel       string `json:"channel"`
	StoreRowID    uint   `json:"store_row_id,omitempty"` // 0 means not persisted (signed-out session)
	Duration      int    `json:"duration,omitempty"`     // seconds, 0 until playback metadata arrives
	PlaylistID    string `json:"playlist_id,omitempty"`
	PlaylistTitle string `json:"playlist_title,omitempty"`
}

// FromPlaylist reports whether the ref was ingested as part of a playlist
// and should stay grouped with its run.
func (s SongRef) FromPlaylist() bool {
	return s.PlaylistID != ""
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func copyRefs(refs []SongRef) []SongRef {
	out := make([]SongRef, len(refs))
	copy(out, refs)
	return out
}

func indexOf(refs []SongRef, videoID string) int {
	for i, ref := range refs {
		if ref.VideoID == videoID {
			return i
		}
	}
	return -1
}

func videoIDs(refs []SongRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.VideoID)
	}
	return ids
}
