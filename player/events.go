package player

import (
	"log"
)

// PlaybackState mirrors the lifecycle codes the embeddable widget emits.
type PlaybackState string

const (
	StateUnstarted PlaybackState = "unstarted"
	StatePlaying   PlaybackState = "playing"
	StatePaused    PlaybackState = "paused"
	StateBuffering PlaybackState = "buffering"
	StateEnded     PlaybackState = "ended"
)

// Event is one lifecycle notification from the playback surface. Title and
// Channel ride along opportunistically once the widget has rendered the
// content; they are not guaranteed on any particular event.
type Event struct {
	State   PlaybackState `json:"state"`
	Title   string        `json:"title,omitempty"`
	Channel string        `json:"channel,omitempty"`
}

// HandleEvent reacts to a lifecycle notification. Ended drives the
// auto-advance policy: loop replays in place, a liked-songs queue always
// advances, a playlist run advances through its members, anything else
// stops on the finished item.
func (s *Session) HandleEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur := s.currentRef(); cur != nil && (ev.Title != "" || ev.Channel != "") {
		s.backfillMetadata(cur.VideoID, ev.Title, ev.Channel)
	}

	switch ev.State {
	case StatePlaying:
		s.playing = true
	case StatePaused:
		s.playing = false
	case StateEnded:
		s.handleEnded()
	}
}

func (s *Session) handleEnded() {
	if s.current < 0 {
		return
	}
	if s.loop {
		s.surface.SeekTo(0)
		s.surface.Play()
		s.playedSeconds = 0
		return
	}
	next := s.current + 1
	if next >= len(s.queue) {
		s.playing = false
		return
	}
	if s.source == SourceLiked || s.queue[next].FromPlaylist() {
		s.startAt(next)
		return
	}
	s.playing = false
}

// backfillMetadata fills previously-unknown title/channel on the active
// video's queue and history entries and pushes the fix to the store. This is
// best-effort: a lost write only delays the backfill until the next
// playback, and concurrent writes are last-write-wins. Caller holds the
// lock.
func (s *Session) backfillMetadata(videoID, title, channel string) {
	changed := false
	for i := range s.queue {
		if s.queue[i].VideoID != videoID {
			continue
		}
		if title != "" && s.queue[i].Title == "" {
			s.queue[i].Title = title
			changed = true
		}
		if channel != "" && s.queue[i].Channel == "" {
			s.queue[i].Channel = channel
			changed = true
		}
	}

	var rowID uint
	var mergedTitle, mergedChannel string
	for i := range s.history {
		if s.history[i].VideoID != videoID {
			continue
		}
		if title != "" && s.history[i].Title == "" {
			s.history[i].Title = title
			changed = true
		}
		if channel != "" && s.history[i].Channel == "" {
			s.history[i].Channel = channel
			changed = true
		}
		rowID = s.history[i].StoreRowID
		mergedTitle = s.history[i].Title
		mergedChannel = s.history[i].Channel
	}

	if !changed || rowID == 0 || s.historyStore == nil {
		return
	}
	// Persist what memory holds after the merge, not the raw report: a
	// confirmed title must not be clobbered by whatever the widget rendered.
	if err := s.historyStore.UpdateMetadata(rowID, mergedTitle, mergedChannel); err != nil {
		log.Printf("player: metadata backfill failed for row %d: %v", rowID, err)
	}
}

// sampleProgress pulls the surface's reported time into the snapshot state
// and backfills a freshly learned duration onto the active ref. Driven by
// the manager's sampling loop; the surface has no progress push.
func (s *Session) sampleProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.currentRef()
	if cur == nil {
		return
	}
	s.playedSeconds = s.surface.CurrentTime()
	if d := s.surface.Duration(); d > 0 {
		s.trackDuration = d
		if cur.Duration == 0 {
			cur.Duration = int(d)
		}
	}
	if title, channel, ok := s.surface.VideoData(); ok {
		s.backfillMetadata(cur.VideoID, title, channel)
	}
}
