package player

import (
	"log"
	"sync"
)

// Session is the queue/history engine for one signed-in user or one
// anonymous browser session. All mutations are serialized behind the session
// mutex; store writes happen inline and their failures never roll back the
// in-memory state (availability of playback wins over persistence).
type Session struct {
	mu sync.Mutex

	userID string // "" means ephemeral, nothing is persisted

	history []SongRef
	queue   []SongRef
	current int // index into queue, -1 when idle
	source  PlayingSource

	loop     bool
	browsing bool
	playing  bool

	likedSongs []SongRef
	liked      map[string]bool

	playedSeconds float64
	trackDuration float64

	surface      Surface
	historyStore HistoryStore
	likedStore   LikedStore
}

// NewSession builds an idle session. Pass nil stores for a signed-out
// session; its history then lives in memory only and dies with the process.
func NewSession(userID string, surface Surface, history HistoryStore, liked LikedStore) *Session {
	return &Session{
		userID:       userID,
		current:      -1,
		source:       SourceHistory,
		liked:        make(map[string]bool),
		surface:      surface,
		historyStore: history,
		likedStore:   liked,
	}
}

// Seed loads the persisted history and liked set into memory. Called on the
// sign-in transition and again after server-side history edits; a failure
// leaves the previous state in place. An active queue is never replaced here:
// the current index points into it, so it stays as-is until the next play
// operation rebuilds queue and index together. Idle sessions track the
// reloaded history.
func (s *Session) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.historyStore != nil {
		refs, err := s.historyStore.List(s.userID)
		if err != nil {
			log.Printf("player: history seed failed for user %q: %v", s.userID, err)
		} else {
			s.history = refs
			if s.current < 0 {
				s.queue = copyRefs(refs)
			}
		}
	}
	if s.likedStore != nil {
		refs, err := s.likedStore.List(s.userID)
		if err != nil {
			log.Printf("player: liked seed failed for user %q: %v", s.userID, err)
		} else {
			s.likedSongs = refs
			s.liked = make(map[string]bool, len(refs))
			for _, ref := range refs {
				s.liked[ref.VideoID] = true
			}
		}
	}
}

// PlayFromResolved starts playback from freshly resolved refs: a pasted URL,
// a search pick, or a playlist import. The refs are deduped against history
// by video ID, appended as one block, and the queue becomes the updated
// history. Persistence is delete-then-insert for the affected rows.
func (s *Session) PlayFromResolved(refs []SongRef, focusVideoID string) {
	if len(refs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := videoIDs(refs)
	s.removeFromHistory(ids)
	block := len(s.history)
	s.history = append(s.history, refs...)
	s.queue = copyRefs(s.history)
	s.source = SourceURL

	idx := block
	if focusVideoID != "" {
		if i := indexOf(s.queue, focusVideoID); i >= 0 {
			idx = i
		}
	}
	s.startAt(idx)

	if s.historyStore != nil {
		rowIDs, err := s.historyStore.Replace(s.userID, ids, refs)
		if err != nil {
			log.Printf("player: history replace failed for user %q: %v", s.userID, err)
		} else {
			s.assignRowIDs(block, rowIDs)
		}
	}
}

// PlayFromHistory replays a history entry: the entry, or its whole
// contiguous playlist run, is bumped to the top of recency and playback
// starts at the start of the moved block.
func (s *Session) PlayFromHistory(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.history) {
		return
	}

	target := s.history[index]
	start, end := index, index+1
	if target.FromPlaylist() {
		for start > 0 && s.history[start-1].PlaylistID == target.PlaylistID {
			start--
		}
		for end < len(s.history) && s.history[end].PlaylistID == target.PlaylistID {
			end++
		}
	}

	block := append([]SongRef(nil), s.history[start:end]...)
	rest := append([]SongRef(nil), s.history[:start]...)
	rest = append(rest, s.history[end:]...)
	s.history = append(rest, block...)

	s.queue = copyRefs(s.history)
	s.source = SourceHistory
	s.startAt(len(s.history) - len(block))

	if s.historyStore != nil {
		var err error
		if target.FromPlaylist() {
			err = s.historyStore.TouchPlaylist(s.userID, target.PlaylistID)
		} else {
			err = s.historyStore.Touch(s.userID, []string{target.VideoID})
		}
		if err != nil {
			log.Printf("player: history touch failed for user %q: %v", s.userID, err)
		}
	}
}

// PlayFromLiked plays out of the liked-songs view. The queue becomes a flat
// projection of the liked set (no playlist grouping) and the played entry is
// written through to history immediately, keeping history the superset
// record of everything ever played.
func (s *Session) PlayFromLiked(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := make([]SongRef, 0, len(s.likedSongs))
	for _, ref := range s.likedSongs {
		ref.StoreRowID = 0
		ref.PlaylistID = ""
		ref.PlaylistTitle = ""
		queue = append(queue, ref)
	}
	idx := indexOf(queue, videoID)
	if idx < 0 {
		return
	}
	s.queue = queue
	s.source = SourceLiked
	s.startAt(idx)

	s.writeThroughHistory(queue[idx])
}

// PlayFromPlaylist plays from one of the user's own playlists. The queue is
// the playlist's membership in order; entries carry the playlist id so a
// finished track auto-advances through the rest of the list. The played
// entry is written through to history immediately.
func (s *Session) PlayFromPlaylist(items []SongRef, videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(items, videoID)
	if idx < 0 {
		return
	}
	s.queue = copyRefs(items)
	s.source = SourceURL
	s.startAt(idx)

	s.writeThroughHistory(s.queue[idx])
}

// Advance moves to the next queue entry. No-op at the end of the queue; the
// UI renders that as a disabled control, not an error.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked()
}

// Retreat moves to the previous queue entry. No-op at the start.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= 0 {
		return
	}
	s.startAt(s.current - 1)
}

func (s *Session) advanceLocked() {
	if s.current < 0 || s.current+1 >= len(s.queue) {
		return
	}
	s.startAt(s.current + 1)
}

// GoHome handles home navigation. While a track is active it only raises the
// browsing overlay so audio keeps playing; from idle it clears the session
// and resets the queue back to history.
func (s *Session) GoHome() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= 0 {
		s.browsing = true
		return
	}
	s.current = -1
	s.queue = copyRefs(s.history)
	s.source = SourceHistory
	s.browsing = false
	s.playing = false
	s.loop = false
	s.playedSeconds = 0
	s.trackDuration = 0
}

// Pause pauses playback through the surface.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return
	}
	s.playing = false
	s.surface.Pause()
}

// Resume resumes playback through the surface and drops the browsing
// overlay.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return
	}
	s.playing = true
	s.browsing = false
	s.surface.Play()
}

// Seek forwards a seek to the surface.
func (s *Session) Seek(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return
	}
	s.playedSeconds = seconds
	s.surface.SeekTo(seconds)
}

// ToggleLike flips the liked state of the current song. The flip applies to
// memory synchronously; the store write follows and may fail without
// reverting it.
func (s *Session) ToggleLike() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.currentRef()
	if cur == nil {
		return
	}
	s.toggleLikeLocked(*cur)
}

// ToggleLikeItem flips the liked state of any ref, e.g. a row in a list.
func (s *Session) ToggleLikeItem(ref SongRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggleLikeLocked(ref)
}

func (s *Session) toggleLikeLocked(ref SongRef) {
	if ref.VideoID == "" {
		return
	}
	if s.liked[ref.VideoID] {
		delete(s.liked, ref.VideoID)
		for i, liked := range s.likedSongs {
			if liked.VideoID == ref.VideoID {
				s.likedSongs = append(s.likedSongs[:i], s.likedSongs[i+1:]...)
				break
			}
		}
		if s.likedStore != nil {
			if err := s.likedStore.Delete(s.userID, ref.VideoID); err != nil {
				log.Printf("player: unlike persistence failed for user %q: %v", s.userID, err)
			}
		}
		return
	}

	s.liked[ref.VideoID] = true
	ref.StoreRowID = 0
	ref.PlaylistID = ""
	ref.PlaylistTitle = ""
	s.likedSongs = append(s.likedSongs, ref)
	if s.likedStore != nil {
		if err := s.likedStore.Upsert(s.userID, ref); err != nil {
			log.Printf("player: like persistence failed for user %q: %v", s.userID, err)
		}
	}
}

// ToggleLoop flips loop for the current position and returns the new value.
// Loop intent never carries across tracks; a video change resets it.
func (s *Session) ToggleLoop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 {
		return false
	}
	s.loop = !s.loop
	return s.loop
}

// IsLiked reports whether a video is in the liked set.
func (s *Session) IsLiked(videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[videoID]
}

// LikedSongs returns a copy of the in-memory liked set, oldest first.
func (s *Session) LikedSongs() []SongRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRefs(s.likedSongs)
}

// History returns a copy of the in-memory history, oldest first.
func (s *Session) History() []SongRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRefs(s.history)
}

// Snapshot is the engine state a presentation layer renders from.
type Snapshot struct {
	History       []SongRef     `json:"history"`
	Queue         []SongRef     `json:"queue"`
	CurrentIndex  int           `json:"current_index"`
	CurrentSong   *SongRef      `json:"current_song,omitempty"`
	UpNext        []SongRef     `json:"up_next"`
	Source        PlayingSource `json:"playing_source"`
	Playing       bool          `json:"is_playing"`
	Browsing      bool          `json:"is_browsing"`
	Loop          bool          `json:"loop"`
	CurrentLiked  bool          `json:"current_liked"`
	PlayedSeconds float64       `json:"played_seconds"`
	Duration      float64       `json:"duration"`
}

// Snapshot returns a consistent copy of the render state. The invariant
// holds by construction: current index is always within [-1, len(queue)-1].
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		History:       copyRefs(s.history),
		Queue:         copyRefs(s.queue),
		CurrentIndex:  s.current,
		Source:        s.source,
		Playing:       s.playing,
		Browsing:      s.browsing,
		Loop:          s.loop,
		PlayedSeconds: s.playedSeconds,
		Duration:      s.trackDuration,
	}
	if cur := s.currentRef(); cur != nil {
		song := *cur
		snap.CurrentSong = &song
		snap.CurrentLiked = s.liked[cur.VideoID]
		snap.UpNext = copyRefs(s.queue[s.current+1:])
	}
	return snap
}

// startAt makes idx the playing position and issues the surface commands to
// get it audible. Caller holds the lock.
func (s *Session) startAt(idx int) {
	s.setCurrent(idx)
	s.browsing = false
	s.playing = true
	s.surface.Load(s.queue[idx].VideoID)
	s.surface.Play()
}

// setCurrent updates the index and resets per-track state when the video
// actually changes. Caller holds the lock.
func (s *Session) setCurrent(idx int) {
	prev := ""
	if cur := s.currentRef(); cur != nil {
		prev = cur.VideoID
	}
	s.current = idx
	cur := s.currentRef()
	if cur == nil || cur.VideoID != prev {
		s.loop = false
		s.playedSeconds = 0
		s.trackDuration = 0
		if cur != nil && cur.Duration > 0 {
			s.trackDuration = float64(cur.Duration)
		}
	}
}

func (s *Session) currentRef() *SongRef {
	if s.current < 0 || s.current >= len(s.queue) {
		return nil
	}
	return &s.queue[s.current]
}

// removeFromHistory drops every history entry whose video ID is in ids.
// Caller holds the lock.
func (s *Session) removeFromHistory(ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.history[:0]
	for _, ref := range s.history {
		if !drop[ref.VideoID] {
			kept = append(kept, ref)
		}
	}
	s.history = kept
}

// writeThroughHistory reconciles one played ref into history immediately:
// dedupe in memory, append at the top of recency, delete-then-insert in the
// store. Caller holds the lock.
func (s *Session) writeThroughHistory(ref SongRef) {
	ref.StoreRowID = 0
	s.removeFromHistory([]string{ref.VideoID})
	s.history = append(s.history, ref)

	if s.historyStore == nil {
		return
	}
	rowIDs, err := s.historyStore.Replace(s.userID, []string{ref.VideoID}, []SongRef{ref})
	if err != nil {
		log.Printf("player: history write-through failed for user %q: %v", s.userID, err)
		return
	}
	if len(rowIDs) == 1 {
		s.history[len(s.history)-1].StoreRowID = rowIDs[0]
	}
}

// assignRowIDs attaches freshly inserted row IDs to the block appended at
// history offset `block`, mirroring them into the queue copy. Caller holds
// the lock.
func (s *Session) assignRowIDs(block int, rowIDs []uint) {
	for i, id := range rowIDs {
		if block+i >= len(s.history) {
			break
		}
		s.history[block+i].StoreRowID = id
		if block+i < len(s.queue) && s.queue[block+i].VideoID == s.history[block+i].VideoID {
			s.queue[block+i].StoreRowID = id
		}
	}
}
