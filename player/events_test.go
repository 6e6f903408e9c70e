package player

import (
	"testing"
)

func TestHandleEvent_PlayPauseFlags(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa")}, "")

	s.HandleEvent(Event{State: StatePaused})
	if s.Snapshot().Playing {
		t.Error("paused event should clear the playing flag")
	}

	s.HandleEvent(Event{State: StatePlaying})
	if !s.Snapshot().Playing {
		t.Error("playing event should set the playing flag")
	}
}

func TestHandleEvent_EndedWithLoopReplaysInPlace(t *testing.T) {
	s, surface, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa"), ref("bbbbbbbbbbb")}, "aaaaaaaaaaa")
	s.ToggleLoop()

	s.HandleEvent(Event{State: StateEnded})

	snap := s.Snapshot()
	if snap.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, loop must not advance", snap.CurrentIndex)
	}
	if !snap.Loop {
		t.Error("loop must stay on across the replay")
	}
	calls := surface.calls
	if calls[len(calls)-2] != "seek:0" || calls[len(calls)-1] != "play" {
		t.Errorf("surface calls = %v, want seek(0)+play at the tail", calls)
	}
}

func TestHandleEvent_EndedAtQueueEndStops(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa")}, "")

	s.HandleEvent(Event{State: StateEnded})

	snap := s.Snapshot()
	if snap.Playing {
		t.Error("ended at queue end must stop")
	}
	if snap.CurrentIndex != 0 {
		t.Error("index stays on the finished item")
	}
}

func TestHandleEvent_EndedAdvancesIntoPlaylistRun(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{
		playlistRef("aaaaaaaaaaa", "PL1"),
		playlistRef("bbbbbbbbbbb", "PL1"),
	}, "aaaaaaaaaaa")

	s.HandleEvent(Event{State: StateEnded})

	snap := s.Snapshot()
	if snap.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want auto-advance through the run", snap.CurrentIndex)
	}
	if !snap.Playing {
		t.Error("auto-advance should keep playing")
	}
}

func TestHandleEvent_EndedDoesNotAdvanceIntoLooseEntry(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa")}, "")
	s.PlayFromResolved([]SongRef{ref("bbbbbbbbbbb")}, "")
	// Replay the older entry so a loose successor exists in the queue.
	s.PlayFromHistory(0)
	s.Retreat()

	s.HandleEvent(Event{State: StateEnded})

	snap := s.Snapshot()
	if snap.Playing {
		t.Error("a loose successor must not auto-play")
	}
}

func TestHandleEvent_EndedAlwaysAdvancesInLikedQueue(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.ToggleLikeItem(ref("aaaaaaaaaaa"))
	s.ToggleLikeItem(ref("bbbbbbbbbbb"))
	s.PlayFromLiked("aaaaaaaaaaa")

	s.HandleEvent(Event{State: StateEnded})

	snap := s.Snapshot()
	if snap.CurrentIndex != 1 || !snap.Playing {
		t.Error("a liked-songs queue advances regardless of membership")
	}
}

func TestHandleEvent_MetadataBackfill(t *testing.T) {
	s, _, hs, _ := newTestSession()
	blank := SongRef{VideoID: "aaaaaaaaaaa", URL: WatchURL("aaaaaaaaaaa")}
	s.PlayFromResolved([]SongRef{blank}, "")

	s.HandleEvent(Event{State: StatePlaying, Title: "Found Title", Channel: "Found Channel"})

	snap := s.Snapshot()
	if snap.CurrentSong.Title != "Found Title" {
		t.Errorf("Title = %q, want the backfilled value", snap.CurrentSong.Title)
	}
	if hs.rows[0].Title != "Found Title" {
		t.Error("backfill should reach the store")
	}
}

func TestHandleEvent_MetadataBackfillDoesNotOverwrite(t *testing.T) {
	s, _, _, _ := newTestSession()
	s.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa")}, "")

	s.HandleEvent(Event{State: StatePlaying, Title: "Other Title"})

	if got := s.Snapshot().CurrentSong.Title; got != "Title aaaaaaaaaaa" {
		t.Errorf("Title = %q, known metadata must not be overwritten", got)
	}
}

func TestHandleEvent_MetadataBackfillPersistsMergedValues(t *testing.T) {
	s, _, hs, _ := newTestSession()
	known := SongRef{VideoID: "aaaaaaaaaaa", URL: WatchURL("aaaaaaaaaaa"), Title: "Confirmed Title"}
	s.PlayFromResolved([]SongRef{known}, "")

	s.HandleEvent(Event{State: StatePlaying, Title: "Widget Title", Channel: "Widget Channel"})

	if got := s.Snapshot().CurrentSong.Title; got != "Confirmed Title" {
		t.Errorf("Title = %q, known metadata must not be overwritten", got)
	}
	if hs.rows[0].Title != "Confirmed Title" {
		t.Errorf("store title = %q, the persisted row must match memory", hs.rows[0].Title)
	}
	if hs.rows[0].Channel != "Widget Channel" {
		t.Errorf("store channel = %q, want the backfilled channel", hs.rows[0].Channel)
	}
}

func TestHandleEvent_ChannelOnlyEventKeepsStoredTitle(t *testing.T) {
	s, _, hs, _ := newTestSession()
	known := SongRef{VideoID: "aaaaaaaaaaa", URL: WatchURL("aaaaaaaaaaa"), Title: "Confirmed Title"}
	s.PlayFromResolved([]SongRef{known}, "")

	s.HandleEvent(Event{State: StatePlaying, Channel: "Widget Channel"})

	if hs.rows[0].Title != "Confirmed Title" {
		t.Errorf("store title = %q, a channel-only report must not wipe it", hs.rows[0].Title)
	}
	if hs.rows[0].Channel != "Widget Channel" {
		t.Errorf("store channel = %q, want the backfilled channel", hs.rows[0].Channel)
	}
}

func TestSampleProgress(t *testing.T) {
	s, surface, _, _ := newTestSession()
	blank := SongRef{VideoID: "aaaaaaaaaaa", URL: WatchURL("aaaaaaaaaaa")}
	s.PlayFromResolved([]SongRef{blank}, "")

	surface.current = 42.5
	surface.duration = 180
	surface.title = "Sampled Title"
	surface.hasData = true

	s.sampleProgress()

	snap := s.Snapshot()
	if snap.PlayedSeconds != 42.5 {
		t.Errorf("PlayedSeconds = %v, want 42.5", snap.PlayedSeconds)
	}
	if snap.Duration != 180 {
		t.Errorf("Duration = %v, want 180", snap.Duration)
	}
	if snap.CurrentSong.Duration != 180 {
		t.Error("learned duration should be backfilled onto the ref")
	}
	if snap.CurrentSong.Title != "Sampled Title" {
		t.Error("reported metadata should be backfilled onto the ref")
	}
}

func TestSampleProgress_Idle(t *testing.T) {
	s, surface, _, _ := newTestSession()
	surface.current = 10

	s.sampleProgress()

	if snap := s.Snapshot(); snap.PlayedSeconds != 0 {
		t.Error("sampling with no active track must not record progress")
	}
}
