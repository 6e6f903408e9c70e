package player

import (
	"context"
	"testing"
	"time"
)

func TestManager_SessionPerKey(t *testing.T) {
	m := NewManager(newFakeHistoryStore(), &fakeLikedStore{}, nil, 0)

	a := m.Session("user:alice", "alice")
	b := m.Session("user:bob", "bob")
	if a == b {
		t.Fatal("distinct keys must get distinct sessions")
	}
	if again := m.Session("user:alice", "alice"); again != a {
		t.Error("the same key must get the same session back")
	}
}

func TestManager_AnonymousSessionIsEphemeral(t *testing.T) {
	hs := newFakeHistoryStore()
	hs.rows = []SongRef{ref("aaaaaaaaaaa")}
	m := NewManager(hs, &fakeLikedStore{}, nil, 0)

	sess := m.Session("anon:tab-1", "")
	if got := sess.History(); len(got) != 0 {
		t.Error("an anonymous session must not see persisted history")
	}

	sess.PlayFromResolved([]SongRef{ref("bbbbbbbbbbb")}, "")
	if len(hs.rows) != 1 {
		t.Error("an anonymous session must not write to the store")
	}
}

func TestManager_SignedInSessionSeedsOnce(t *testing.T) {
	hs := newFakeHistoryStore()
	hs.rows = []SongRef{ref("aaaaaaaaaaa"), ref("bbbbbbbbbbb")}
	m := NewManager(hs, &fakeLikedStore{}, nil, 0)

	sess := m.Session("user:alice", "alice")
	if got := sess.History(); len(got) != 2 {
		t.Fatalf("seeded history = %d entries, want 2", len(got))
	}

	// A later lookup must not re-seed and wipe in-memory additions.
	sess.PlayFromResolved([]SongRef{ref("ccccccccccc")}, "")
	sess = m.Session("user:alice", "alice")
	if got := sess.History(); len(got) != 3 {
		t.Errorf("history = %d entries after lookup, want 3", len(got))
	}
}

func TestManager_SearcherRequiresSearchFunc(t *testing.T) {
	m := NewManager(newFakeHistoryStore(), &fakeLikedStore{}, nil, 0)
	if m.Searcher("user:alice", "alice") != nil {
		t.Error("no search function configured, searcher should be nil")
	}

	withSearch := NewManager(newFakeHistoryStore(), &fakeLikedStore{}, func(ctx context.Context, q string) ([]SongRef, error) {
		return nil, nil
	}, time.Millisecond)
	if withSearch.Searcher("user:alice", "alice") == nil {
		t.Error("searcher should exist when a search function is configured")
	}
}

func TestManager_SampleProgressStopsOnCancel(t *testing.T) {
	m := NewManager(newFakeHistoryStore(), &fakeLikedStore{}, nil, 0)
	sess := m.Session("user:alice", "alice")
	surface := m.Surface("user:alice", "alice")

	sess.PlayFromResolved([]SongRef{ref("aaaaaaaaaaa")}, "")
	surface.Drain()
	surface.Report(12, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.SampleProgress(ctx, 5*time.Millisecond)
		close(done)
	}()

	waitFor(t, func() bool {
		return sess.Snapshot().PlayedSeconds == 12
	})

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampling loop did not stop on cancellation")
	}
}
