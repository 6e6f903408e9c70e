package player

import (
	"context"
	"sync"
	"time"
)

// Manager owns one session per signed-in user or anonymous browser session,
// plus that session's surface and debounced searcher.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	history  HistoryStore
	liked    LikedStore
	search   SearchFunc
	debounce time.Duration
}

type entry struct {
	session  *Session
	surface  *RemoteSurface
	searcher *Searcher
	seed     sync.Once
}

// NewManager wires the stores and the search function shared by all
// sessions.
func NewManager(history HistoryStore, liked LikedStore, search SearchFunc, debounce time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		history:  history,
		liked:    liked,
		search:   search,
		debounce: debounce,
	}
}

// ensure returns the entry for key, creating it on first sight. A non-empty
// userID binds the session to the persistent stores; an empty one gets an
// ephemeral session that is discarded with the process.
func (m *Manager) ensure(key, userID string) *entry {
	m.mu.Lock()
	e, ok := m.sessions[key]
	if !ok {
		surface := NewRemoteSurface()
		var hs HistoryStore
		var ls LikedStore
		if userID != "" {
			hs = m.history
			ls = m.liked
		}
		e = &entry{
			session: NewSession(userID, surface, hs, ls),
			surface: surface,
		}
		if m.search != nil {
			e.searcher = NewSearcher(m.search, m.debounce)
		}
		m.sessions[key] = e
	}
	m.mu.Unlock()

	// Seed outside the manager lock; List is the one awaited store call.
	e.seed.Do(e.session.Seed)
	return e
}

// Session returns the engine session for key.
func (m *Manager) Session(key, userID string) *Session {
	return m.ensure(key, userID).session
}

// Surface returns the remote surface the browser embed talks to.
func (m *Manager) Surface(key, userID string) *RemoteSurface {
	return m.ensure(key, userID).surface
}

// Searcher returns the session's debounced searcher, or nil when no search
// function is configured.
func (m *Manager) Searcher(key, userID string) *Searcher {
	return m.ensure(key, userID).searcher
}

// SampleProgress runs the progress sampling loop until ctx is cancelled.
// The embed reports position on its own schedule; sessions poll the latest
// report on a fixed interval instead of waiting for push updates.
func (m *Manager) SampleProgress(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, sess := range m.activeSessions() {
				sess.sampleProgress()
			}
		}
	}
}

func (m *Manager) activeSessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e.session)
	}
	return out
}
