package player

import (
	"context"
	"sync"
	"time"
)

// SearchFunc resolves a free-text query into candidate refs.
type SearchFunc func(ctx context.Context, query string) ([]SongRef, error)

// Searcher debounces keystroke-driven searches and discards results that
// arrive after a newer query has been issued. Cancellation is "ignore late
// result": in-flight requests are not aborted.
type Searcher struct {
	mu       sync.Mutex
	search   SearchFunc
	debounce time.Duration

	gen     uint64
	timer   *time.Timer
	query   string
	pending bool
	results []SongRef
	err     error
}

func NewSearcher(search SearchFunc, debounce time.Duration) *Searcher {
	return &Searcher{search: search, debounce: debounce}
}

// Submit schedules query after the debounce delay, superseding any earlier
// query that has not completed yet.
func (s *Searcher) Submit(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	s.query = query
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.run(gen, query)
	})
}

func (s *Searcher) run(gen uint64, query string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	results, err := s.search(context.Background(), query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Superseded while in flight; drop the late result.
		return
	}
	s.results = results
	s.err = err
	s.pending = false
}

// Results returns the outcome of the newest query: its text, the candidate
// refs if it completed, whether it is still pending, and its error.
func (s *Searcher) Results() (string, []SongRef, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, copyRefs(s.results), s.pending, s.err
}
