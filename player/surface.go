package player

import (
	"sync"
)

// Surface is the transport boundary to the embeddable player widget. Calls
// are fire-and-forget; the widget reports lifecycle and progress back
// asynchronously and is treated as an untrusted event source.
type Surface interface {
	Load(videoID string)
	Play()
	Pause()
	SeekTo(seconds float64)
	CurrentTime() float64
	Duration() float64
	VideoData() (title, channel string, ok bool)
}

// Command is one queued transport instruction for the browser embed.
type Command struct {
	Action  string  `json:"action"` // "load", "play", "pause", "seek"
	VideoID string  `json:"video_id,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
}

const maxPendingCommands = 64

// RemoteSurface implements Surface for an embed living in the browser.
// Transport calls queue commands the embed drains on its next poll; the
// embed pushes its observed time, duration and metadata back through the
// Report methods.
type RemoteSurface struct {
	mu       sync.Mutex
	pending  []Command
	current  float64
	duration float64
	title    string
	channel  string
	hasData  bool
}

func NewRemoteSurface() *RemoteSurface {
	return &RemoteSurface{}
}

func (s *RemoteSurface) push(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Drop the oldest command if the embed stopped polling.
	if len(s.pending) >= maxPendingCommands {
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, cmd)
}

func (s *RemoteSurface) Load(videoID string) {
	s.mu.Lock()
	// Reported progress and metadata belong to the previous video.
	s.current = 0
	s.duration = 0
	s.title = ""
	s.channel = ""
	s.hasData = false
	s.mu.Unlock()
	s.push(Command{Action: "load", VideoID: videoID})
}

func (s *RemoteSurface) Play() {
	s.push(Command{Action: "play"})
}

func (s *RemoteSurface) Pause() {
	s.push(Command{Action: "pause"})
}

func (s *RemoteSurface) SeekTo(seconds float64) {
	s.push(Command{Action: "seek", Seconds: seconds})
}

// Drain returns and clears the pending command queue.
func (s *RemoteSurface) Drain() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Report records the embed's observed playback position and duration.
func (s *RemoteSurface) Report(current, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = current
	if duration > 0 {
		s.duration = duration
	}
}

// ReportVideoData records the embed's observed title and channel.
func (s *RemoteSurface) ReportVideoData(title, channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.channel = channel
	s.hasData = title != "" || channel != ""
}

func (s *RemoteSurface) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *RemoteSurface) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *RemoteSurface) VideoData() (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, s.channel, s.hasData
}
