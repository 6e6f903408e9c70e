package models

import (
	"time"
)

// HistoryEntry is one row of a user's play history. At most one row exists
// per (user_id, video_id): replaying a video removes the old row and inserts
// a fresh one, so ascending created_at is recency order.
type HistoryEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"not null;index:idx_history_user_video" json:"user_id"`
	VideoID       string    `gorm:"not null;index:idx_history_user_video" json:"video_id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Channel       string    `json:"channel"`
	PlaylistID    string    `gorm:"index" json:"playlist_id"` // set when the entry came in via playlist import
	PlaylistTitle string    `json:"playlist_title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LikedSong is a user's liked track. Lifecycle is independent from history:
// unliking never touches history rows and vice versa.
type LikedSong struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_liked_user_video" json:"user_id"`
	VideoID   string    `gorm:"not null;uniqueIndex:idx_liked_user_video" json:"video_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel"`
	Duration  int       `json:"duration"` // Duration in seconds
	CreatedAt time.Time `json:"created_at"`
}

// Playlist is a user-named collection
type Playlist struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	IsPinned  bool      `gorm:"default:false" json:"is_pinned"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistItem is playlist membership. A video may belong to any number of
// playlists and to liked songs at the same time.
type PlaylistItem struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaylistID string    `gorm:"not null;uniqueIndex:idx_playlist_video" json:"playlist_id"`
	VideoID    string    `gorm:"not null;uniqueIndex:idx_playlist_video" json:"video_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Channel    string    `json:"channel"`
	Duration   int       `json:"duration"` // Duration in seconds
	AddedAt    time.Time `gorm:"autoCreateTime" json:"added_at"`
}
