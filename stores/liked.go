package stores

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retropod/models"
	"retropod/player"
)

// LikedStore persists the per-user liked collection, keyed by video.
type LikedStore struct {
	db *gorm.DB
}

func NewLikedStore(db *gorm.DB) *LikedStore {
	return &LikedStore{db: db}
}

// List returns liked songs in the order they were liked.
func (s *LikedStore) List(userID string) ([]player.SongRef, error) {
	var rows []models.LikedSong
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	refs := make([]player.SongRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, player.SongRef{
			VideoID:  row.VideoID,
			URL:      row.URL,
			Title:    row.Title,
			Channel:  row.Channel,
			Duration: row.Duration,
		})
	}
	return refs, nil
}

// Upsert records a like. Re-liking an already liked video refreshes its
// metadata instead of failing on the unique index.
func (s *LikedStore) Upsert(userID string, ref player.SongRef) error {
	row := models.LikedSong{
		UserID:   userID,
		VideoID:  ref.VideoID,
		URL:      ref.URL,
		Title:    ref.Title,
		Channel:  ref.Channel,
		Duration: ref.Duration,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "title", "channel", "duration"}),
	}).Create(&row).Error
}

func (s *LikedStore) Delete(userID, videoID string) error {
	return s.db.Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.LikedSong{}).Error
}
