package stores

import (
	"time"

	"gorm.io/gorm"

	"retropod/models"
	"retropod/player"
)

// HistoryStore persists the recency-ordered play history. Rows are ordered
// by created_at; bumping an entry to the top of recency rewrites its
// timestamp rather than moving rows.
type HistoryStore struct {
	db *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// List returns the user's history oldest-first, matching the in-memory
// layout where the most recent play sits at the end.
func (s *HistoryStore) List(userID string) ([]player.SongRef, error) {
	var rows []models.HistoryEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	refs := make([]player.SongRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, player.SongRef{
			VideoID:       row.VideoID,
			URL:           row.URL,
			Title:         row.Title,
			Channel:       row.Channel,
			StoreRowID:    row.ID,
			PlaylistID:    row.PlaylistID,
			PlaylistTitle: row.PlaylistTitle,
		})
	}
	return refs, nil
}

// Replace removes any rows matching removeVideoIDs and appends insert at the
// top of recency, in order. Returned row IDs parallel insert.
func (s *HistoryStore) Replace(userID string, removeVideoIDs []string, insert []player.SongRef) ([]uint, error) {
	ids := make([]uint, len(insert))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(removeVideoIDs) > 0 {
			if err := tx.Where("user_id = ? AND video_id IN ?", userID, removeVideoIDs).
				Delete(&models.HistoryEntry{}).Error; err != nil {
				return err
			}
		}

		// Staggered timestamps keep the block's internal order stable under
		// the created_at sort.
		base := time.Now()
		for i, ref := range insert {
			row := models.HistoryEntry{
				UserID:        userID,
				VideoID:       ref.VideoID,
				URL:           ref.URL,
				Title:         ref.Title,
				Channel:       ref.Channel,
				PlaylistID:    ref.PlaylistID,
				PlaylistTitle: ref.PlaylistTitle,
				CreatedAt:     base.Add(time.Duration(i) * time.Millisecond),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			ids[i] = row.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Touch bumps the given videos to the top of recency, preserving the order
// of videoIDs among themselves.
func (s *HistoryStore) Touch(userID string, videoIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		base := time.Now()
		for i, videoID := range videoIDs {
			if err := tx.Model(&models.HistoryEntry{}).
				Where("user_id = ? AND video_id = ?", userID, videoID).
				Update("created_at", base.Add(time.Duration(i)*time.Millisecond)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// TouchPlaylist bumps every history row carrying the playlist to the top of
// recency as one block, keeping the run's internal order.
func (s *HistoryStore) TouchPlaylist(userID, playlistID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rows []models.HistoryEntry
		if err := tx.Where("user_id = ? AND playlist_id = ?", userID, playlistID).
			Order("created_at ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		base := time.Now()
		for i, row := range rows {
			if err := tx.Model(&models.HistoryEntry{}).
				Where("id = ?", row.ID).
				Update("created_at", base.Add(time.Duration(i)*time.Millisecond)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateMetadata backfills title and channel once the playback surface
// reports them.
func (s *HistoryStore) UpdateMetadata(rowID uint, title, channel string) error {
	return s.db.Model(&models.HistoryEntry{}).
		Where("id = ?", rowID).
		Updates(map[string]interface{}{"title": title, "channel": channel}).Error
}

// Delete drops a single video from the user's history.
func (s *HistoryStore) Delete(userID, videoID string) error {
	return s.db.Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.HistoryEntry{}).Error
}

// Clear wipes the user's entire history.
func (s *HistoryStore) Clear(userID string) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.HistoryEntry{}).Error
}
