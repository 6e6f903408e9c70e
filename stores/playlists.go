package stores

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retropod/models"
	"retropod/player"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

// PlaylistStore persists user-curated playlists and their members. Imported
// playlists keep their upstream IDs; locally created ones get UUIDs.
type PlaylistStore struct {
	db *gorm.DB
}

func NewPlaylistStore(db *gorm.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

func (s *PlaylistStore) List(userID string) ([]models.Playlist, error) {
	var rows []models.Playlist
	err := s.db.Where("user_id = ?", userID).
		Order("is_pinned DESC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *PlaylistStore) Get(userID, playlistID string) (*models.Playlist, error) {
	var row models.Playlist
	err := s.db.Where("id = ? AND user_id = ?", playlistID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *PlaylistStore) Create(userID, name string) (*models.Playlist, error) {
	row := models.Playlist{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *PlaylistStore) Rename(userID, playlistID, name string) error {
	result := s.db.Model(&models.Playlist{}).
		Where("id = ? AND user_id = ?", playlistID, userID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

func (s *PlaylistStore) SetPinned(userID, playlistID string, pinned bool) error {
	result := s.db.Model(&models.Playlist{}).
		Where("id = ? AND user_id = ?", playlistID, userID).
		Update("is_pinned", pinned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// Delete removes a playlist and its members.
func (s *PlaylistStore) Delete(userID, playlistID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", playlistID, userID).
			Delete(&models.Playlist{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPlaylistNotFound
		}
		return tx.Where("playlist_id = ?", playlistID).
			Delete(&models.PlaylistItem{}).Error
	})
}

// Items returns the playlist's members in the order they were added.
func (s *PlaylistStore) Items(playlistID string) ([]player.SongRef, error) {
	var playlist models.Playlist
	if err := s.db.Where("id = ?", playlistID).First(&playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}

	var rows []models.PlaylistItem
	if err := s.db.Where("playlist_id = ?", playlistID).
		Order("added_at ASC").
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
			Duration:      row.Duration,
			PlaylistID:    playlistID,
			PlaylistTitle: playlist.Name,
		})
	}
	return refs, nil
}

// AddItem appends a video to a playlist; adding a video twice is a no-op
// that refreshes metadata.
func (s *PlaylistStore) AddItem(playlistID string, ref player.SongRef) error {
	row := models.PlaylistItem{
		PlaylistID: playlistID,
		VideoID:    ref.VideoID,
		URL:        ref.URL,
		Title:      ref.Title,
		Channel:    ref.Channel,
		Duration:   ref.Duration,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "title", "channel", "duration"}),
	}).Create(&row).Error
}

func (s *PlaylistStore) RemoveItem(playlistID, videoID string) error {
	return s.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistItem{}).Error
}

// ImportResolved stores a playlist imported from a link together with its
// resolved members, replacing any earlier import of the same playlist.
func (s *PlaylistStore) ImportResolved(userID, playlistID, name string, refs []player.SongRef) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		playlist := models.Playlist{
			ID:     playlistID,
			UserID: userID,
			Name:   name,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&playlist).Error; err != nil {
			return err
		}

		if err := tx.Where("playlist_id = ?", playlistID).
			Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		// Staggered timestamps keep the upstream order under the added_at sort.
		base := time.Now()
		for i, ref := range refs {
			item := models.PlaylistItem{
				PlaylistID: playlistID,
				VideoID:    ref.VideoID,
				URL:        ref.URL,
				Title:      ref.Title,
				Channel:    ref.Channel,
				Duration:   ref.Duration,
				AddedAt:    base.Add(time.Duration(i) * time.Millisecond),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
