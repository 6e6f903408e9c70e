package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"retropod/player"
	"retropod/stores"
)

// LibraryController serves the browsable collections: liked songs and the
// user's saved playlists.
type LibraryController struct {
	manager   *player.Manager
	playlists *stores.PlaylistStore
}

func NewLibraryController(manager *player.Manager, playlists *stores.PlaylistStore) *LibraryController {
	return &LibraryController{manager: manager, playlists: playlists}
}

// GetLiked lists the session's liked songs, most recently liked first.
func (c *LibraryController) GetLiked(ctx *gin.Context) {
	key, userID := requestIdentity(ctx)
	refs := c.manager.Session(key, userID).LikedSongs()

	out := make([]player.SongRef, 0, len(refs))
	for i := len(refs) - 1; i >= 0; i-- {
		out = append(out, refs[i])
	}
	ctx.JSON(200, gin.H{"liked_songs": out})
}

func (c *LibraryController) GetPlaylists(ctx *gin.Context) {
	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(200, gin.H{"playlists": []any{}})
		return
	}

	rows, err := c.playlists.List(userID)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to fetch playlists"})
		return
	}
	ctx.JSON(200, gin.H{"playlists": rows})
}

func (c *LibraryController) CreatePlaylist(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to create playlists"})
		return
	}

	row, err := c.playlists.Create(userID, req.Name)
	if err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to create playlist"})
		return
	}
	ctx.JSON(201, row)
}

func (c *LibraryController) UpdatePlaylist(ctx *gin.Context) {
	var req struct {
		Name     *string `json:"name"`
		IsPinned *bool   `json:"is_pinned"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage playlists"})
		return
	}

	playlistID := ctx.Param("id")
	if req.Name != nil {
		if err := c.playlists.Rename(userID, playlistID, *req.Name); err != nil {
			playlistErrorJSON(ctx, err)
			return
		}
	}
	if req.IsPinned != nil {
		if err := c.playlists.SetPinned(userID, playlistID, *req.IsPinned); err != nil {
			playlistErrorJSON(ctx, err)
			return
		}
	}
	ctx.JSON(200, gin.H{"status": "Playlist updated"})
}

func (c *LibraryController) DeletePlaylist(ctx *gin.Context) {
	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage playlists"})
		return
	}

	if err := c.playlists.Delete(userID, ctx.Param("id")); err != nil {
		playlistErrorJSON(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"status": "Playlist deleted"})
}

// GetPlaylistItems lists a playlist's members in order.
func (c *LibraryController) GetPlaylistItems(ctx *gin.Context) {
	items, err := c.playlists.Items(ctx.Param("id"))
	if err != nil {
		playlistErrorJSON(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"items": items})
}

func (c *LibraryController) AddPlaylistItem(ctx *gin.Context) {
	var req struct {
		VideoID string `json:"video_id" binding:"required"`
		URL     string `json:"url"`
		Title   string `json:"title"`
		Channel string `json:"channel"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage playlists"})
		return
	}

	playlistID := ctx.Param("id")
	if _, err := c.playlists.Get(userID, playlistID); err != nil {
		playlistErrorJSON(ctx, err)
		return
	}

	ref := player.SongRef{
		VideoID: req.VideoID,
		URL:     req.URL,
		Title:   req.Title,
		Channel: req.Channel,
	}
	if ref.URL == "" {
		ref.URL = player.WatchURL(ref.VideoID)
	}
	if err := c.playlists.AddItem(playlistID, ref); err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to add to playlist"})
		return
	}
	ctx.JSON(200, gin.H{"status": "Added to playlist"})
}

func (c *LibraryController) RemovePlaylistItem(ctx *gin.Context) {
	_, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage playlists"})
		return
	}

	playlistID := ctx.Param("id")
	if _, err := c.playlists.Get(userID, playlistID); err != nil {
		playlistErrorJSON(ctx, err)
		return
	}

	if err := c.playlists.RemoveItem(playlistID, ctx.Param("video_id")); err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to remove from playlist"})
		return
	}
	ctx.JSON(200, gin.H{"status": "Removed from playlist"})
}

func playlistErrorJSON(ctx *gin.Context, err error) {
	if errors.Is(err, stores.ErrPlaylistNotFound) {
		ctx.JSON(404, gin.H{"error": "Playlist not found"})
		return
	}
	ctx.JSON(500, gin.H{"error": "Playlist operation failed"})
}
