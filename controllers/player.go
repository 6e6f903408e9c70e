package controllers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"retropod/player"
	"retropod/resolver"
	"retropod/stores"
)

// PlayerController exposes the queue/history engine over HTTP. One session
// per identity; every handler resolves its session through the manager.
type PlayerController struct {
	manager   *player.Manager
	resolver  *resolver.Resolver
	playlists *stores.PlaylistStore
	history   *stores.HistoryStore
}

func NewPlayerController(manager *player.Manager, res *resolver.Resolver, playlists *stores.PlaylistStore, history *stores.HistoryStore) *PlayerController {
	return &PlayerController{
		manager:   manager,
		resolver:  res,
		playlists: playlists,
		history:   history,
	}
}

func (c *PlayerController) session(ctx *gin.Context) *player.Session {
	key, userID := requestIdentity(ctx)
	return c.manager.Session(key, userID)
}

// Play resolves free-form input (watch link, playlist link, or a search
// pick's URL) and starts playback.
func (c *PlayerController) Play(ctx *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	refs, err := c.resolver.Resolve(ctx.Request.Context(), req.Input)
	if err != nil {
		log.Printf("player: resolve failed for %q: %v", req.Input, err)
		resolutionErrorJSON(ctx, err)
		return
	}

	// A playlist import is also persisted as a browsable playlist.
	key, userID := requestIdentity(ctx)
	if userID != "" && len(refs) > 0 && refs[0].FromPlaylist() {
		if err := c.playlists.ImportResolved(userID, refs[0].PlaylistID, refs[0].PlaylistTitle, refs); err != nil {
			log.Printf("player: playlist import persistence failed: %v", err)
		}
	}

	sess := c.manager.Session(key, userID)
	sess.PlayFromResolved(refs, resolver.ExtractVideoID(req.Input))

	ctx.JSON(200, sess.Snapshot())
}

// PlayHistory replays an entry of the history list by index.
func (c *PlayerController) PlayHistory(ctx *gin.Context) {
	var req struct {
		Index *int `json:"index" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	sess := c.session(ctx)
	sess.PlayFromHistory(*req.Index)
	ctx.JSON(200, sess.Snapshot())
}

// PlayLiked starts playback out of the liked-songs view.
func (c *PlayerController) PlayLiked(ctx *gin.Context) {
	var req struct {
		VideoID string `json:"video_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	sess := c.session(ctx)
	sess.PlayFromLiked(req.VideoID)
	ctx.JSON(200, sess.Snapshot())
}

// PlayPlaylist starts playback from a saved playlist at the given video.
func (c *PlayerController) PlayPlaylist(ctx *gin.Context) {
	var req struct {
		PlaylistID string `json:"playlist_id" binding:"required"`
		VideoID    string `json:"video_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	items, err := c.playlists.Items(req.PlaylistID)
	if err != nil {
		if errors.Is(err, stores.ErrPlaylistNotFound) {
			ctx.JSON(404, gin.H{"error": "Playlist not found"})
			return
		}
		ctx.JSON(500, gin.H{"error": "Failed to load playlist"})
		return
	}

	sess := c.session(ctx)
	sess.PlayFromPlaylist(items, req.VideoID)
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Next(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.Advance()
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Previous(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.Retreat()
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Home(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.GoHome()
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Pause(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.Pause()
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Resume(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.Resume()
	ctx.JSON(200, sess.Snapshot())
}

func (c *PlayerController) Seek(ctx *gin.Context) {
	var req struct {
		Seconds float64 `json:"seconds"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	sess := c.session(ctx)
	sess.Seek(req.Seconds)
	ctx.JSON(200, sess.Snapshot())
}

// Like toggles the liked state of the current song.
func (c *PlayerController) Like(ctx *gin.Context) {
	sess := c.session(ctx)
	sess.ToggleLike()
	ctx.JSON(200, sess.Snapshot())
}

// LikeItem toggles the liked state of an arbitrary list row.
func (c *PlayerController) LikeItem(ctx *gin.Context) {
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

	ref := player.SongRef{
		VideoID: req.VideoID,
		URL:     req.URL,
		Title:   req.Title,
		Channel: req.Channel,
	}
	if ref.URL == "" {
		ref.URL = player.WatchURL(ref.VideoID)
	}

	sess := c.session(ctx)
	sess.ToggleLikeItem(ref)
	ctx.JSON(200, gin.H{"liked": sess.IsLiked(req.VideoID)})
}

func (c *PlayerController) Loop(ctx *gin.Context) {
	sess := c.session(ctx)
	loop := sess.ToggleLoop()
	ctx.JSON(200, gin.H{"loop": loop})
}

// State returns the full render snapshot.
func (c *PlayerController) State(ctx *gin.Context) {
	ctx.JSON(200, c.session(ctx).Snapshot())
}

// History lists the session's history, most recent first.
func (c *PlayerController) History(ctx *gin.Context) {
	refs := c.session(ctx).History()
	// Render order: newest at the top.
	out := make([]player.SongRef, 0, len(refs))
	for i := len(refs) - 1; i >= 0; i-- {
		out = append(out, refs[i])
	}
	ctx.JSON(200, gin.H{"history": out})
}

// DeleteHistoryEntry removes one video from the persisted history, then
// reloads the session so memory and store agree.
func (c *PlayerController) DeleteHistoryEntry(ctx *gin.Context) {
	videoID := ctx.Param("video_id")
	key, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage history"})
		return
	}

	if err := c.history.Delete(userID, videoID); err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to delete history entry"})
		return
	}
	sess := c.manager.Session(key, userID)
	sess.Seed()
	ctx.JSON(200, sess.Snapshot())
}

// ClearHistory wipes the persisted history, then reloads the session.
func (c *PlayerController) ClearHistory(ctx *gin.Context) {
	key, userID := requestIdentity(ctx)
	if userID == "" {
		ctx.JSON(401, gin.H{"error": "Sign in to manage history"})
		return
	}

	if err := c.history.Clear(userID); err != nil {
		ctx.JSON(500, gin.H{"error": "Failed to clear history"})
		return
	}
	sess := c.manager.Session(key, userID)
	sess.Seed()
	ctx.JSON(200, sess.Snapshot())
}

// Events ingests a lifecycle notification from the browser embed.
func (c *PlayerController) Events(ctx *gin.Context) {
	var ev player.Event
	if err := ctx.ShouldBindJSON(&ev); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	sess := c.session(ctx)
	sess.HandleEvent(ev)
	ctx.JSON(200, sess.Snapshot())
}

// Report ingests the embed's observed position, duration and metadata.
func (c *PlayerController) Report(ctx *gin.Context) {
	var req struct {
		CurrentTime float64 `json:"current_time"`
		Duration    float64 `json:"duration"`
		Title       string  `json:"title"`
		Channel     string  `json:"channel"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	key, userID := requestIdentity(ctx)
	surface := c.manager.Surface(key, userID)
	surface.Report(req.CurrentTime, req.Duration)
	if req.Title != "" || req.Channel != "" {
		surface.ReportVideoData(req.Title, req.Channel)
	}
	ctx.JSON(200, gin.H{"status": "ok"})
}

// Commands drains the pending transport commands for the embed's next poll.
func (c *PlayerController) Commands(ctx *gin.Context) {
	key, userID := requestIdentity(ctx)
	commands := c.manager.Surface(key, userID).Drain()
	if commands == nil {
		commands = []player.Command{}
	}
	ctx.JSON(200, gin.H{"commands": commands})
}
