package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"retropod/controllers"
	"retropod/database"
	"retropod/player"
	"retropod/resolver"
	"retropod/stores"
)

func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// SetupRoutes wires every endpoint onto the engine.
func SetupRoutes(r *gin.Engine, manager *player.Manager, res *resolver.Resolver, historyStore *stores.HistoryStore, playlistStore *stores.PlaylistStore) {
	db := database.GetDB()

	playerController := controllers.NewPlayerController(manager, res, playlistStore, historyStore)
	searchController := controllers.NewSearchController(manager)
	libraryController := controllers.NewLibraryController(manager, playlistStore)

	r.Use(SecurityHeadersMiddleware())
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(503, gin.H{
				"status":    "unhealthy",
				"error":     "database connection error",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(pingCtx); err != nil {
			c.JSON(503, gin.H{
				"status":    "unhealthy",
				"error":     "database ping failed",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		c.JSON(200, gin.H{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().Unix(),
		})
	})

	r.GET("/player/state", playerController.State)
	r.POST("/player/play", playerController.Play)
	r.POST("/player/play-history", playerController.PlayHistory)
	r.POST("/player/play-liked", playerController.PlayLiked)
	r.POST("/player/play-playlist", playerController.PlayPlaylist)
	r.POST("/player/next", playerController.Next)
	r.POST("/player/previous", playerController.Previous)
	r.POST("/player/home", playerController.Home)
	r.POST("/player/pause", playerController.Pause)
	r.POST("/player/resume", playerController.Resume)
	r.POST("/player/seek", playerController.Seek)
	r.POST("/player/like", playerController.Like)
	r.POST("/player/like-item", playerController.LikeItem)
	r.POST("/player/loop", playerController.Loop)

	r.GET("/player/history", playerController.History)
	r.DELETE("/player/history", playerController.ClearHistory)
	r.DELETE("/player/history/:video_id", playerController.DeleteHistoryEntry)

	// Embed transport: the widget drains commands and pushes observations.
	r.GET("/player/commands", playerController.Commands)
	r.POST("/player/events", playerController.Events)
	r.POST("/player/report", playerController.Report)

	r.POST("/search", searchController.Submit)
	r.GET("/search/results", searchController.Results)

	r.GET("/library/liked", libraryController.GetLiked)
	r.GET("/library/playlists", libraryController.GetPlaylists)
	r.POST("/library/playlists", libraryController.CreatePlaylist)
	r.PUT("/library/playlists/:id", libraryController.UpdatePlaylist)
	r.DELETE("/library/playlists/:id", libraryController.DeletePlaylist)
	r.GET("/library/playlists/:id/items", libraryController.GetPlaylistItems)
	r.POST("/library/playlists/:id/items", libraryController.AddPlaylistItem)
	r.DELETE("/library/playlists/:id/items/:video_id", libraryController.RemovePlaylistItem)
}
