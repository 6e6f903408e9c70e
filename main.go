package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"retropod/config"
	"retropod/database"
	"retropod/player"
	"retropod/resolver"
	"retropod/routes"
	"retropod/stores"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found. Using default configuration.")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	historyStore := stores.NewHistoryStore(db)
	likedStore := stores.NewLikedStore(db)
	playlistStore := stores.NewPlaylistStore(db)

	httpClient := config.DefaultClient()
	oembed := resolver.NewOEmbedClient(httpClient)
	youtube := resolver.NewYouTubeClient(httpClient, config.YouTube.APIKey, config.YouTube.Region)
	if !youtube.IsConfigured() {
		log.Println("Warning: YOUTUBE_API_KEY not set. Keyword search and playlist import are disabled; direct links still work.")
	}
	res := resolver.New(oembed, youtube, config.Player.SearchMaxResults, config.Player.PlaylistImportLimit)

	manager := player.NewManager(historyStore, likedStore, res.Search, config.Player.SearchDebounce)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go manager.SampleProgress(ctx, config.Player.ProgressPollInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	routes.SetupRoutes(r, manager, res, historyStore, playlistStore)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := database.ShutdownDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited")
}
