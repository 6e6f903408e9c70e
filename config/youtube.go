package config

import (
	"os"
)

// YouTubeConfig carries the Data API credential and search region. The key
// is optional: direct-link resolution works without one, only keyword search
// and playlist import need it.
type YouTubeConfig struct {
	APIKey string `env:"YOUTUBE_API_KEY"`
	Region string `env:"YOUTUBE_REGION" envDefault:"US"`
}

var YouTube = loadYouTubeConfig()

func loadYouTubeConfig() YouTubeConfig {
	cfg := YouTubeConfig{
		Region: "US",
	}

	cfg.APIKey = os.Getenv("YOUTUBE_API_KEY")

	if v := os.Getenv("YOUTUBE_REGION"); v != "" {
		cfg.Region = v
	}

	return cfg
}
