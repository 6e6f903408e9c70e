package config

import (
	"os"
	"strconv"
	"time"
)

// PlayerConfig holds the engine tunables. The defaults mirror the behavior
// of the browser remote: progress is sampled twice per second and searches
// fire a short beat after the last keystroke.
type PlayerConfig struct {
	ProgressPollInterval time.Duration `env:"PLAYER_PROGRESS_POLL_INTERVAL" envDefault:"500ms"`
	SearchDebounce       time.Duration `env:"PLAYER_SEARCH_DEBOUNCE" envDefault:"300ms"`
	SearchMaxResults     int           `env:"PLAYER_SEARCH_MAX_RESULTS" envDefault:"5"`
	PlaylistImportLimit  int           `env:"PLAYER_PLAYLIST_IMPORT_LIMIT" envDefault:"50"`
}

var Player = loadPlayerConfig()

func loadPlayerConfig() PlayerConfig {
	cfg := PlayerConfig{
		ProgressPollInterval: 500 * time.Millisecond,
		SearchDebounce:       300 * time.Millisecond,
		SearchMaxResults:     5,
		PlaylistImportLimit:  50,
	}

	if v := os.Getenv("PLAYER_PROGRESS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProgressPollInterval = d
		}
	}

	if v := os.Getenv("PLAYER_SEARCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SearchDebounce = d
		}
	}

	if v := os.Getenv("PLAYER_SEARCH_MAX_RESULTS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.SearchMaxResults = i
		}
	}

	if v := os.Getenv("PLAYER_PLAYLIST_IMPORT_LIMIT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			cfg.PlaylistImportLimit = i
		}
	}

	return cfg
}
