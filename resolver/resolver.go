package resolver

import (
	"context"
	"fmt"

	"retropod/player"
)

// Resolver turns raw user input into playable refs. Strategies run in a
// fixed order: playlist import when the link carries a list qualifier,
// direct watch-link lookup, then keyword search. Each strategy returns a
// tagged ResolutionError rather than throwing into the caller.
type Resolver struct {
	oembed        *OEmbedClient
	youtube       *YouTubeClient
	maxResults    int
	playlistLimit int
}

func New(oembed *OEmbedClient, youtube *YouTubeClient, maxResults, playlistLimit int) *Resolver {
	return &Resolver{
		oembed:        oembed,
		youtube:       youtube,
		maxResults:    maxResults,
		playlistLimit: playlistLimit,
	}
}

// Resolve maps input to refs. Direct-link results carry confirmed metadata,
// search results are candidates with title/channel only, and playlist
// imports tag every ref with the same membership.
func (r *Resolver) Resolve(ctx context.Context, input string) ([]player.SongRef, error) {
	if pid := ExtractPlaylistID(input); pid != "" {
		refs, err := r.importPlaylist(ctx, pid)
		if err == nil {
			return refs, nil
		}
		// A watch link with a dead or credential-gated list qualifier can
		// still play as a single video.
		if vid := ExtractVideoID(input); vid != "" {
			return r.resolveDirect(ctx, vid)
		}
		return nil, err
	}
	if vid := ExtractVideoID(input); vid != "" {
		return r.resolveDirect(ctx, vid)
	}
	return r.Search(ctx, input)
}

func (r *Resolver) resolveDirect(ctx context.Context, videoID string) ([]player.SongRef, error) {
	watch := player.WatchURL(videoID)
	title, channel, err := r.oembed.Lookup(ctx, watch)
	if err != nil {
		return nil, err
	}
	return []player.SongRef{{
		VideoID: videoID,
		URL:     watch,
		Title:   title,
		Channel: channel,
	}}, nil
}

func (r *Resolver) importPlaylist(ctx context.Context, playlistID string) ([]player.SongRef, error) {
	title, items, err := r.youtube.Playlist(ctx, playlistID, r.playlistLimit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errEmptyPlaylist()
	}

	refs := make([]player.SongRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, player.SongRef{
			VideoID: item.ID,
			// The list qualifier keeps the membership across URL round-trips.
			URL:           fmt.Sprintf("%s&list=%s", player.WatchURL(item.ID), playlistID),
			Title:         item.Title,
			Channel:       item.Channel,
			PlaylistID:    playlistID,
			PlaylistTitle: title,
		})
	}
	return refs, nil
}

// Search runs the keyword path and adapts its candidates into refs with no
// playlist membership. It doubles as the SearchFunc behind the engine's
// debounced searcher.
func (r *Resolver) Search(ctx context.Context, query string) ([]player.SongRef, error) {
	videos, err := r.youtube.Search(ctx, query, r.maxResults)
	if err != nil {
		return nil, err
	}
	refs := make([]player.SongRef, 0, len(videos))
	for _, v := range videos {
		refs = append(refs, player.SongRef{
			VideoID: v.ID,
			URL:     player.WatchURL(v.ID),
			Title:   v.Title,
			Channel: v.Channel,
		})
	}
	return refs, nil
}
