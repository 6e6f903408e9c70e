package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

const (
	youtubeBaseURL   = "https://www.googleapis.com/youtube/v3"
	youtubeRateLimit = 100 // requests per minute
)

// Video is one candidate returned by search or playlist import. No duration
// is confirmed at this point; it arrives later from the playback surface.
type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
}

// YouTubeClient wraps the Data API endpoints the resolver needs: keyword
// search, playlist metadata and playlist items. Every call requires an API
// key; callers without one fail fast with a missing-credential error before
// any network traffic.
type YouTubeClient struct {
	httpClient *http.Client
	limiter    *RateLimiter
	apiKey     string
	region     string
	baseURL    string
}

func NewYouTubeClient(httpClient *http.Client, apiKey, region string) *YouTubeClient {
	return &YouTubeClient{
		httpClient: httpClient,
		limiter:    NewRateLimiter(youtubeRateLimit),
		apiKey:     apiKey,
		region:     region,
		baseURL:    youtubeBaseURL,
	}
}

func (c *YouTubeClient) IsConfigured() bool {
	return c.apiKey != ""
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
}

type youtubePlaylistResponse struct {
	Items []struct {
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

type youtubePlaylistItemsResponse struct {
	Items []struct {
		Snippet struct {
			youtubeSnippet
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   map[string]struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

func (s youtubeSnippet) thumbnail() string {
	if t, ok := s.Thumbnails["default"]; ok {
		return t.URL
	}
	return ""
}

// Search runs a ranked keyword search and returns up to max candidates.
func (c *YouTubeClient) Search(ctx context.Context, query string, max int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprint(max))
	params.Set("regionCode", c.region)

	body, err := c.get(ctx, "/search", params)
	if err != nil {
		return nil, err
	}

	var searchResp youtubeSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, errNetwork(fmt.Errorf("failed to parse search response: %w", err))
	}

	videos := make([]Video, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:        item.ID.VideoID,
			Title:     item.Snippet.Title,
			Channel:   item.Snippet.ChannelTitle,
			Thumbnail: item.Snippet.thumbnail(),
		})
	}
	log.Printf("YT: %d search results for %q", len(videos), query)
	return videos, nil
}

// Playlist fetches a playlist's declared title and up to limit members in
// author order, dropping entries whose title marks them private or deleted.
func (c *YouTubeClient) Playlist(ctx context.Context, playlistID string, limit int) (string, []Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", playlistID)

	title := "Unknown Playlist"
	body, err := c.get(ctx, "/playlists", params)
	if err != nil {
		return "", nil, err
	}
	var playlistResp youtubePlaylistResponse
	if err := json.Unmarshal(body, &playlistResp); err == nil && len(playlistResp.Items) > 0 {
		if t := playlistResp.Items[0].Snippet.Title; t != "" {
			title = t
		}
	}

	params = url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprint(limit))

	body, err = c.get(ctx, "/playlistItems", params)
	if err != nil {
		return "", nil, err
	}
	var itemsResp youtubePlaylistItemsResponse
	if err := json.Unmarshal(body, &itemsResp); err != nil {
		return "", nil, errNetwork(fmt.Errorf("failed to parse playlist items: %w", err))
	}

	videos := make([]Video, 0, len(itemsResp.Items))
	for _, item := range itemsResp.Items {
		if item.Snippet.Title == "Private video" || item.Snippet.Title == "Deleted video" {
			continue
		}
		if item.Snippet.ResourceID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:        item.Snippet.ResourceID.VideoID,
			Title:     item.Snippet.Title,
			Channel:   item.Snippet.ChannelTitle,
			Thumbnail: item.Snippet.thumbnail(),
		})
	}
	log.Printf("YT: playlist %q resolved to %d playable items", playlistID, len(videos))
	return title, videos, nil
}

func (c *YouTubeClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errMissingCredential()
	}
	c.limiter.Wait()
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errNetwork(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errNetwork(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errNetwork(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusForbidden:
		if strings.Contains(string(body), "quota") {
			log.Printf("YT: quota exhausted on %s", path)
			return nil, errQuotaExceeded()
		}
		return nil, errNetwork(fmt.Errorf("YouTube API error: %d - %s", resp.StatusCode, string(body)))
	case http.StatusNotFound:
		return nil, errNotFound()
	default:
		return nil, errNetwork(fmt.Errorf("YouTube API error: %d - %s", resp.StatusCode, string(body)))
	}
}
