package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const oembedEndpoint = "https://www.youtube.com/oembed"

// OEmbedClient performs the no-auth embed-metadata lookup used for direct
// links. It needs no API credential, so pasting a URL keeps working when
// keyword search is disabled.
type OEmbedClient struct {
	httpClient *http.Client
	endpoint   string
}

func NewOEmbedClient(httpClient *http.Client) *OEmbedClient {
	return &OEmbedClient{
		httpClient: httpClient,
		endpoint:   oembedEndpoint,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Lookup confirms a watch URL and returns its declared title and channel.
// Private and deleted videos surface here as 401/403/404.
func (c *OEmbedClient) Lookup(ctx context.Context, watchURL string) (string, string, error) {
	reqURL := fmt.Sprintf("%s?url=%s&format=json", c.endpoint, url.QueryEscape(watchURL))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", "", errNetwork(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", errNetwork(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return "", "", errNotFound()
	default:
		return "", "", errNetwork(fmt.Errorf("oembed status %d", resp.StatusCode))
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", errNetwork(fmt.Errorf("failed to parse oembed response: %w", err))
	}
	return body.Title, body.AuthorName, nil
}
