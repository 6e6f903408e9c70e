package resolver

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// IsURL decides whether input should be treated as a link at all; anything
// else goes down the keyword-search path.
func IsURL(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.") ||
		strings.HasPrefix(input, "youtu")
}

func parseURL(input string) *url.URL {
	input = strings.TrimSpace(input)
	if input == "" || !IsURL(input) {
		return nil
	}
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

// ExtractVideoID pulls the 11-character video ID out of the common link
// shapes: watch URLs with a v= query, youtu.be short links, and /shorts/,
// /embed/ or /live/ paths. Returns "" when input is not a video link.
func ExtractVideoID(input string) string {
	u := parseURL(input)
	if u == nil {
		return ""
	}

	if id := u.Query().Get("v"); videoIDPattern.MatchString(id) {
		return id
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.TrimPrefix(u.Path, "/")
	if host == "youtu.be" {
		if id := firstSegment(path); videoIDPattern.MatchString(id) {
			return id
		}
	}
	for _, prefix := range []string{"shorts/", "embed/", "live/"} {
		if strings.HasPrefix(path, prefix) {
			if id := firstSegment(strings.TrimPrefix(path, prefix)); videoIDPattern.MatchString(id) {
				return id
			}
		}
	}
	return ""
}

// ExtractPlaylistID returns the link's list qualifier, "" when absent.
func ExtractPlaylistID(input string) string {
	u := parseURL(input)
	if u == nil {
		return ""
	}
	return u.Query().Get("list")
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}
