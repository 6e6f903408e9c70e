package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOEmbed(t *testing.T, handler http.HandlerFunc) (*OEmbedClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewOEmbedClient(srv.Client())
	client.endpoint = srv.URL
	return client, srv
}

func newTestYouTube(t *testing.T, apiKey string, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewYouTubeClient(srv.Client(), apiKey, "US")
	client.baseURL = srv.URL
	return client
}

func TestResolver_DirectLink(t *testing.T) {
	oembed, _ := newTestOEmbed(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); !strings.Contains(got, "dQw4w9WgXcQ") {
			t.Errorf("oembed lookup url = %q, want the watch link", got)
		}
		w.Write([]byte(`{"title":"Some Song","author_name":"Some Channel"}`))
	})
	youtube := newTestYouTube(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("a direct link must not hit the Data API")
	})
	res := New(oembed, youtube, 5, 50)

	refs, err := res.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}
	if refs[0].VideoID != "dQw4w9WgXcQ" || refs[0].Title != "Some Song" || refs[0].Channel != "Some Channel" {
		t.Errorf("ref = %+v", refs[0])
	}
	if refs[0].PlaylistID != "" {
		t.Error("a direct link carries no playlist membership")
	}
}

func TestResolver_DirectLinkNotFound(t *testing.T) {
	oembed, _ := newTestOEmbed(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	})
	res := New(oembed, NewYouTubeClient(http.DefaultClient, "", "US"), 5, 50)

	_, err := res.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if KindOf(err) != KindNotFound {
		t.Errorf("kind = %q, want %q", KindOf(err), KindNotFound)
	}
}

func TestResolver_SearchWithoutKeyFailsBeforeNetwork(t *testing.T) {
	youtube := newTestYouTube(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("a missing credential must fail before any request")
	})
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	_, err := res.Resolve(context.Background(), "never gonna give you up")
	if KindOf(err) != KindMissingCredential {
		t.Errorf("kind = %q, want %q", KindOf(err), KindMissingCredential)
	}
	if !strings.Contains(UserMessage(err), "direct video link") {
		t.Errorf("message = %q, should point at the direct-link fallback", UserMessage(err))
	}
}

func TestResolver_SearchQuotaExceeded(t *testing.T) {
	youtube := newTestYouTube(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		w.Write([]byte(`{"error":{"errors":[{"reason":"quotaExceeded","message":"quota exceeded"}]}}`))
	})
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	_, err := res.Resolve(context.Background(), "some query")
	if KindOf(err) != KindQuotaExceeded {
		t.Errorf("kind = %q, want %q", KindOf(err), KindQuotaExceeded)
	}
}

func TestResolver_Search(t *testing.T) {
	youtube := newTestYouTube(t, "key", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxResults"); got != "5" {
			t.Errorf("maxResults = %q, want 5", got)
		}
		if got := r.URL.Query().Get("q"); got != "some query" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"items":[
			{"id":{"videoId":"aaaaaaaaaaa"},"snippet":{"title":"First","channelTitle":"C1"}},
			{"id":{"videoId":"bbbbbbbbbbb"},"snippet":{"title":"Second","channelTitle":"C2"}}
		]}`))
	})
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	refs, err := res.Resolve(context.Background(), "some query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Title != "First" || refs[0].URL != "https://www.youtube.com/watch?v=aaaaaaaaaaa" {
		t.Errorf("ref = %+v", refs[0])
	}
}

func playlistHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/playlists"):
			w.Write([]byte(`{"items":[{"snippet":{"title":"Road Trip"}}]}`))
		case strings.HasPrefix(r.URL.Path, "/playlistItems"):
			w.Write([]byte(`{"items":[
				{"snippet":{"title":"Song A","channelTitle":"C1","resourceId":{"videoId":"aaaaaaaaaaa"}}},
				{"snippet":{"title":"Private video","resourceId":{"videoId":"bbbbbbbbbbb"}}},
				{"snippet":{"title":"Deleted video","resourceId":{"videoId":"ccccccccccc"}}},
				{"snippet":{"title":"Song D","channelTitle":"C2","resourceId":{"videoId":"ddddddddddd"}}}
			]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(500)
		}
	}
}

func TestResolver_PlaylistImport(t *testing.T) {
	youtube := newTestYouTube(t, "key", playlistHandler(t))
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	refs, err := res.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLroadtrip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, private and deleted entries must be filtered", len(refs))
	}
	for _, ref := range refs {
		if ref.PlaylistID != "PLroadtrip" || ref.PlaylistTitle != "Road Trip" {
			t.Errorf("ref membership = %q/%q", ref.PlaylistID, ref.PlaylistTitle)
		}
		if !strings.Contains(ref.URL, "list=PLroadtrip") {
			t.Errorf("ref URL %q should keep the list qualifier", ref.URL)
		}
	}
	if refs[0].VideoID != "aaaaaaaaaaa" || refs[1].VideoID != "ddddddddddd" {
		t.Errorf("refs out of order: %v, %v", refs[0].VideoID, refs[1].VideoID)
	}
}

func TestResolver_EmptyPlaylist(t *testing.T) {
	youtube := newTestYouTube(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	_, err := res.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLempty")
	if KindOf(err) != KindEmptyPlaylist {
		t.Errorf("kind = %q, want %q", KindOf(err), KindEmptyPlaylist)
	}
}

func TestResolver_PlaylistFailureFallsBackToVideo(t *testing.T) {
	// A watch link with a dead list qualifier still plays as a single video.
	oembed, _ := newTestOEmbed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Solo","author_name":"C"}`))
	})
	youtube := newTestYouTube(t, "key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	})
	res := New(oembed, youtube, 5, 50)

	refs, err := res.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLgone")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[0].VideoID != "dQw4w9WgXcQ" {
		t.Errorf("refs = %+v, want the single video fallback", refs)
	}
}

func TestResolver_PlaylistImportLimit(t *testing.T) {
	youtube := newTestYouTube(t, "key", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/playlistItems") {
			if got := r.URL.Query().Get("maxResults"); got != "50" {
				t.Errorf("maxResults = %q, want the import limit", got)
			}
			w.Write([]byte(`{"items":[{"snippet":{"title":"Song","resourceId":{"videoId":"aaaaaaaaaaa"}}}]}`))
			return
		}
		w.Write([]byte(`{"items":[]}`))
	})
	res := New(NewOEmbedClient(http.DefaultClient), youtube, 5, 50)

	refs, err := res.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLbig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refs[0].PlaylistTitle != "Unknown Playlist" {
		t.Errorf("PlaylistTitle = %q, want the fallback title", refs[0].PlaylistTitle)
	}
}
