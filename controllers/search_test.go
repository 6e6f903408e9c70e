package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"retropod/player"
)

func setupSearchRouter(search player.SearchFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	manager := player.NewManager(nil, nil, search, time.Millisecond)
	searchController := NewSearchController(manager)

	r := gin.New()
	r.POST("/search", searchController.Submit)
	r.GET("/search/results", searchController.Results)
	return r
}

func TestSearchSubmitAndResults(t *testing.T) {
	r := setupSearchRouter(func(ctx context.Context, query string) ([]player.SongRef, error) {
		return []player.SongRef{{VideoID: "aaaaaaaaaaa", Title: "Hit for " + query}}, nil
	})

	w := doJSON(t, r, "POST", "/search", `{"query":"beatles"}`, "")
	if w.Code != 202 {
		t.Fatalf("submit status = %d, want 202", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		w = doJSON(t, r, "GET", "/search/results", "", "")
		if !strings.Contains(w.Body.String(), `"pending":true`) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("search never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Hit for beatles") {
		t.Errorf("results = %s, want the search hit", body)
	}
	if !strings.Contains(body, `"query":"beatles"`) {
		t.Errorf("results = %s, want the query echoed", body)
	}
}

func TestSearchUnconfigured(t *testing.T) {
	r := setupSearchRouter(nil)

	w := doJSON(t, r, "POST", "/search", `{"query":"beatles"}`, "")
	if w.Code != 503 {
		t.Errorf("submit status = %d, want 503 when search is not configured", w.Code)
	}

	w = doJSON(t, r, "GET", "/search/results", "", "")
	if w.Code != 503 {
		t.Errorf("results status = %d, want 503", w.Code)
	}
}

func TestSearchSubmitValidation(t *testing.T) {
	r := setupSearchRouter(func(ctx context.Context, query string) ([]player.SongRef, error) {
		return nil, nil
	})

	req, _ := http.NewRequest("POST", "/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 400 {
		t.Errorf("status = %d, want 400 for a missing query", w.Code)
	}
}
