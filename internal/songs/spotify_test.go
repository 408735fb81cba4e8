package songs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeSpotify runs token and search endpoints on one test server.
type fakeSpotify struct {
	tokenCalls  int
	searchCalls int
	tokenStatus int
	expiresIn   int
	lastAuth    string
	lastQuery   string
	lastLimit   string
	searchBody  string
}

func newFakeSpotify() *fakeSpotify {
	return &fakeSpotify{
		tokenStatus: http.StatusOK,
		expiresIn:   3600,
		searchBody: `{"tracks": {"items": [
			{"id": "track1", "name": "Summer Hit",
			 "artists": [{"name": "Artist A"}, {"name": "Artist B"}],
			 "album": {"name": "Summer Album", "images": [{"url": "https://img.example/1.jpg"}]},
			 "preview_url": "https://p.example/1.mp3",
			 "external_urls": {"spotify": "https://open.spotify.com/track/track1"}}
		]}}`,
	}
}

func (f *fakeSpotify) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		if f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   f.expiresIn,
		})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls++
		f.lastAuth = r.Header.Get("Authorization")
		f.lastQuery = r.URL.Query().Get("q")
		f.lastLimit = r.URL.Query().Get("limit")
		w.Write([]byte(f.searchBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, f *fakeSpotify) *Client {
	srv := f.server(t)
	return NewClient("id", "secret",
		WithHTTPClient(srv.Client()),
		WithBaseURLs(srv.URL, srv.URL+"/api/token"))
}

// --- SearchTracks Tests ---

func TestSearchTracks_FlattensResults(t *testing.T) {
	fake := newFakeSpotify()
	c := newTestClient(t, fake)

	results, err := c.SearchTracks(context.Background(), "summer", 5)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	track := results[0]
	if track.ID != "track1" || track.Name != "Summer Hit" {
		t.Errorf("track = %+v", track)
	}
	if track.Artist != "Artist A" {
		t.Errorf("Artist = %q, want first artist only", track.Artist)
	}
	if track.Album != "Summer Album" {
		t.Errorf("Album = %q", track.Album)
	}
	if track.ImageURL != "https://img.example/1.jpg" {
		t.Errorf("ImageURL = %q", track.ImageURL)
	}
	if track.SpotifyURL != "https://open.spotify.com/track/track1" {
		t.Errorf("SpotifyURL = %q", track.SpotifyURL)
	}

	if fake.lastQuery != "summer" || fake.lastLimit != "5" {
		t.Errorf("search args = (%q, %q)", fake.lastQuery, fake.lastLimit)
	}
	if fake.lastAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", fake.lastAuth)
	}
}

func TestSearchTracks_DefaultLimit(t *testing.T) {
	fake := newFakeSpotify()
	c := newTestClient(t, fake)

	if _, err := c.SearchTracks(context.Background(), "x", 0); err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
	if fake.lastLimit != "10" {
		t.Errorf("limit = %q, want default 10", fake.lastLimit)
	}
}

func TestSearchTracks_TokenIsCached(t *testing.T) {
	fake := newFakeSpotify()
	c := newTestClient(t, fake)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.SearchTracks(ctx, "x", 1); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}

	if fake.tokenCalls != 1 {
		t.Errorf("token calls = %d, want 1 (cached)", fake.tokenCalls)
	}
	if fake.searchCalls != 3 {
		t.Errorf("search calls = %d, want 3", fake.searchCalls)
	}
}

func TestSearchTracks_ExpiredTokenRefreshed(t *testing.T) {
	fake := newFakeSpotify()
	// Lifetime shorter than the slack window: the token is already stale.
	fake.expiresIn = 1
	c := newTestClient(t, fake)
	ctx := context.Background()

	if _, err := c.SearchTracks(ctx, "x", 1); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := c.SearchTracks(ctx, "x", 1); err != nil {
		t.Fatalf("second search: %v", err)
	}

	if fake.tokenCalls != 2 {
		t.Errorf("token calls = %d, want 2 (refresh)", fake.tokenCalls)
	}
}

func TestSearchTracks_TokenFailure(t *testing.T) {
	fake := newFakeSpotify()
	fake.tokenStatus = http.StatusUnauthorized
	c := newTestClient(t, fake)

	_, err := c.SearchTracks(context.Background(), "x", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestSearchTracks_SearchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "t", "expires_in": 3600})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient("id", "secret",
		WithHTTPClient(srv.Client()),
		WithBaseURLs(srv.URL, srv.URL+"/api/token"))

	_, err := c.SearchTracks(context.Background(), "x", 1)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestSearchTracks_EmptyResults(t *testing.T) {
	fake := newFakeSpotify()
	fake.searchBody = `{"tracks": {"items": []}}`
	c := newTestClient(t, fake)

	results, err := c.SearchTracks(context.Background(), "obscure", 1)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}
