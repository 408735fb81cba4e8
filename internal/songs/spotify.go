// Package songs provides the external song-catalog client. Spotify's Web API
// is consumed directly over HTTP: client-credentials token with expiry
// caching, then track search flattened to the shape the campaign UI expects.
package songs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beatreach/beatreach/internal/types"
)

const (
	defaultAPIBase  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultLimit is the number of tracks returned when the caller does
	// not specify one.
	DefaultLimit = 10

	// tokenSlack is subtracted from the token lifetime so a token is never
	// used right at its expiry boundary.
	tokenSlack = 30 * time.Second
)

// ErrUnavailable indicates the song catalog could not be reached or returned
// an unusable response.
var ErrUnavailable = errors.New("song catalog unavailable")

// Client is a Spotify Web API client scoped to track search.
// Safe for concurrent use; the access token is cached until expiry.
type Client struct {
	clientID     string
	clientSecret string
	apiBase      string
	tokenURL     string
	httpClient   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs overrides the API and token endpoints. Used in tests.
func WithBaseURLs(apiBase, tokenURL string) Option {
	return func(c *Client) {
		c.apiBase = apiBase
		c.tokenURL = tokenURL
	}
}

// NewClient creates a song catalog client with the given app credentials.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBase:      defaultAPIBase,
		tokenURL:     defaultTokenURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchTracks searches the catalog and returns flattened track results.
// A non-positive limit falls back to DefaultLimit.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]types.SongResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid search response: %s", ErrUnavailable, err.Error())
	}

	out := make([]types.SongResult, 0, len(parsed.Tracks.Items))
	for _, track := range parsed.Tracks.Items {
		out = append(out, flatten(track))
	}
	return out, nil
}

// accessToken returns the cached client-credentials token, refreshing it
// when missing or expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	creds := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: invalid token response: %s", ErrUnavailable, err.Error())
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", ErrUnavailable)
	}

	c.token = body.AccessToken
	c.expiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - tokenSlack)
	return c.token, nil
}

// Wire shapes for the subset of the search response we consume.
type searchResponse struct {
	Tracks struct {
		Items []trackWire `json:"items"`
	} `json:"tracks"`
}

type trackWire struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	PreviewURL   string `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Genres []string `json:"genres"`
}

func flatten(track trackWire) types.SongResult {
	result := types.SongResult{
		ID:         track.ID,
		Name:       track.Name,
		Album:      track.Album.Name,
		PreviewURL: track.PreviewURL,
		SpotifyURL: track.ExternalURLs.Spotify,
		Genres:     track.Genres,
	}
	if len(track.Artists) > 0 {
		result.Artist = track.Artists[0].Name
	}
	if len(track.Album.Images) > 0 {
		result.ImageURL = track.Album.Images[0].URL
	}
	return result
}
