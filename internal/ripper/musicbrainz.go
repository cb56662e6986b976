package ripper

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultMusicBrainzURL = "https://musicbrainz.org/ws/2"
	defaultCoverArtURL    = "https://coverartarchive.org"
	userAgent             = "pistream/0.1 (https://github.com/pistream/pistream)"
	rateLimitDur          = time.Second // MusicBrainz requires 1 request per second

	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second
)

// Release is a MusicBrainz release search hit.
type Release struct {
	ID    string
	Title string
	Score int
}

// MetadataClient looks up releases and cover art for ripped discs.
type MetadataClient struct {
	httpClient *http.Client

	// Overridable for tests.
	musicbrainzURL string
	coverArtURL    string

	mu          sync.Mutex
	lastRequest time.Time
}

func NewMetadataClient() *MetadataClient {
	return &MetadataClient{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		musicbrainzURL: defaultMusicBrainzURL,
		coverArtURL:    defaultCoverArtURL,
	}
}

type releaseSearchResponse struct {
	Releases []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Score int    `json:"score"`
	} `json:"releases"`
}

// SearchRelease finds the best-scoring release for an artist/album pair.
// Returns nil when nothing matches.
func (c *MetadataClient) SearchRelease(artist, album string) (*Release, error) {
	c.waitForRateLimit()

	query := fmt.Sprintf("release:%q AND artist:%q", album, artist)
	if artist == "" {
		query = fmt.Sprintf("release:%q", album)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", "5")

	reqURL := fmt.Sprintf("%s/release?%s", c.musicbrainzURL, params.Encode())

	req, err := http.NewRequest(http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	var result releaseSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var best *Release
	for _, r := range result.Releases {
		if best == nil || r.Score > best.Score {
			best = &Release{ID: r.ID, Title: r.Title, Score: r.Score}
		}
	}
	return best, nil
}

// GetCoverArt fetches the front cover for a release from Cover Art Archive
// at 500px. Returns nil bytes when the release has no cover art.
func (c *MetadataClient) GetCoverArt(releaseMBID string) ([]byte, error) {
	c.waitForRateLimit()

	reqURL := fmt.Sprintf("%s/release/%s/front-500", c.coverArtURL, releaseMBID)

	req, err := http.NewRequest(http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

func (c *MetadataClient) waitForRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < rateLimitDur {
		time.Sleep(rateLimitDur - elapsed)
	}
	c.lastRequest = time.Now()
}

// doRequestWithRetry retries on network errors and 5xx with exponential
// backoff.
func (c *MetadataClient) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay = min(delay*2, maxDelay)
			c.waitForRateLimit()
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}
