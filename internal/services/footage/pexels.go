package footage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultPexelsBaseURL is the production Pexels video search endpoint.
const DefaultPexelsBaseURL = "https://api.pexels.com/videos"

// HTTPDoer describes the HTTP client used by the Pexels provider.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pexels queries the Pexels video API for portrait stock footage.
type Pexels struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewPexels constructs a Pexels provider. An empty baseURL selects the
// production API; client defaults to a timeout-bounded http.Client.
func NewPexels(apiKey, baseURL string, timeout time.Duration, client HTTPDoer) *Pexels {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultPexelsBaseURL
	}
	if client == nil {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Pexels{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

func (p *Pexels) Name() string { return "pexels" }

type pexelsVideoFile struct {
	Link    string `json:"link"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality string `json:"quality"`
}

type pexelsVideo struct {
	ID         int64             `json:"id"`
	Duration   float64           `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsSearchResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

// Search returns up to limit portrait clips matching the query. Each video's
// best portrait rendition is chosen; videos with no portrait file are skipped.
func (p *Pexels) Search(ctx context.Context, query string, limit int) ([]Clip, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("pexels: api key not configured")
	}
	if limit <= 0 {
		limit = 1
	}
	searchURL := fmt.Sprintf("%s/search?query=%s&orientation=portrait&per_page=%d",
		p.baseURL, url.QueryEscape(query), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pexels search request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels search returned %d", resp.StatusCode)
	}

	var payload pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}

	clips := make([]Clip, 0, len(payload.Videos))
	for _, video := range payload.Videos {
		file, ok := bestPortraitFile(video.VideoFiles)
		if !ok {
			continue
		}
		clips = append(clips, Clip{
			ID:       strconv.FormatInt(video.ID, 10),
			Query:    query,
			URL:      file.Link,
			Width:    file.Width,
			Height:   file.Height,
			Duration: video.Duration,
		})
		if len(clips) >= limit {
			break
		}
	}
	return clips, nil
}

// bestPortraitFile prefers the highest-resolution portrait rendition that
// stays at or below 1080p width to keep downloads bounded.
func bestPortraitFile(files []pexelsVideoFile) (pexelsVideoFile, bool) {
	var best pexelsVideoFile
	found := false
	for _, file := range files {
		if file.Height <= file.Width || file.Link == "" {
			continue
		}
		if file.Width > 1080 {
			continue
		}
		if !found || file.Width > best.Width {
			best = file
			found = true
		}
	}
	return best, found
}

// Download streams the clip file to destPath through a temp file so partial
// downloads never land at the final path.
func (p *Pexels) Download(ctx context.Context, clip Clip, destPath string) error {
	if clip.URL == "" {
		return fmt.Errorf("pexels: clip has no download url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, clip.URL, nil)
	if err != nil {
		return fmt.Errorf("build pexels download request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("download clip %s: %w", clip.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clip %s download returned %d", clip.ID, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("ensure download dir: %w", err)
	}
	tmpPath := destPath + ".partial"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write clip %s: %w", clip.ID, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close download file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}
