package footage

import "context"

// Clip describes one downloadable stock video candidate.
type Clip struct {
	ID       string
	Query    string
	URL      string
	Width    int
	Height   int
	Duration float64
}

// Provider searches a stock footage catalog and fetches clip files.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]Clip, error)
	Download(ctx context.Context, clip Clip, destPath string) error
}
