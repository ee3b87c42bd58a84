package footage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"shortform/internal/concepts"
	"shortform/internal/media/ffmpeg"
	providers "shortform/internal/services/footage"
)

type fakeProvider struct {
	name      string
	mu        sync.Mutex
	searches  []string
	clips     map[string][]providers.Clip
	searchErr error
	dlErr     error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Search(ctx context.Context, query string, limit int) ([]providers.Clip, error) {
	p.mu.Lock()
	p.searches = append(p.searches, query)
	p.mu.Unlock()
	if p.searchErr != nil {
		return nil, p.searchErr
	}
	return p.clips[query], nil
}

func (p *fakeProvider) Download(ctx context.Context, clip providers.Clip, destPath string) error {
	return p.dlErr
}

type fakeNormalizer struct {
	mu         sync.Mutex
	normalized []ffmpeg.NormalizeSpec
	generated  []ffmpeg.GenerateSpec
	normErr    error
	genErr     error
}

func (n *fakeNormalizer) Normalize(ctx context.Context, spec ffmpeg.NormalizeSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.normErr != nil {
		return n.normErr
	}
	n.normalized = append(n.normalized, spec)
	return nil
}

func (n *fakeNormalizer) Generate(ctx context.Context, spec ffmpeg.GenerateSpec) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.genErr != nil {
		return n.genErr
	}
	n.generated = append(n.generated, spec)
	return nil
}

func clipsFor(query string, n int) []providers.Clip {
	clips := make([]providers.Clip, n)
	for i := range clips {
		clips[i] = providers.Clip{
			ID:    fmt.Sprintf("%s-%d", query, i),
			Query: query,
			URL:   "http://cdn/" + query,
		}
	}
	return clips
}

func TestNeedForDuration(t *testing.T) {
	m := NewMatcher(nil, &fakeNormalizer{}, Options{MaxCutSeconds: 5}, nil)
	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{4.9, 1},
		{5.0, 1},
		{5.1, 2},
		{28, 6},
	}
	for _, tt := range tests {
		if got := m.NeedForDuration(tt.seconds); got != tt.want {
			t.Errorf("NeedForDuration(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestMatchCoversWithRealFootage(t *testing.T) {
	provider := &fakeProvider{name: "stock", clips: map[string][]providers.Clip{
		"dark scene":     clipsFor("dark scene", 2),
		"neural network": clipsFor("neural network", 2),
	}}
	normalizer := &fakeNormalizer{}
	m := NewMatcher([]providers.Provider{provider}, normalizer, Options{MaxCutSeconds: 5}, nil)

	analysis := &concepts.Analysis{SearchQueries: []string{"dark scene", "neural network"}}
	assets, err := m.Match(context.Background(), analysis, 18.0, t.TempDir())
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(assets) != 4 {
		t.Fatalf("expected 4 assets for 18s at 5s cuts, got %d", len(assets))
	}
	for i, asset := range assets {
		if asset.Generated {
			t.Fatalf("asset %d should be real footage", i)
		}
		wantStart := float64(i) * 5.0
		if math.Abs(asset.Start-wantStart) > 1e-9 {
			t.Fatalf("asset %d start %f, want %f", i, asset.Start, wantStart)
		}
	}
	// Final slot is trimmed to the remaining window.
	if math.Abs(assets[3].Duration-3.0) > 1e-9 {
		t.Fatalf("last asset duration %f, want 3.0", assets[3].Duration)
	}
	if len(normalizer.normalized) != 4 {
		t.Fatalf("expected 4 normalizations, got %d", len(normalizer.normalized))
	}
}

func TestMatchFillsShortfallWithGeneratedClips(t *testing.T) {
	provider := &fakeProvider{name: "stock", clips: map[string][]providers.Clip{
		"dark scene": clipsFor("dark scene", 1),
	}}
	normalizer := &fakeNormalizer{}
	m := NewMatcher([]providers.Provider{provider}, normalizer, Options{MaxCutSeconds: 5}, nil)

	analysis := &concepts.Analysis{
		Emotions:      []string{"fear"},
		SearchQueries: []string{"dark scene"},
	}
	assets, err := m.Match(context.Background(), analysis, 14.0, t.TempDir())
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	generated := 0
	for _, asset := range assets {
		if asset.Generated {
			generated++
		}
	}
	if generated != 2 {
		t.Fatalf("expected 2 generated fillers, got %d", generated)
	}
	for _, spec := range normalizer.generated {
		if spec.Style != ffmpeg.StyleDark {
			t.Fatalf("fear-dominant script should use dark style, got %s", spec.Style)
		}
	}
}

func TestMatchSurvivesProviderFailure(t *testing.T) {
	provider := &fakeProvider{name: "stock", searchErr: errors.New("rate limited")}
	normalizer := &fakeNormalizer{}
	m := NewMatcher([]providers.Provider{provider}, normalizer, Options{MaxCutSeconds: 5}, nil)

	analysis := &concepts.Analysis{SearchQueries: []string{"anything"}}
	assets, err := m.Match(context.Background(), analysis, 10.0, t.TempDir())
	if err != nil {
		t.Fatalf("provider failure must not be fatal: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected full cover from generated clips, got %d", len(assets))
	}
	for _, asset := range assets {
		if !asset.Generated {
			t.Fatal("all assets should be generated")
		}
	}
}

func TestMatchSkipsFailedNormalization(t *testing.T) {
	provider := &fakeProvider{name: "stock", clips: map[string][]providers.Clip{
		"ocean": clipsFor("ocean", 2),
	}}
	normalizer := &fakeNormalizer{normErr: errors.New("corrupt file")}
	m := NewMatcher([]providers.Provider{provider}, normalizer, Options{MaxCutSeconds: 5}, nil)

	analysis := &concepts.Analysis{SearchQueries: []string{"ocean"}}
	assets, err := m.Match(context.Background(), analysis, 5.0, t.TempDir())
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(assets) != 1 || !assets[0].Generated {
		t.Fatalf("normalization failures should fall through to generation: %+v", assets)
	}
}

func TestMatchRejectsZeroDuration(t *testing.T) {
	m := NewMatcher(nil, &fakeNormalizer{}, Options{}, nil)
	if _, err := m.Match(context.Background(), &concepts.Analysis{}, 0, t.TempDir()); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestStyleForDefaultsToGradient(t *testing.T) {
	if got := styleFor(&concepts.Analysis{}); got != ffmpeg.StyleGradient {
		t.Fatalf("neutral analysis should use gradient, got %s", got)
	}
	if got := styleFor(&concepts.Analysis{Emotions: []string{"anxious"}}); got != ffmpeg.StyleNoise {
		t.Fatalf("anxious analysis should use noise, got %s", got)
	}
}
