package footage

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"sync"

	"shortform/internal/concepts"
	"shortform/internal/logging"
	"shortform/internal/media/ffmpeg"
	"shortform/internal/services"
	providers "shortform/internal/services/footage"
	"shortform/internal/textutil"
)

// Asset is one visual clip scheduled onto the timeline, either fetched from a
// provider or procedurally generated.
type Asset struct {
	Path      string  `json:"path"`
	Query     string  `json:"query,omitempty"`
	Start     float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	Generated bool    `json:"generated,omitempty"`
}

// Normalizer conforms a downloaded clip to the target frame.
type Normalizer interface {
	Normalize(ctx context.Context, spec ffmpeg.NormalizeSpec) error
	Generate(ctx context.Context, spec ffmpeg.GenerateSpec) error
}

// Options configure the matcher.
type Options struct {
	MaxCutSeconds float64
	Width         int
	Height        int
	FrameRate     int
	// QueryConcurrency caps simultaneous provider requests.
	QueryConcurrency int
	// PerQueryLimit caps candidates requested per query.
	PerQueryLimit int
}

func (o *Options) normalize() {
	if o.MaxCutSeconds <= 0 {
		o.MaxCutSeconds = 5.0
	}
	if o.Width <= 0 {
		o.Width = 1080
	}
	if o.Height <= 0 {
		o.Height = 1920
	}
	if o.FrameRate <= 0 {
		o.FrameRate = 30
	}
	if o.QueryConcurrency <= 0 {
		o.QueryConcurrency = 3
	}
	if o.PerQueryLimit <= 0 {
		o.PerQueryLimit = 2
	}
}

// Matcher turns a concept analysis and a target duration into a full cover of
// normalized clips. Provider failures degrade to generated filler, never to
// an error.
type Matcher struct {
	providers  []providers.Provider
	normalizer Normalizer
	logger     *slog.Logger
	opts       Options
}

// NewMatcher builds a Matcher. The provider list may be empty, in which case
// every clip is generated. Logger may be nil.
func NewMatcher(list []providers.Provider, normalizer Normalizer, opts Options, logger *slog.Logger) *Matcher {
	opts.normalize()
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Matcher{
		providers:  list,
		normalizer: normalizer,
		logger:     logger,
		opts:       opts,
	}
}

// NeedForDuration returns the number of clips required to visually cover the
// given total duration.
func (m *Matcher) NeedForDuration(totalSeconds float64) int {
	if totalSeconds <= 0 {
		return 0
	}
	return int(math.Ceil(totalSeconds / m.opts.MaxCutSeconds))
}

// Match produces exactly NeedForDuration(totalSeconds) normalized clips in
// workDir, scheduled back to back across the timeline. Real footage fills as
// many slots as the providers can supply; the shortfall is generated.
func (m *Matcher) Match(ctx context.Context, analysis *concepts.Analysis, totalSeconds float64, workDir string) ([]Asset, error) {
	need := m.NeedForDuration(totalSeconds)
	if need == 0 {
		return nil, services.Wrap(services.ErrValidation, "footage", "match", "non-positive target duration", nil)
	}

	candidates := m.fetchCandidates(ctx, analysis.SearchQueries, need, filepath.Join(workDir, "raw"))

	assets := make([]Asset, 0, need)
	slot := func(index int) (start, span float64) {
		span = m.opts.MaxCutSeconds
		start = float64(index) * span
		if remaining := totalSeconds - start; remaining < span {
			span = remaining
		}
		return start, span
	}

	for _, candidate := range candidates {
		if len(assets) == need {
			break
		}
		index := len(assets)
		start, span := slot(index)
		dest := filepath.Join(workDir, fmt.Sprintf("clip_%03d.mp4", index))
		err := m.normalizer.Normalize(ctx, ffmpeg.NormalizeSpec{
			Source:    candidate.path,
			Dest:      dest,
			Width:     m.opts.Width,
			Height:    m.opts.Height,
			Seconds:   span,
			FrameRate: m.opts.FrameRate,
		})
		if err != nil {
			m.logger.Warn("clip normalization failed, skipping candidate",
				logging.String("query", candidate.clip.Query),
				logging.Error(err))
			continue
		}
		assets = append(assets, Asset{
			Path:     dest,
			Query:    candidate.clip.Query,
			Start:    start,
			Duration: span,
		})
	}

	// Deficiency fallback: fill remaining slots with generated clips.
	style := styleFor(analysis)
	for len(assets) < need {
		index := len(assets)
		start, span := slot(index)
		dest := filepath.Join(workDir, fmt.Sprintf("clip_%03d.mp4", index))
		err := m.normalizer.Generate(ctx, ffmpeg.GenerateSpec{
			Dest:      dest,
			Style:     style,
			Width:     m.opts.Width,
			Height:    m.opts.Height,
			Seconds:   span,
			FrameRate: m.opts.FrameRate,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "footage", "generate",
				fmt.Sprintf("filler clip %d", index), err)
		}
		assets = append(assets, Asset{
			Path:      dest,
			Start:     start,
			Duration:  span,
			Generated: true,
		})
	}

	return assets, nil
}

type candidate struct {
	clip providers.Clip
	path string
	// order preserves query order so coverage follows concept relevance, not
	// fetch-completion order.
	order int
}

// fetchCandidates runs every query against every provider with bounded
// concurrency. Each query is independently fault tolerant; failures log and
// skip. Downloads happen inline so a candidate is only counted once its bytes
// are local.
func (m *Matcher) fetchCandidates(ctx context.Context, queries []string, need int, rawDir string) []candidate {
	if len(m.providers) == 0 || len(queries) == 0 {
		return nil
	}

	type task struct {
		provider providers.Provider
		query    string
		order    int
	}
	var tasks []task
	for i, query := range queries {
		for _, provider := range m.providers {
			tasks = append(tasks, task{provider: provider, query: query, order: i})
		}
	}

	var (
		mu      sync.Mutex
		results []candidate
		seen    = map[string]struct{}{}
		wg      sync.WaitGroup
		sem     = make(chan struct{}, m.opts.QueryConcurrency)
	)
	for _, tk := range tasks {
		wg.Add(1)
		go func(tk task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			clips, err := tk.provider.Search(ctx, tk.query, m.opts.PerQueryLimit)
			if err != nil {
				m.logger.Warn("footage query failed",
					logging.String("provider", tk.provider.Name()),
					logging.String("query", tk.query),
					logging.Error(err))
				return
			}
			for _, clip := range clips {
				path := filepath.Join(rawDir, downloadName(tk.provider.Name(), clip.ID))
				mu.Lock()
				_, dup := seen[path]
				if !dup {
					seen[path] = struct{}{}
				}
				mu.Unlock()
				if dup {
					continue
				}
				if err := tk.provider.Download(ctx, clip, path); err != nil {
					m.logger.Warn("clip download failed",
						logging.String("provider", tk.provider.Name()),
						logging.String("query", tk.query),
						logging.Error(err))
					continue
				}
				mu.Lock()
				results = append(results, candidate{clip: clip, path: path, order: tk.order})
				mu.Unlock()
			}
		}(tk)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].order < results[j].order })
	if len(results) > need {
		results = results[:need]
	}
	return results
}

// downloadName keys a fetched clip by provider and remote ID. Both come
// from external APIs, so they are reduced to safe tokens first.
func downloadName(provider, id string) string {
	return fmt.Sprintf("%s_%s.mp4", textutil.SanitizeToken(provider), textutil.SanitizeToken(id))
}

// styleFor keys the generated-clip style off the dominant emotion.
func styleFor(analysis *concepts.Analysis) ffmpeg.GeneratedStyle {
	switch analysis.DominantEmotion() {
	case "fear", "afraid", "scared", "terrified", "dread":
		return ffmpeg.StyleDark
	case "anxiety", "anxious", "nervous", "panic", "mystery", "mysterious":
		return ffmpeg.StyleNoise
	case "wonder", "awe", "curious":
		return ffmpeg.StyleGrid
	default:
		return ffmpeg.StyleGradient
	}
}
