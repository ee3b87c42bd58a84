package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Config captures runtime settings for the Piper engine.
type Config struct {
	// Binary is the piper executable. Defaults to "piper" on PATH.
	Binary string
	// Model is the voice model name or .onnx path.
	Model string
	// Voice selects a speaker id for multi-speaker models.
	Voice string
}

// Piper synthesizes speech through the piper binary. The model is loaded per
// process invocation, which is why batch submission matters: one invocation
// voices every segment.
type Piper struct {
	cfg Config

	mu       sync.Mutex
	acquired bool

	// commandRunner overrides process execution (for testing). stdin carries
	// the utterance text or JSON-lines batch payload.
	commandRunner func(ctx context.Context, stdin io.Reader, name string, args ...string) error
}

// NewPiper creates a Piper engine with the given configuration.
func NewPiper(cfg Config) *Piper {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "piper"
	}
	return &Piper{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *Piper) WithCommandRunner(runner func(ctx context.Context, stdin io.Reader, name string, args ...string) error) {
	p.commandRunner = runner
}

// Acquire verifies the binary and model are available. Idempotent: repeat
// calls after a successful acquire are no-ops.
func (p *Piper) Acquire(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquired {
		return nil
	}
	if strings.TrimSpace(p.cfg.Model) == "" {
		return fmt.Errorf("piper: model not configured")
	}
	if p.commandRunner == nil {
		if _, err := exec.LookPath(p.cfg.Binary); err != nil {
			return fmt.Errorf("piper: binary not found: %w", err)
		}
	}
	p.acquired = true
	return nil
}

// Release marks the engine re-acquirable. Piper holds no cross-call process,
// so there is nothing to tear down beyond the acquired flag.
func (p *Piper) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired = false
	return nil
}

// Synthesize voices a single request, reading text from stdin and writing a
// WAV file to the request's output path.
func (p *Piper) Synthesize(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("piper: empty text")
	}
	if req.OutputPath == "" {
		return fmt.Errorf("piper: output path required")
	}
	args := p.baseArgs(req.Voice)
	args = append(args, "--output_file", req.OutputPath)
	return p.run(ctx, strings.NewReader(req.Text), args...)
}

// SynthesizeBatch voices every request in one process invocation using
// piper's JSON-lines input mode.
func (p *Piper) SynthesizeBatch(ctx context.Context, reqs []Request) error {
	if len(reqs) == 0 {
		return nil
	}
	var payload strings.Builder
	enc := json.NewEncoder(&payload)
	for _, req := range reqs {
		if strings.TrimSpace(req.Text) == "" || req.OutputPath == "" {
			return fmt.Errorf("piper batch: every request needs text and output path")
		}
		line := batchLine{Text: req.Text, OutputFile: req.OutputPath}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("piper batch: encode request: %w", err)
		}
	}
	voice := ""
	if len(reqs) > 0 {
		voice = reqs[0].Voice
	}
	args := p.baseArgs(voice)
	args = append(args, "--json-input")
	return p.run(ctx, strings.NewReader(payload.String()), args...)
}

type batchLine struct {
	Text       string `json:"text"`
	OutputFile string `json:"output_file"`
}

func (p *Piper) baseArgs(voice string) []string {
	args := []string{"--model", p.cfg.Model}
	if voice == "" {
		voice = p.cfg.Voice
	}
	if voice != "" {
		args = append(args, "--speaker", voice)
	}
	return args
}

func (p *Piper) run(ctx context.Context, stdin io.Reader, args ...string) error {
	if p.commandRunner != nil {
		return p.commandRunner(ctx, stdin, p.cfg.Binary, args...)
	}
	cmd := exec.CommandContext(ctx, p.cfg.Binary, args...)
	cmd.Stdin = stdin
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
