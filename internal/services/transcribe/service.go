package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Word is a transcribed token with timestamps local to the audio file.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Service defines the transcription surface the aligner consumes.
type Service interface {
	// Transcribe returns word-level timings for the audio file. The hint is
	// the original narration text; implementations may use it to bias
	// decoding and may ignore it.
	Transcribe(ctx context.Context, audioPath, hint string) ([]Word, error)
}

// Config captures runtime settings for WhisperX transcription.
type Config struct {
	// UVXBinary launches WhisperX without a local install. Defaults to "uvx".
	UVXBinary string
	// Model is the Whisper model name (e.g. "small", "large-v3").
	Model string
	// CUDAEnabled selects GPU decoding.
	CUDAEnabled bool
	// WorkDir is where WhisperX writes its output files.
	WorkDir string
}

// WhisperX configuration constants.
const (
	DefaultModel   = "small"
	CPUComputeType = "float32"
	OutputFormat   = "json"
)

// WhisperX transcribes audio through the whisperx CLI launched via uvx.
type WhisperX struct {
	cfg Config

	// commandRunner overrides process execution (for testing).
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewWhisperX creates a WhisperX service with the given configuration.
func NewWhisperX(cfg Config) *WhisperX {
	if strings.TrimSpace(cfg.UVXBinary) == "" {
		cfg.UVXBinary = "uvx"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	return &WhisperX{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *WhisperX) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe runs WhisperX against the audio file and flattens the segment
// payload into a single word list ordered by start time.
func (s *WhisperX) Transcribe(ctx context.Context, audioPath, hint string) ([]Word, error) {
	audioPath = strings.TrimSpace(audioPath)
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	outputDir := s.cfg.WorkDir
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(audioPath, outputDir, hint)
	if err := s.run(ctx, s.cfg.UVXBinary, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	return LoadWords(jsonPath)
}

func (s *WhisperX) buildArgs(audioPath, outputDir, hint string) []string {
	args := []string{
		"whisperx",
		audioPath,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		args = append(args, "--initial_prompt", hint)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", "cuda")
	} else {
		args = append(args, "--device", "cpu", "--compute_type", CPUComputeType)
	}
	return args
}

func (s *WhisperX) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// payloadSegment mirrors one entry of the WhisperX JSON output.
type payloadSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type payload struct {
	Segments []payloadSegment `json:"segments"`
}

// LoadWords flattens a WhisperX JSON file into an ordered word list. Tokens
// without usable timestamps (a known WhisperX artifact for numerals) are
// dropped rather than guessed at.
func LoadWords(jsonPath string) ([]Word, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}
	var doc payload
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	var words []Word
	for _, segment := range doc.Segments {
		for _, word := range segment.Words {
			word.Text = strings.TrimSpace(word.Text)
			if word.Text == "" || word.End <= word.Start {
				continue
			}
			words = append(words, word)
		}
	}
	return words, nil
}
