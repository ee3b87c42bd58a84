package tts

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"
)

func newTestPiper(t *testing.T, capture func(stdin string, args []string)) *Piper {
	t.Helper()
	p := NewPiper(Config{Model: "en_US-lessac-medium"})
	p.WithCommandRunner(func(_ context.Context, stdin io.Reader, _ string, args ...string) error {
		data, err := io.ReadAll(stdin)
		if err != nil {
			t.Fatalf("read stdin: %v", err)
		}
		capture(string(data), args)
		return nil
	})
	return p
}

func TestAcquireIsIdempotent(t *testing.T) {
	p := newTestPiper(t, func(string, []string) {})
	ctx := context.Background()
	if err := p.Acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := p.Acquire(ctx); err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if err := p.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := p.Acquire(ctx); err != nil {
		t.Fatalf("re-acquire after release: %v", err)
	}
}

func TestAcquireRequiresModel(t *testing.T) {
	p := NewPiper(Config{})
	if err := p.Acquire(context.Background()); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestSynthesizeSendsTextOnStdin(t *testing.T) {
	var gotStdin string
	var gotArgs []string
	p := newTestPiper(t, func(stdin string, args []string) {
		gotStdin = stdin
		gotArgs = args
	})

	err := p.Synthesize(context.Background(), Request{
		Text:       "hello world",
		OutputPath: "/tmp/seg.wav",
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if gotStdin != "hello world" {
		t.Fatalf("unexpected stdin: %q", gotStdin)
	}
	if !slices.Contains(gotArgs, "/tmp/seg.wav") {
		t.Fatalf("expected output path in args: %v", gotArgs)
	}
	if !slices.Contains(gotArgs, "en_US-lessac-medium") {
		t.Fatalf("expected model in args: %v", gotArgs)
	}
}

func TestSynthesizeBatchUsesJSONLines(t *testing.T) {
	var gotStdin string
	var gotArgs []string
	p := newTestPiper(t, func(stdin string, args []string) {
		gotStdin = stdin
		gotArgs = args
	})

	err := p.SynthesizeBatch(context.Background(), []Request{
		{Text: "first", OutputPath: "/tmp/a.wav"},
		{Text: "second", OutputPath: "/tmp/b.wav"},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !slices.Contains(gotArgs, "--json-input") {
		t.Fatalf("expected json-input flag: %v", gotArgs)
	}
	lines := strings.Split(strings.TrimSpace(gotStdin), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 json lines, got %d: %q", len(lines), gotStdin)
	}
	if !strings.Contains(lines[0], `"output_file":"/tmp/a.wav"`) {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestSynthesizeRejectsEmptyRequests(t *testing.T) {
	p := newTestPiper(t, func(string, []string) {})
	if err := p.Synthesize(context.Background(), Request{OutputPath: "/tmp/x.wav"}); err == nil {
		t.Fatal("expected error for empty text")
	}
	if err := p.Synthesize(context.Background(), Request{Text: "hi"}); err == nil {
		t.Fatal("expected error for missing output path")
	}
	if err := p.SynthesizeBatch(context.Background(), []Request{{Text: "hi"}}); err == nil {
		t.Fatal("expected batch error for missing output path")
	}
}

func TestSynthesizeBatchEmptyIsNoop(t *testing.T) {
	called := false
	p := newTestPiper(t, func(string, []string) { called = true })
	if err := p.SynthesizeBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if called {
		t.Fatal("expected no invocation for empty batch")
	}
}
