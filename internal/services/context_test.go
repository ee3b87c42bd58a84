package services

import (
	"context"
	"testing"
)

func TestJobIDRoundTrip(t *testing.T) {
	ctx := WithJobID(context.Background(), 42)
	id, ok := JobIDFromContext(ctx)
	if !ok || id != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", id, ok)
	}
}

func TestJobIDMissing(t *testing.T) {
	if _, ok := JobIDFromContext(context.Background()); ok {
		t.Fatal("expected missing job id")
	}
}

func TestStageEmptyIsIgnored(t *testing.T) {
	ctx := WithStage(context.Background(), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("expected no stage for empty value")
	}
	ctx = WithStage(ctx, "render")
	stage, ok := StageFromContext(ctx)
	if !ok || stage != "render" {
		t.Fatalf("expected render stage, got %q (ok=%v)", stage, ok)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc123")
	id, ok := RequestIDFromContext(ctx)
	if !ok || id != "abc123" {
		t.Fatalf("expected abc123, got %q (ok=%v)", id, ok)
	}
}
