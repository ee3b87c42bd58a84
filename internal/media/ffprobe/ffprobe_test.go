package ffprobe

import "testing"

func TestDurationSecondsPrefersContainer(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "5.0"},
		},
		Format: Format{Duration: "12.34"},
	}
	if got := result.DurationSeconds(); got != 12.34 {
		t.Fatalf("unexpected duration: %v", got)
	}
}

func TestDurationSecondsFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "5.0"},
			{CodecType: "video", Duration: "7.25"},
		},
	}
	if got := result.DurationSeconds(); got != 7.25 {
		t.Fatalf("unexpected duration: %v", got)
	}
}

func TestDurationSecondsInvalidValues(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if got := result.DurationSeconds(); got != 0 {
		t.Fatalf("expected 0 for invalid duration, got %v", got)
	}
}

func TestStreamPresence(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
		},
	}
	if !result.HasVideo() || !result.HasAudio() {
		t.Fatal("expected both stream types present")
	}
	empty := Result{}
	if empty.HasVideo() || empty.HasAudio() {
		t.Fatal("expected no streams on empty result")
	}
}
