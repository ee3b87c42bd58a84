package textutil

import "testing"

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"all lowercase", "ocean facts you missed", "Ocean Facts You Missed"},
		{"all uppercase", "OCEAN FACTS", "Ocean Facts"},
		{"mixed case untouched", "The iPhone of the Sea", "The iPhone of the Sea"},
		{"collapses whitespace", "  deep   sea\tgiants ", "Deep Sea Giants"},
		{"digits stay", "top 5 facts", "Top 5 Facts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayTitle(tt.input); got != tt.want {
				t.Fatalf("DisplayTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ocean Facts", "Ocean Facts"},
		{"a/b\\c", "a-b-c"},
		{"what? why: <this>", "what why- this"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.input); got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pexels", "pexels"},
		{"clip 42/a", "clip_42_a"},
		{"already-safe_token9", "already-safe_token9"},
		{"__wrapped__", "wrapped"},
		{"", "unknown"},
		{"///", "unknown"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.input); got != tt.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
