package footage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPexelsSearchSelectsPortraitFiles(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Query().Get("orientation") != "portrait" {
			t.Errorf("expected portrait orientation, got %q", r.URL.Query().Get("orientation"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"videos":[
			{"id":101,"duration":12,"video_files":[
				{"link":"http://cdn/horiz.mp4","width":1920,"height":1080},
				{"link":"http://cdn/vert-small.mp4","width":540,"height":960},
				{"link":"http://cdn/vert.mp4","width":1080,"height":1920}
			]},
			{"id":102,"duration":8,"video_files":[
				{"link":"http://cdn/landscape.mp4","width":1280,"height":720}
			]}
		]}`))
	}))
	defer server.Close()

	provider := NewPexels("test-key", server.URL, time.Second, nil)
	clips, err := provider.Search(context.Background(), "city street night", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gotAuth != "test-key" {
		t.Fatalf("expected api key header, got %q", gotAuth)
	}
	if gotQuery != "city street night" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(clips) != 1 {
		t.Fatalf("expected 1 clip (landscape-only video skipped), got %d", len(clips))
	}
	if clips[0].URL != "http://cdn/vert.mp4" {
		t.Fatalf("expected highest portrait rendition, got %s", clips[0].URL)
	}
	if clips[0].ID != "101" || clips[0].Duration != 12 {
		t.Fatalf("unexpected clip metadata: %+v", clips[0])
	}
}

func TestPexelsSearchRequiresKey(t *testing.T) {
	provider := NewPexels("", "", time.Second, nil)
	if _, err := provider.Search(context.Background(), "ocean", 1); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestPexelsSearchSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewPexels("key", server.URL, time.Second, nil)
	if _, err := provider.Search(context.Background(), "ocean", 1); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestPexelsDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	provider := NewPexels("key", server.URL, time.Second, nil)
	dest := filepath.Join(t.TempDir(), "clips", "clip_000.mp4")
	clip := Clip{ID: "101", URL: server.URL + "/file.mp4"}
	if err := provider.Download(context.Background(), clip, dest); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("unexpected file content: %q", data)
	}
	if _, err := os.Stat(dest + ".partial"); !os.IsNotExist(err) {
		t.Fatal("partial file should be renamed away")
	}
}
