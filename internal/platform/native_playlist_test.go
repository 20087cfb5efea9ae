package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/ytget/ytweb/internal/model"
)

type stubLister struct {
	items []PlaylistItem
	err   error
	gotID string
}

func (s *stubLister) ListPlaylist(_ context.Context, playlistID string) ([]PlaylistItem, error) {
	s.gotID = playlistID
	return s.items, s.err
}

type stubExtractor struct {
	metaCalls int
	encCalls  int
}

func (s *stubExtractor) Metadata(_ context.Context, url string) (*model.Metadata, error) {
	s.metaCalls++
	return &model.Metadata{ID: "fallback", WebpageURL: url}, nil
}

func (s *stubExtractor) ListEncodings(_ context.Context, _ string) ([]model.Encoding, error) {
	s.encCalls++
	return []model.Encoding{{FormatID: "18"}}, nil
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"playlist page", "https://www.youtube.com/playlist?list=PLrAXtmRdnEQy", "PLrAXtmRdnEQy"},
		{"watch with list", "https://www.youtube.com/watch?v=abc&list=PL123&index=2", "PL123"},
		{"radio", "https://www.youtube.com/watch?v=abc&list=RDabc&start_radio=1", "RDabc"},
		{"no list", "https://www.youtube.com/watch?v=abc", ""},
		{"empty list", "https://www.youtube.com/watch?v=abc&list=", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tt.url); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNativePlaylistExtractor_Metadata(t *testing.T) {
	lister := &stubLister{items: []PlaylistItem{
		{VideoID: "v1", Title: "Lecture series part 1"},
		{VideoID: "v2", Title: "Lecture series part 2"},
		{VideoID: "", Title: "[Deleted video]"},
	}}
	fallback := &stubExtractor{}
	n := NewNativePlaylistExtractor(fallback, lister)

	meta, err := n.Metadata(context.Background(), "https://www.youtube.com/playlist?list=PL9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lister.gotID != "PL9" {
		t.Errorf("expected playlist id PL9, got %q", lister.gotID)
	}
	if fallback.metaCalls != 0 {
		t.Errorf("expected no fallback call, got %d", fallback.metaCalls)
	}
	if len(meta.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(meta.Entries))
	}
	if meta.Entries[0].EntryURL() != "https://www.youtube.com/watch?v=v1" {
		t.Errorf("unexpected entry URL %q", meta.Entries[0].EntryURL())
	}
	if meta.Entries[2].EntryURL() != "" {
		t.Errorf("expected entry without video id to have no URL, got %q", meta.Entries[2].EntryURL())
	}
	if meta.Title != "Lecture series part Playlist" {
		t.Errorf("unexpected title %q", meta.Title)
	}
}

func TestNativePlaylistExtractor_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		lister *stubLister
	}{
		{"plain video", "https://www.youtube.com/watch?v=abc", &stubLister{}},
		{"lister error", "https://www.youtube.com/playlist?list=PL1", &stubLister{err: errors.New("blocked")}},
		{"empty playlist", "https://www.youtube.com/playlist?list=PL1", &stubLister{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &stubExtractor{}
			n := NewNativePlaylistExtractor(fallback, tt.lister)

			meta, err := n.Metadata(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.ID != "fallback" || fallback.metaCalls != 1 {
				t.Errorf("expected fallback metadata, got %+v (calls=%d)", meta, fallback.metaCalls)
			}
		})
	}
}

func TestNativePlaylistExtractor_ListEncodingsDelegates(t *testing.T) {
	fallback := &stubExtractor{}
	n := NewNativePlaylistExtractor(fallback, &stubLister{})

	encs, err := n.ListEncodings(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil || len(encs) != 1 || fallback.encCalls != 1 {
		t.Errorf("expected delegated call, got encs=%v err=%v calls=%d", encs, err, fallback.encCalls)
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name  string
		items []PlaylistItem
		want  string
	}{
		{"empty", nil, DefaultPlaylistName},
		{"single", []PlaylistItem{{Title: "Song"}}, "Song Playlist"},
		{"short common prefix", []PlaylistItem{{Title: "Song A"}, {Title: "Song B"}}, "Song A Playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := playlistTitle(tt.items); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
