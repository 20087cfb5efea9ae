package model

import (
	"fmt"
	"strings"
)

// PlaylistEntry is one member of a playlist as reported by the extractor
type PlaylistEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	WebpageURL string `json:"webpage_url,omitempty"`
}

// EntryURL returns the canonical page URL, falling back to the raw URL
func (e PlaylistEntry) EntryURL() string {
	if e.WebpageURL != "" {
		return e.WebpageURL
	}
	return e.URL
}

// Metadata is the extractor's description of a URL. Non-empty Entries marks a playlist.
type Metadata struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Duration   float64         `json:"duration,omitempty"`
	WebpageURL string          `json:"webpage_url,omitempty"`
	Entries    []PlaylistEntry `json:"entries,omitempty"`
}

// IsPlaylist reports whether the metadata describes a playlist
func (m *Metadata) IsPlaylist() bool {
	return m != nil && len(m.Entries) > 0
}

// DisplayTitle returns title, URL, or ID in order of preference
func (m *Metadata) DisplayTitle() string {
	if m == nil {
		return ""
	}
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	if m.WebpageURL != "" {
		return m.WebpageURL
	}
	return m.ID
}

// FetchResult describes a file fetched by the extraction service
type FetchResult struct {
	Title        string  `json:"title"`
	Container    string  `json:"container"`
	LocalPath    string  `json:"local_path"`
	Duration     float64 `json:"duration,omitempty"`
	CanonicalURL string  `json:"canonical_url,omitempty"`
}

// FileName returns "<title>.<container>" when the local path is unknown
func (r *FetchResult) FileName() string {
	if r.LocalPath != "" {
		parts := strings.FieldsFunc(r.LocalPath, func(c rune) bool {
			return c == '/' || c == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return fmt.Sprintf("%s.%s", r.Title, r.Container)
}
