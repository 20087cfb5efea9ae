package model

import (
	"fmt"
	"strings"
	"time"
)

// DownloadTask represents a single-video fetch requested from the browser
type DownloadTask struct {
	ID         string     `json:"id"`
	URL        string     `json:"url"`
	Selector   string     `json:"selector"` // yt-dlp format selector
	Status     TaskStatus `json:"status"`
	Percent    int        `json:"percent"`
	LastError  string     `json:"last_error,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
	Container  string     `json:"container,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at,omitempty"`
	Title      string     `json:"title,omitempty"`
	Duration   float64    `json:"duration,omitempty"`
	FileSize   int64      `json:"file_size,omitempty"`
}

// GetDurationString returns duration formatted as hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetDurationString() string {
	sec := int(dt.Duration)
	if sec <= 0 {
		return "—"
	}

	hours := sec / 3600
	minutes := (sec % 3600) / 60
	seconds := sec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// Title wins unless the extractor echoed the URL back
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// Elapsed returns how long the task ran, or has been running
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}
