package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/metrics"
	"github.com/ytget/ytweb/internal/model"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	YouTubeVideoURLTemplate    = "https://www.youtube.com/watch?v=%s"
	YouTubePlaylistURLTemplate = "https://www.youtube.com/playlist?list=%s"
)

// Timeout constants
const (
	DefaultPlaylistTimeout = 60 * time.Second
)

// Extractor resolves metadata and encoding lists for a URL
type Extractor interface {
	Metadata(ctx context.Context, url string) (*model.Metadata, error)
	ListEncodings(ctx context.Context, url string) ([]model.Encoding, error)
}

// PlaylistItem is one member returned by a PlaylistLister
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistLister enumerates a YouTube playlist by ID
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error)
}

// NativeLister lists playlists through the pure-Go ytdlp client, without
// spawning the yt-dlp binary
type NativeLister struct{}

// ListPlaylist fetches every item of the playlist
func (NativeLister) ListPlaylist(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}
	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// NativePlaylistExtractor resolves YouTube list= URLs natively and delegates
// every other call to the wrapped extractor. Metadata for plain video URLs
// and playlists the native client cannot read also go to the fallback.
type NativePlaylistExtractor struct {
	fallback Extractor
	lister   PlaylistLister
	timeout  time.Duration
}

// NewNativePlaylistExtractor wraps fallback. A nil lister uses NativeLister.
func NewNativePlaylistExtractor(fallback Extractor, lister PlaylistLister) *NativePlaylistExtractor {
	if lister == nil {
		lister = NativeLister{}
	}
	return &NativePlaylistExtractor{
		fallback: fallback,
		lister:   lister,
		timeout:  DefaultPlaylistTimeout,
	}
}

// SetTimeout sets the timeout for native playlist listing
func (n *NativePlaylistExtractor) SetTimeout(timeout time.Duration) {
	n.timeout = timeout
}

// Metadata lists the playlist natively when the URL carries a list= ID
func (n *NativePlaylistExtractor) Metadata(ctx context.Context, url string) (*model.Metadata, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return n.fallback.Metadata(ctx, url)
	}

	listCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		listCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	started := time.Now()
	items, err := n.lister.ListPlaylist(listCtx, playlistID)
	metrics.RecordExtractorCall(OpMetadata+"_native", started, err)
	if err != nil || len(items) == 0 {
		logging.Ctx(ctx).Warn().Err(err).Str("playlist_id", playlistID).
			Msg("native playlist listing failed, falling back to yt-dlp")
		return n.fallback.Metadata(ctx, url)
	}

	meta := &model.Metadata{
		ID:         playlistID,
		Title:      playlistTitle(items),
		WebpageURL: fmt.Sprintf(YouTubePlaylistURLTemplate, playlistID),
		Entries:    make([]model.PlaylistEntry, 0, len(items)),
	}
	for _, it := range items {
		entry := model.PlaylistEntry{ID: it.VideoID, Title: it.Title}
		if it.VideoID != "" {
			entry.WebpageURL = fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID)
		}
		meta.Entries = append(meta.Entries, entry)
	}
	return meta, nil
}

// ListEncodings always goes through yt-dlp
func (n *NativePlaylistExtractor) ListEncodings(ctx context.Context, url string) ([]model.Encoding, error) {
	return n.fallback.ListEncodings(ctx, url)
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL, or ""
//
//	https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//	https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(url string) string {
	_, after, found := strings.Cut(url, PlaylistParam)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, ParamSeparator)
	return id
}

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	MinPrefixLength     = 10
	PlaylistSuffix      = " Playlist"
)

// playlistTitle derives a title from member titles; the native client does
// not return the playlist's own name
func playlistTitle(items []PlaylistItem) string {
	if len(items) == 0 {
		return DefaultPlaylistName
	}
	if len(items) > 1 {
		commonPrefix := findCommonPrefix(items[0].Title, items[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return items[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
