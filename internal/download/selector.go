package download

import (
	"fmt"
	"strings"

	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/sizing"
)

// Download modes for preset selection
const (
	ModeAudio = "audio"
	ModeVideo = "video"
)

// Format selectors
const (
	// VideoOnlyAudioSuffix pairs a video-only stream with audio that muxes into mp4
	VideoOnlyAudioSuffix = "+bestaudio[ext=m4a]/bestaudio"

	AudioPresetSelector   = "bestaudio/best"
	DefaultVideoSelector  = "bestvideo+bestaudio/best"
	heightCappedSelectorF = "bestvideo[height<=%[1]d]+bestaudio/best[height<=%[1]d]"
)

// presetHeights maps quality IDs to height caps
var presetHeights = map[string]int{
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
}

// SelectorFor returns the selector that fetches enc. Video-only encodings get
// the best audio merged in.
func SelectorFor(enc model.Encoding) string {
	if sizing.HasRealVideo(enc) && !sizing.HasRealAudio(enc) {
		return enc.FormatID + VideoOnlyAudioSuffix
	}
	return enc.FormatID
}

// SelectorForID looks formatID up in encs and returns its selector. An unknown
// id is passed through unchanged.
func SelectorForID(formatID string, encs []model.Encoding) string {
	for _, e := range encs {
		if e.FormatID == formatID {
			return SelectorFor(e)
		}
	}
	return formatID
}

// PresetSelector maps a download mode and quality ID onto a selector.
// Unknown video qualities fall back to best available.
func PresetSelector(mode, quality string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeAudio:
		return AudioPresetSelector, nil
	case ModeVideo:
		if h, ok := presetHeights[strings.ToLower(strings.TrimSpace(quality))]; ok {
			return fmt.Sprintf(heightCappedSelectorF, h), nil
		}
		return DefaultVideoSelector, nil
	default:
		return "", fmt.Errorf("invalid mode: %q", mode)
	}
}
