package sizing

import (
	"strings"

	"github.com/ytget/ytweb/internal/model"
)

// Container defaults
const (
	// DefaultExcludedContainer keeps merges simple: webm streams do not mux into mp4
	DefaultExcludedContainer = model.ContainerWebM

	// DefaultPreferredAudioContainer is the audio container that pairs with mp4 video
	DefaultPreferredAudioContainer = model.ContainerM4A
)

// Classified holds one video's encodings split by media type
type Classified struct {
	Audio []model.Encoding
	Video []model.Encoding
}

// HasRealAudio reports whether the encoding carries an audio stream
func HasRealAudio(e model.Encoding) bool {
	return model.IsRealCodec(e.AudioCodec)
}

// HasRealVideo reports whether the encoding carries a video stream
func HasRealVideo(e model.Encoding) bool {
	return model.IsRealCodec(e.VideoCodec)
}

// IsAudioOnly reports whether the encoding has audio and no video
func IsAudioOnly(e model.Encoding) bool {
	return HasRealAudio(e) && !HasRealVideo(e)
}

// Classify splits encodings using DefaultExcludedContainer
func Classify(encodings []model.Encoding) Classified {
	return ClassifyExcluding(encodings, DefaultExcludedContainer)
}

// ClassifyExcluding splits encodings into audio-only and video sets. Entries
// with unknown size or the excluded container are dropped; input order is kept.
// An empty excluded container disables the container filter.
func ClassifyExcluding(encodings []model.Encoding, excluded string) Classified {
	var out Classified
	for _, e := range encodings {
		if !e.HasSize() || isContainer(e, excluded) {
			continue
		}
		switch {
		case HasRealVideo(e):
			out.Video = append(out.Video, e)
		case IsAudioOnly(e):
			out.Audio = append(out.Audio, e)
		}
	}
	return out
}

func isContainer(e model.Encoding, container string) bool {
	return container != "" && strings.EqualFold(e.Container, container)
}
