package model

import (
	"fmt"
	"strings"
)

// CodecNone is the codec value yt-dlp reports for a missing media type
const CodecNone = "none"

// Well-known container tags
const (
	ContainerMP4  = "mp4"
	ContainerM4A  = "m4a"
	ContainerWebM = "webm"
)

// Encoding is one row of extractor-reported format data for a single video
type Encoding struct {
	FormatID        string   `json:"format_id"`
	AudioCodec      string   `json:"audio_codec,omitempty"`
	VideoCodec      string   `json:"video_codec,omitempty"`
	Container       string   `json:"container"`
	SizeBytes       *int64   `json:"size_bytes,omitempty"`
	Height          *int     `json:"height,omitempty"`
	FrameRate       *float64 `json:"frame_rate,omitempty"`
	VideoBitrate    *float64 `json:"video_bitrate,omitempty"`
	AudioBitrate    *float64 `json:"audio_bitrate,omitempty"`
	TotalBitrate    *float64 `json:"total_bitrate,omitempty"`
	AudioSampleRate *float64 `json:"audio_sample_rate,omitempty"`
	Resolution      string   `json:"resolution,omitempty"`
}

// Size returns the known byte size, or 0 if unknown
func (e Encoding) Size() int64 {
	if e.SizeBytes == nil {
		return 0
	}
	return *e.SizeBytes
}

// HasSize reports whether the byte size is known
func (e Encoding) HasSize() bool {
	return e.SizeBytes != nil
}

// HeightOrZero returns the height, treating a missing value as 0
func (e Encoding) HeightOrZero() int {
	if e.Height == nil {
		return 0
	}
	return *e.Height
}

// ResolutionLabel returns "<height>p", or "?p" when the height is unknown
func (e Encoding) ResolutionLabel() string {
	if e.Height == nil {
		return "?p"
	}
	return fmt.Sprintf("%dp", *e.Height)
}

// IsRealCodec reports whether a codec identifier names an actual codec.
// Empty and "none" both mean the stream lacks that media type.
func IsRealCodec(codec string) bool {
	c := strings.TrimSpace(codec)
	return c != "" && !strings.EqualFold(c, CodecNone)
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 { return &v }
