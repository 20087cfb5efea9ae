package model

import "math"

// BytesPerMB is the divisor used for megabyte display figures
const BytesPerMB = 1024 * 1024

// Default target tiers
var (
	DefaultVideoTiers = []int{360, 480, 720, 1080}
	DefaultAudioTiers = []int{64, 128, 160, 192, 256, 320}
)

// TierTotal is the summed projected size for one tier across a playlist
type TierTotal struct {
	Tier  int   `json:"tier"`
	Bytes int64 `json:"bytes"`
}

// MB returns the total in megabytes rounded to two decimals
func (t TierTotal) MB() float64 {
	return BytesToMB(t.Bytes)
}

// VideoDiagnostic records how many usable encodings one playlist member had
type VideoDiagnostic struct {
	URL            string `json:"url"`
	VideoEncodings int    `json:"video_encodings"`
	AudioEncodings int    `json:"audio_encodings"`
}

// SkippedVideo is a playlist member whose encodings could not be used
type SkippedVideo struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// PlaylistAggregateResult is the outcome of one playlist size analysis.
// It is built once per run and never mutated afterwards.
type PlaylistAggregateResult struct {
	RunID        string            `json:"run_id,omitempty"`
	URL          string            `json:"url"`
	Title        string            `json:"title,omitempty"`
	VideoTotals  []TierTotal       `json:"video_totals"`
	AudioTotals  []TierTotal       `json:"audio_totals"`
	EntriesCount int               `json:"entries_count"`
	Details      []VideoDiagnostic `json:"details"`
	Skipped      []SkippedVideo    `json:"skipped,omitempty"`
}

// VideoTotal returns the total for a video tier
func (r *PlaylistAggregateResult) VideoTotal(tier int) (TierTotal, bool) {
	return findTier(r.VideoTotals, tier)
}

// AudioTotal returns the total for an audio tier
func (r *PlaylistAggregateResult) AudioTotal(tier int) (TierTotal, bool) {
	return findTier(r.AudioTotals, tier)
}

func findTier(totals []TierTotal, tier int) (TierTotal, bool) {
	for _, t := range totals {
		if t.Tier == tier {
			return t, true
		}
	}
	return TierTotal{}, false
}

// BytesToMB converts bytes to megabytes rounded to two decimals
func BytesToMB(b int64) float64 {
	return math.Round(float64(b)/BytesPerMB*100) / 100
}
