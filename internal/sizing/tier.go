package sizing

import (
	"slices"

	"github.com/ytget/ytweb/internal/model"
)

// Metric extracts the value a tier ceiling is compared against
type Metric func(model.Encoding) float64

// HeightMetric ranks video encodings by height; missing height counts as 0
func HeightMetric(e model.Encoding) float64 {
	return float64(e.HeightOrZero())
}

// AudioBitrateMetric ranks audio encodings by audio bitrate, falling back to
// total bitrate, then 0
func AudioBitrateMetric(e model.Encoding) float64 {
	if e.AudioBitrate != nil && *e.AudioBitrate > 0 {
		return *e.AudioBitrate
	}
	if e.TotalBitrate != nil && *e.TotalBitrate > 0 {
		return *e.TotalBitrate
	}
	return 0
}

// SortByMetric returns a copy sorted ascending by metric. Equal metrics keep
// their input order.
func SortByMetric(encodings []model.Encoding, metric Metric) []model.Encoding {
	sorted := slices.Clone(encodings)
	slices.SortStableFunc(sorted, func(a, b model.Encoding) int {
		ma, mb := metric(a), metric(b)
		switch {
		case ma < mb:
			return -1
		case ma > mb:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// SelectForTier picks the best encoding whose metric does not exceed tier.
// sorted must be ascending by metric. When every candidate exceeds the tier the
// largest one is returned; ok is false only for an empty list.
func SelectForTier(sorted []model.Encoding, metric Metric, tier int) (model.Encoding, bool) {
	if len(sorted) == 0 {
		return model.Encoding{}, false
	}
	ceiling := float64(tier)
	for i := len(sorted) - 1; i >= 0; i-- {
		if metric(sorted[i]) <= ceiling {
			return sorted[i], true
		}
	}
	return sorted[len(sorted)-1], true
}

// BestAudio returns the highest-metric audio candidate in the preferred
// container, or the highest overall when none uses it. sorted must be ascending.
func BestAudio(sorted []model.Encoding, preferredContainer string) (model.Encoding, bool) {
	if len(sorted) == 0 {
		return model.Encoding{}, false
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if isContainer(sorted[i], preferredContainer) {
			return sorted[i], true
		}
	}
	return sorted[len(sorted)-1], true
}
