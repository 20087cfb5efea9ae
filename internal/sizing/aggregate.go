package sizing

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/model"
)

// Options selects the tiers and container rules of an aggregation
type Options struct {
	VideoTiers              []int
	AudioTiers              []int
	ExcludedContainer       string
	PreferredAudioContainer string
}

// DefaultOptions returns the stock tier sets and container rules
func DefaultOptions() Options {
	return Options{
		VideoTiers:              slices.Clone(model.DefaultVideoTiers),
		AudioTiers:              slices.Clone(model.DefaultAudioTiers),
		ExcludedContainer:       DefaultExcludedContainer,
		PreferredAudioContainer: DefaultPreferredAudioContainer,
	}
}

// errMissingURL marks a playlist entry that carries no usable URL
var errMissingURL = errors.New("playlist entry has no url")

// Aggregator sums per-tier sizes across a playlist, one member at a time
type Aggregator struct {
	extractor Extractor
	opts      Options
}

// NewAggregator creates an aggregator over the given extractor
func NewAggregator(extractor Extractor, opts Options) *Aggregator {
	return &Aggregator{extractor: extractor, opts: opts}
}

// videoFetch is the explicit per-member outcome consumed by the aggregation loop
type videoFetch struct {
	url       string
	encodings []model.Encoding
	skipped   error // *VideoFetchError when the member is skipped
}

// fetchVideo lists one member's encodings, turning any failure into a skip
func (a *Aggregator) fetchVideo(ctx context.Context, entry model.PlaylistEntry) videoFetch {
	url := entry.EntryURL()
	if url == "" {
		return videoFetch{url: entry.ID, skipped: &VideoFetchError{URL: entry.ID, Err: errMissingURL}}
	}
	encs, err := a.extractor.ListEncodings(ctx, url)
	if err != nil {
		return videoFetch{url: url, skipped: &VideoFetchError{URL: url, Err: err}}
	}
	return videoFetch{url: url, encodings: encs}
}

// tierTotals accumulates bytes per tier for a single run
type tierTotals struct {
	tiers  []int
	totals []int64
}

func newTierTotals(tiers []int) *tierTotals {
	return &tierTotals{tiers: tiers, totals: make([]int64, len(tiers))}
}

func (t *tierTotals) result() []model.TierTotal {
	out := make([]model.TierTotal, len(t.tiers))
	for i, tier := range t.tiers {
		out[i] = model.TierTotal{Tier: tier, Bytes: t.totals[i]}
	}
	return out
}

// Aggregate resolves the playlist once, then walks every member in order and
// adds its best-fit size to each tier. Only the metadata lookup is fatal; a
// cancelled context also aborts so callers never see a partial result.
func (a *Aggregator) Aggregate(ctx context.Context, playlistURL string) (*model.PlaylistAggregateResult, error) {
	meta, err := a.extractor.Metadata(ctx, playlistURL)
	if err != nil {
		return nil, &MetadataFetchError{URL: playlistURL, Err: err}
	}
	if meta == nil {
		meta = &model.Metadata{}
	}

	videoTotals := newTierTotals(a.opts.VideoTiers)
	audioTotals := newTierTotals(a.opts.AudioTiers)
	result := &model.PlaylistAggregateResult{
		URL:          playlistURL,
		Title:        meta.Title,
		EntriesCount: len(meta.Entries),
		Details:      make([]model.VideoDiagnostic, 0, len(meta.Entries)),
	}

	log := logging.Ctx(ctx)
	for idx, entry := range meta.Entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregation cancelled after %d of %d entries: %w", idx, len(meta.Entries), err)
		}

		fetched := a.fetchVideo(ctx, entry)
		if fetched.skipped != nil {
			log.Warn().Err(fetched.skipped).Int("index", idx+1).Str("url", fetched.url).Msg("skipping playlist entry")
			result.Skipped = append(result.Skipped, model.SkippedVideo{URL: fetched.url, Reason: fetched.skipped.Error()})
			continue
		}

		classified := ClassifyExcluding(fetched.encodings, a.opts.ExcludedContainer)
		video := SortByMetric(classified.Video, HeightMetric)
		audio := SortByMetric(classified.Audio, AudioBitrateMetric)

		result.Details = append(result.Details, model.VideoDiagnostic{
			URL:            fetched.url,
			VideoEncodings: len(video),
			AudioEncodings: len(audio),
		})

		a.addVideoTiers(videoTotals, video, audio)
		a.addAudioTiers(audioTotals, audio)

		log.Debug().Int("index", idx+1).Str("url", fetched.url).
			Int("video_encodings", len(video)).Int("audio_encodings", len(audio)).
			Msg("playlist entry classified")
	}

	result.VideoTotals = videoTotals.result()
	result.AudioTotals = audioTotals.result()
	return result, nil
}

// addVideoTiers adds one member's contribution to every video tier
func (a *Aggregator) addVideoTiers(totals *tierTotals, video, audio []model.Encoding) {
	for i, tier := range totals.tiers {
		chosen, ok := SelectForTier(video, HeightMetric, tier)
		if !ok {
			continue
		}
		totals.totals[i] += chosen.Size() + a.audioCost(chosen, audio)
	}
}

// addAudioTiers adds one member's contribution to every audio tier
func (a *Aggregator) addAudioTiers(totals *tierTotals, audio []model.Encoding) {
	for i, tier := range totals.tiers {
		chosen, ok := SelectForTier(audio, AudioBitrateMetric, tier)
		if !ok {
			continue
		}
		totals.totals[i] += chosen.Size()
	}
}

// audioCost is the size of the track that must be muxed in when the chosen
// video stream carries no audio
func (a *Aggregator) audioCost(chosen model.Encoding, audio []model.Encoding) int64 {
	if HasRealAudio(chosen) {
		return 0
	}
	best, ok := BestAudio(audio, a.opts.PreferredAudioContainer)
	if !ok {
		return 0
	}
	return best.Size()
}
