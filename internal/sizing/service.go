package sizing

import (
	"context"
	"time"

	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/metrics"
	"github.com/ytget/ytweb/internal/model"
)

// Service runs playlist analyses with run-scoped logging and metrics
type Service struct {
	aggregator *Aggregator
}

// NewService creates a new analysis service
func NewService(extractor Extractor, opts Options) *Service {
	return &Service{aggregator: NewAggregator(extractor, opts)}
}

// AnalyzePlaylist aggregates per-tier totals for playlistURL. Every call gets a
// fresh run ID; nothing is cached between calls.
func (s *Service) AnalyzePlaylist(ctx context.Context, playlistURL string) (*model.PlaylistAggregateResult, error) {
	runID := logging.GenerateRunID()
	ctx = logging.ContextWithRunID(ctx, runID)
	log := logging.Ctx(ctx)

	started := time.Now()
	log.Info().Str("url", playlistURL).Msg("playlist analysis started")

	result, err := s.aggregator.Aggregate(ctx, playlistURL)
	metrics.RecordAnalysis(started, err)
	if err != nil {
		log.Error().Err(err).Str("url", playlistURL).Msg("playlist analysis failed")
		return nil, err
	}

	result.RunID = runID
	metrics.PlaylistEntriesAnalyzed.Add(float64(len(result.Details)))
	metrics.PlaylistEntriesSkipped.Add(float64(len(result.Skipped)))

	log.Info().
		Str("url", playlistURL).
		Int("entries", result.EntriesCount).
		Int("skipped", len(result.Skipped)).
		Dur("elapsed", time.Since(started)).
		Msg("playlist analysis finished")
	return result, nil
}
