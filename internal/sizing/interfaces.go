package sizing

import (
	"context"

	"github.com/ytget/ytweb/internal/model"
)

// Extractor is the slice of the media-extraction service the aggregator needs
type Extractor interface {
	Metadata(ctx context.Context, url string) (*model.Metadata, error)
	ListEncodings(ctx context.Context, url string) ([]model.Encoding, error)
}

// Analyzer is the presentation-facing entry point
type Analyzer interface {
	AnalyzePlaylist(ctx context.Context, url string) (*model.PlaylistAggregateResult, error)
}
