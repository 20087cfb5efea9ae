package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/metrics"
	"github.com/ytget/ytweb/internal/model"
)

// ErrExtractorFailed wraps every failed yt-dlp invocation
var ErrExtractorFailed = errors.New("extractor failed")

// Extractor operation names, used for metrics and logs
const (
	OpMetadata      = "metadata"
	OpListEncodings = "list_encodings"
	OpFetch         = "fetch"
)

// ProgressInterval is how often fetch progress is reported
const ProgressInterval = 500 * time.Millisecond

// ProgressFunc receives byte counts while a fetch runs. total is 0 when unknown.
type ProgressFunc func(downloaded, total int64)

// YTDLPExtractor drives the yt-dlp binary. It implements sizing.Extractor and
// download.Fetcher.
type YTDLPExtractor struct {
	opts Options
}

// NewYTDLPExtractor creates an extractor with opts as the base options
func NewYTDLPExtractor(opts Options) *YTDLPExtractor {
	return &YTDLPExtractor{opts: opts}
}

// Options returns the base options
func (y *YTDLPExtractor) Options() Options {
	return y.opts
}

// Metadata resolves a URL without downloading. Playlists are enumerated flat,
// so entries carry IDs and URLs but no formats.
func (y *YTDLPExtractor) Metadata(ctx context.Context, url string) (*model.Metadata, error) {
	opts := y.opts.Merge(Options{SkipDownload: true, FlatPlaylist: true})
	info, err := y.run(ctx, OpMetadata, opts, url, nil)
	if err != nil {
		return nil, err
	}
	return info.toMetadata(), nil
}

// ListEncodings returns every format yt-dlp reports for one video
func (y *YTDLPExtractor) ListEncodings(ctx context.Context, url string) ([]model.Encoding, error) {
	opts := y.opts.Merge(Options{SkipDownload: true, NoPlaylist: true})
	info, err := y.run(ctx, OpListEncodings, opts, url, nil)
	if err != nil {
		return nil, err
	}
	return info.toEncodings(), nil
}

// Fetch downloads url with the given format selector into the output directory
func (y *YTDLPExtractor) Fetch(ctx context.Context, url, formatSelector string) (*model.FetchResult, error) {
	return y.FetchWithProgress(ctx, url, formatSelector, nil)
}

// FetchWithProgress is Fetch with progress reporting
func (y *YTDLPExtractor) FetchWithProgress(ctx context.Context, url, formatSelector string, progress ProgressFunc) (*model.FetchResult, error) {
	if formatSelector == "" {
		return nil, fmt.Errorf("%w: empty format selector", ErrExtractorFailed)
	}
	if err := CreateDirectoryIfNotExists(y.opts.OutputDir); err != nil && y.opts.OutputDir != "" {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	opts := y.opts.Merge(Options{Format: formatSelector, NoPlaylist: true})
	info, err := y.run(ctx, OpFetch, opts, url, progress)
	if err != nil {
		return nil, err
	}

	res := info.toFetchResult()
	if res.LocalPath != "" {
		if found, ferr := FindFileWithFallback(res.LocalPath); ferr == nil {
			res.LocalPath = found
		} else {
			logging.Ctx(ctx).Warn().Err(ferr).Str("path", res.LocalPath).Msg("fetched file not found at reported path")
		}
	}
	return res, nil
}

// run executes one yt-dlp invocation and decodes its single JSON document
func (y *YTDLPExtractor) run(ctx context.Context, op string, opts Options, url string, progress ProgressFunc) (*ytdlpInfo, error) {
	if opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.CallTimeout)
		defer cancel()
	}

	cmd := buildCommand(opts)
	if progress != nil {
		cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			progress(int64(update.DownloadedBytes), int64(update.TotalBytes))
		})
	}

	log := logging.Ctx(ctx)
	started := time.Now()
	res, err := cmd.Run(ctx, url)
	metrics.RecordExtractorCall(op, started, err)
	if err != nil {
		log.Debug().Err(err).Str("op", op).Str("url", url).Msg("yt-dlp invocation failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrExtractorFailed, op, url, err)
	}
	log.Debug().Str("op", op).Str("url", url).Dur("elapsed", time.Since(started)).Msg("yt-dlp invocation finished")

	info, err := decodeInfo(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrExtractorFailed, op, url, err)
	}
	return info, nil
}

// buildCommand maps options onto the go-ytdlp builder. Every call prints a
// single JSON document on stdout.
func buildCommand(opts Options) *ytdlp.Command {
	cmd := ytdlp.New().DumpSingleJSON().NoWarnings()

	if opts.Executable != "" && opts.Executable != DefaultExecutable {
		cmd.SetExecutable(opts.Executable)
	}
	if opts.Quiet {
		cmd.Quiet()
	}
	if opts.SkipDownload {
		cmd.SkipDownload()
	} else {
		// -J implies simulate; the fetch must actually write the file
		cmd.NoSimulate().ForceOverwrites().Output(opts.OutputPath())
		if opts.MergeOutputFormat != "" {
			cmd.MergeOutputFormat(opts.MergeOutputFormat)
		}
	}
	if opts.RestrictFilenames {
		cmd.RestrictFilenames()
	}
	if opts.FlatPlaylist {
		cmd.FlatPlaylist()
	}
	if opts.NoPlaylist {
		cmd.NoPlaylist()
	}
	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.FFmpegLocation != "" {
		cmd.FFmpegLocation(opts.FFmpegLocation)
	}
	return cmd
}

// InstallYTDLP downloads a managed yt-dlp binary when none is usable and
// returns its path
func InstallYTDLP(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("install yt-dlp: %w", err)
	}
	return resolved.Executable, nil
}
