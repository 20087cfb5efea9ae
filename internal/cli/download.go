package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/platform"
	"github.com/ytget/ytweb/internal/validation"
)

// downloadArgs is the validated form of the download command
type downloadArgs struct {
	URL      string `validate:"required,mediaurl"`
	Selector string `validate:"required,formatselector"`
}

func (a *app) downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <video-url>",
		Short: "Download one video to the download directory",
		Long: `Download one video. Pick an exact format with --format-id (see "ytweb formats")
or a preset with --mode and --quality. Without either the configured quality
preset is used.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runDownload,
	}
	cmd.Flags().String("format-id", "", "format ID; video-only formats get the best m4a audio merged in")
	cmd.Flags().String("mode", "", "preset mode: audio or video")
	cmd.Flags().String("quality", "", "preset video quality: 1080p, 720p, 480p")
	cmd.Flags().String("output-dir", "", "directory for the downloaded file")
	cmd.MarkFlagsMutuallyExclusive("format-id", "mode")
	return cmd
}

func (a *app) runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := *a.cfg
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Download.Directory = dir
	}
	if err := platform.CreateDirectoryIfNotExists(cfg.Download.Directory); err != nil {
		return fmt.Errorf("failed to ensure downloads dir: %w", err)
	}
	extractor := a.newExtractor(&cfg)

	formatID, _ := cmd.Flags().GetString("format-id")
	mode, _ := cmd.Flags().GetString("mode")
	quality, _ := cmd.Flags().GetString("quality")

	req := downloadArgs{URL: args[0]}
	switch {
	case formatID != "":
		if err := validation.ValidateMediaURL(req.URL); err != nil {
			return err
		}
		encodings, err := extractor.ListEncodings(ctx, req.URL)
		if err != nil {
			return err
		}
		req.Selector = download.SelectorForID(formatID, encodings)
	default:
		if mode == "" {
			mode, quality = cfg.Download.QualityPreset.ModeQuality()
		}
		sel, err := download.PresetSelector(mode, quality)
		if err != nil {
			return err
		}
		req.Selector = sel
	}
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}

	svc := newDownloadService(&cfg, extractor)
	svc.SetUpdateCallback(newProgressPrinter(cmd.ErrOrStderr()).update)

	task, err := svc.Download(ctx, req.URL, req.Selector)
	if err != nil {
		return fmt.Errorf("download %s: %w", req.URL, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [%s] in %s\n",
		task.GetDisplayTitle(), task.GetDurationString(), task.Elapsed().Round(time.Millisecond))
	fmt.Fprintln(cmd.OutOrStdout(), task.OutputPath)
	return nil
}

// progressPrinter writes a line per 10% step. Fetchers may report progress
// from their own goroutine.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	step    int
	printed bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) update(t *model.DownloadTask) {
	if t.Status != model.TaskStatusDownloading {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	step := t.Percent / 10
	if p.printed && step == p.step {
		return
	}
	p.step, p.printed = step, true
	fmt.Fprintf(p.w, "%s %d%%\n", t.Status, t.Percent)
}
