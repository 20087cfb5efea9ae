package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/ytweb/internal/config"
	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/httpapi"
	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/platform"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the browser UI and JSON API.

The server provides:
- the format picker and downloader at /
- the JSON API under /api/v1 with OpenAPI docs at /api/docs
- Prometheus metrics at /metrics`,
		Args: cobra.NoArgs,
		RunE: a.runServe,
	}

	cmd.Flags().String("host", "", "host to bind to")
	cmd.Flags().Int("port", 0, "port to listen on")
	cmd.Flags().String("download-dir", "", "directory for fetched files")
	cmd.Flags().Int("max-parallel", 0, "concurrent downloads (1-10)")
	cmd.Flags().Bool("native-playlists", false, "resolve YouTube playlists without yt-dlp")
	cmd.Flags().Bool("install-ytdlp", false, "download a yt-dlp binary if none is configured")
	return cmd
}

// serveOverrides collects explicitly set serve flags
func serveOverrides(cmd *cobra.Command) config.Config {
	var o config.Config
	flags := cmd.Flags()
	o.Server.Host, _ = flags.GetString("host")
	o.Server.Port, _ = flags.GetInt("port")
	o.Download.Directory, _ = flags.GetString("download-dir")
	o.Download.MaxParallel, _ = flags.GetInt("max-parallel")
	o.Extractor.NativePlaylists, _ = flags.GetBool("native-playlists")
	return o
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	cfg := a.cfg.Merge(serveOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if install, _ := cmd.Flags().GetBool("install-ytdlp"); install {
		exe, err := platform.InstallYTDLP(ctx)
		if err != nil {
			return err
		}
		cfg.Extractor.Executable = exe
		logging.Info().Str("executable", exe).Msg("yt-dlp installed")
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.Download.Directory); err != nil {
		return fmt.Errorf("failed to ensure downloads dir: %w", err)
	}

	extractor := a.newExtractor(&cfg)
	downloads := newDownloadService(&cfg, extractor)
	downloads.SetUpdateCallback(func(t *model.DownloadTask) {
		logging.Debug().Str("task_id", t.ID).Str("status", t.Status.String()).Int("percent", t.Percent).Msg("download task updated")
	})

	renderer, err := ui.NewRenderer(ui.NewLocalization(cfg.Server.Language))
	if err != nil {
		return err
	}

	server := httpapi.NewServer(cfg.Server, httpapi.Deps{
		Extractor: extractor,
		Analyzer:  sizing.NewService(extractor, cfg.AnalysisOptions()),
		Downloads: downloads,
		Renderer:  renderer,
		Preset:    cfg.Download.QualityPreset,
	}, a.version)

	logging.Info().
		Str("download_dir", cfg.Download.Directory).
		Int("max_parallel", downloads.MaxParallel()).
		Bool("native_playlists", cfg.Extractor.NativePlaylists).
		Msg("services initialized")

	return server.ListenAndServe(ctx)
}

func newDownloadService(cfg *config.Config, fetcher download.Fetcher) *download.Service {
	svc := download.NewService(fetcher, cfg.Download.MaxParallel)
	svc.SetRetryPolicy(cfg.Download.RetryAttempts, cfg.Download.RetryDelay)
	return svc
}
