// Package cli implements the ytweb command line: the web server and one-shot
// analyze, formats and download commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ytget/ytweb/internal/config"
	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/platform"
	"github.com/ytget/ytweb/internal/sizing"
)

// Extractor is what the commands need from the extraction service
type Extractor interface {
	sizing.Extractor
	download.Fetcher
}

// app carries state shared by every command of one invocation
type app struct {
	version string
	cfgFile string
	cfg     *config.Config

	// newExtractor builds the extraction backend from loaded configuration
	newExtractor func(cfg *config.Config) Extractor
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version, newExtractor: defaultExtractor}
	return a.rootCmd()
}

// Execute runs the CLI with os.Args
func Execute(version string) error {
	if err := NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "ytweb",
		Short:   "Browser front end for yt-dlp with playlist size estimates",
		Version: a.version,
		Long: `ytweb lists the formats of a video, downloads a chosen format to the
browser and estimates how large a whole playlist would be at common video
heights and audio bitrates.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd.Flags())
		},
	}

	// Log flags override config only when set explicitly
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ./ytweb.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	root.AddCommand(
		a.serveCmd(),
		a.analyzeCmd(),
		a.formatsCmd(),
		a.downloadCmd(),
		a.versionCmd(),
	)
	return root
}

// loadConfig reads .env, the config file and the environment, then applies
// the logging flags
func (a *app) loadConfig(flags *pflag.FlagSet) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	override := config.Config{}
	if flags.Changed("log-level") {
		override.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		override.Logging.Format, _ = flags.GetString("log-format")
	}
	merged := cfg.Merge(override)
	if err := merged.Validate(); err != nil {
		return fmt.Errorf("validating flags: %w", err)
	}
	a.cfg = &merged

	logging.Init(logging.Config{
		Level:  merged.Logging.Level,
		Format: merged.Logging.Format,
		Caller: merged.Logging.Caller,
		Output: os.Stderr,
	})
	logging.Debug().Str("config", a.cfgFile).Msg("configuration loaded")
	return nil
}

// defaultExtractor drives yt-dlp, optionally resolving YouTube playlists natively
func defaultExtractor(cfg *config.Config) Extractor {
	ytdlp := platform.NewYTDLPExtractor(cfg.ExtractorOptions())
	if !cfg.Extractor.NativePlaylists {
		return ytdlp
	}
	native := platform.NewNativePlaylistExtractor(ytdlp, platform.NativeLister{})
	native.SetTimeout(cfg.Extractor.NativeTimeout)
	return nativeExtractor{NativePlaylistExtractor: native, ytdlp: ytdlp}
}

// nativeExtractor resolves playlists natively and fetches through yt-dlp
type nativeExtractor struct {
	*platform.NativePlaylistExtractor
	ytdlp *platform.YTDLPExtractor
}

func (n nativeExtractor) Fetch(ctx context.Context, url, selector string) (*model.FetchResult, error) {
	return n.ytdlp.Fetch(ctx, url, selector)
}

func (n nativeExtractor) FetchWithProgress(ctx context.Context, url, selector string, progress platform.ProgressFunc) (*model.FetchResult, error) {
	return n.ytdlp.FetchWithProgress(ctx, url, selector, progress)
}
