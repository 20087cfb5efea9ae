// Package config loads ytweb configuration from defaults, an optional YAML
// file, a .env file and YTWEB_ environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/platform"
	"github.com/ytget/ytweb/internal/sizing"
)

// EnvPrefix prefixes every environment override, e.g. YTWEB_SERVER_PORT
const EnvPrefix = "YTWEB"

// QualityPreset is the default download quality when none is requested
type QualityPreset string

// Quality presets for downloads
const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityAudio  QualityPreset = "audio"
)

// ModeQuality maps the preset onto a download mode and quality ID
func (q QualityPreset) ModeQuality() (mode, quality string) {
	switch q {
	case QualityAudio:
		return download.ModeAudio, ""
	case QualityMedium:
		return download.ModeVideo, "720p"
	default:
		return download.ModeVideo, ""
	}
}

// Default values
const (
	defaultHost             = "127.0.0.1"
	defaultPort             = 8080
	defaultServerTimeout    = 30 * time.Second
	defaultWriteTimeout     = 30 * time.Minute // fetch + stream of a long video
	defaultShutdownTimeout  = 10 * time.Second
	defaultRateLimit        = 10
	defaultRateWindow       = time.Minute
	defaultLanguage         = "system"
	defaultQualityPreset    = QualityMedium
	defaultNativeTimeout    = 60 * time.Second
	defaultRetryDelay       = 2 * time.Second
	defaultRetryAttempts    = 1
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	maxPort                 = 65535
	defaultConfigName       = "ytweb"
	defaultDotEnvFile       = ".env"
	defaultSystemConfigPath = "/etc/ytweb"
)

// Supported UI languages
var Languages = []string{"system", "en", "ru", "pt"}

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Download  DownloadConfig  `mapstructure:"download"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimit       int           `mapstructure:"rate_limit"` // requests per window per IP on heavy routes; 0 disables
	RateWindow      time.Duration `mapstructure:"rate_window"`
	Language        string        `mapstructure:"language"`
}

// ExtractorConfig holds yt-dlp invocation settings.
type ExtractorConfig struct {
	Executable      string        `mapstructure:"executable"`
	FFmpegLocation  string        `mapstructure:"ffmpeg_location"`
	CallTimeout     time.Duration `mapstructure:"call_timeout"` // 0 = no timeout
	NativePlaylists bool          `mapstructure:"native_playlists"`
	NativeTimeout   time.Duration `mapstructure:"native_timeout"`
}

// DownloadConfig holds single-video download settings.
type DownloadConfig struct {
	Directory         string        `mapstructure:"directory"`
	MaxParallel       int           `mapstructure:"max_parallel"`
	QualityPreset     QualityPreset `mapstructure:"quality_preset"`
	FilenameTemplate  string        `mapstructure:"filename_template"`
	MergeOutputFormat string        `mapstructure:"merge_output_format"`
	RetryAttempts     int           `mapstructure:"retry_attempts"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

// AnalysisConfig holds playlist size analysis settings.
type AnalysisConfig struct {
	VideoTiers              []int  `mapstructure:"video_tiers"`
	AudioTiers              []int  `mapstructure:"audio_tiers"`
	ExcludedContainer       string `mapstructure:"excluded_container"`
	PreferredAudioContainer string `mapstructure:"preferred_audio_container"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
	Caller bool   `mapstructure:"caller"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{defaultDotEnvFile}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with YTWEB_ and use underscores for nesting.
// Example: YTWEB_DOWNLOAD_MAX_PARALLEL=4.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ytweb")
		v.AddConfigPath(defaultSystemConfigPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", defaultHost)
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", defaultRateLimit)
	v.SetDefault("server.rate_window", defaultRateWindow)
	v.SetDefault("server.language", defaultLanguage)

	// Extractor defaults
	v.SetDefault("extractor.executable", platform.DefaultExecutable)
	v.SetDefault("extractor.ffmpeg_location", "")
	v.SetDefault("extractor.call_timeout", time.Duration(0))
	v.SetDefault("extractor.native_playlists", false)
	v.SetDefault("extractor.native_timeout", defaultNativeTimeout)

	// Download defaults
	v.SetDefault("download.directory", platform.DefaultDownloadDir())
	v.SetDefault("download.max_parallel", download.DefaultParallel)
	v.SetDefault("download.quality_preset", string(defaultQualityPreset))
	v.SetDefault("download.filename_template", platform.DefaultOutputTemplate)
	v.SetDefault("download.merge_output_format", platform.DefaultMergeOutputFormat)
	v.SetDefault("download.retry_attempts", defaultRetryAttempts)
	v.SetDefault("download.retry_delay", defaultRetryDelay)

	// Analysis defaults
	v.SetDefault("analysis.video_tiers", model.DefaultVideoTiers)
	v.SetDefault("analysis.audio_tiers", model.DefaultAudioTiers)
	v.SetDefault("analysis.excluded_container", model.ContainerWebM)
	v.SetDefault("analysis.preferred_audio_container", model.ContainerM4A)

	// Logging defaults
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", defaultLogFormat)
	v.SetDefault("logging.caller", false)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Server.Language != "" && !slices.Contains(Languages, c.Server.Language) {
		return fmt.Errorf("server.language must be one of: %s", strings.Join(Languages, ", "))
	}

	if c.Extractor.CallTimeout < 0 {
		return fmt.Errorf("extractor.call_timeout must not be negative")
	}

	if c.Download.Directory == "" {
		return fmt.Errorf("download.directory is required")
	}
	if c.Download.MaxParallel < download.MinParallel || c.Download.MaxParallel > download.MaxParallel {
		return fmt.Errorf("download.max_parallel must be between %d and %d", download.MinParallel, download.MaxParallel)
	}
	switch c.Download.QualityPreset {
	case QualityBest, QualityMedium, QualityAudio:
	default:
		return fmt.Errorf("download.quality_preset must be one of: best, medium, audio")
	}
	if c.Download.RetryAttempts < 0 {
		return fmt.Errorf("download.retry_attempts must not be negative")
	}

	if len(c.Analysis.VideoTiers) == 0 || len(c.Analysis.AudioTiers) == 0 {
		return fmt.Errorf("analysis.video_tiers and analysis.audio_tiers must not be empty")
	}
	for _, tier := range slices.Concat(c.Analysis.VideoTiers, c.Analysis.AudioTiers) {
		if tier <= 0 {
			return fmt.Errorf("analysis tiers must be positive, got %d", tier)
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExtractorOptions builds the base yt-dlp options from the extractor and
// download sections
func (c *Config) ExtractorOptions() platform.Options {
	return platform.DefaultOptions().Merge(platform.Options{
		Executable:        c.Extractor.Executable,
		FFmpegLocation:    c.Extractor.FFmpegLocation,
		CallTimeout:       c.Extractor.CallTimeout,
		OutputDir:         c.Download.Directory,
		OutputTemplate:    c.Download.FilenameTemplate,
		MergeOutputFormat: c.Download.MergeOutputFormat,
	})
}

// AnalysisOptions returns the aggregator tier and container settings
func (c *Config) AnalysisOptions() sizing.Options {
	return sizing.Options{
		VideoTiers:              slices.Clone(c.Analysis.VideoTiers),
		AudioTiers:              slices.Clone(c.Analysis.AudioTiers),
		ExcludedContainer:       c.Analysis.ExcludedContainer,
		PreferredAudioContainer: c.Analysis.PreferredAudioContainer,
	}
}
