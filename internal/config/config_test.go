package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
)

func validTestConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, Language: "en"},
		Download: DownloadConfig{Directory: "/tmp/ytweb", MaxParallel: 2, QualityPreset: QualityMedium},
		Analysis: AnalysisConfig{VideoTiers: []int{360}, AudioTiers: []int{128}},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "system", cfg.Server.Language)

	assert.Equal(t, "yt-dlp", cfg.Extractor.Executable)
	assert.Zero(t, cfg.Extractor.CallTimeout)
	assert.False(t, cfg.Extractor.NativePlaylists)

	assert.Equal(t, download.DefaultParallel, cfg.Download.MaxParallel)
	assert.Equal(t, QualityMedium, cfg.Download.QualityPreset)
	assert.Equal(t, "%(title)s.%(ext)s", cfg.Download.FilenameTemplate)
	assert.Equal(t, "mp4", cfg.Download.MergeOutputFormat)
	assert.NotEmpty(t, cfg.Download.Directory)

	assert.Equal(t, model.DefaultVideoTiers, cfg.Analysis.VideoTiers)
	assert.Equal(t, model.DefaultAudioTiers, cfg.Analysis.AudioTiers)
	assert.Equal(t, "webm", cfg.Analysis.ExcludedContainer)
	assert.Equal(t, "m4a", cfg.Analysis.PreferredAudioContainer)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ytweb.yaml")
	content := `
server:
  port: 9090
  language: pt
download:
  directory: /srv/media
  max_parallel: 4
  quality_preset: audio
analysis:
  video_tiers: [240, 720]
extractor:
  call_timeout: 90s
  native_playlists: true
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "pt", cfg.Server.Language)
	assert.Equal(t, "/srv/media", cfg.Download.Directory)
	assert.Equal(t, 4, cfg.Download.MaxParallel)
	assert.Equal(t, QualityAudio, cfg.Download.QualityPreset)
	assert.Equal(t, []int{240, 720}, cfg.Analysis.VideoTiers)
	assert.Equal(t, model.DefaultAudioTiers, cfg.Analysis.AudioTiers)
	assert.Equal(t, 90*time.Second, cfg.Extractor.CallTimeout)
	assert.True(t, cfg.Extractor.NativePlaylists)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("YTWEB_SERVER_PORT", "7000")
	t.Setenv("YTWEB_DOWNLOAD_MAX_PARALLEL", "3")
	t.Setenv("YTWEB_LOGGING_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Download.MaxParallel)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytweb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  max_parallel: 42\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download.max_parallel")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("YTWEB_SERVER_PORT=7100\n"), 0o644))

	t.Setenv("YTWEB_SERVER_PORT", "")
	os.Unsetenv("YTWEB_SERVER_PORT")

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "7100", os.Getenv("YTWEB_SERVER_PORT"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "server.rate_limit"},
		{"unknown language", func(c *Config) { c.Server.Language = "de" }, "server.language"},
		{"negative call timeout", func(c *Config) { c.Extractor.CallTimeout = -time.Second }, "extractor.call_timeout"},
		{"no directory", func(c *Config) { c.Download.Directory = "" }, "download.directory"},
		{"too many parallel", func(c *Config) { c.Download.MaxParallel = 11 }, "download.max_parallel"},
		{"bad preset", func(c *Config) { c.Download.QualityPreset = "ultra" }, "download.quality_preset"},
		{"no tiers", func(c *Config) { c.Analysis.AudioTiers = nil }, "analysis"},
		{"zero tier", func(c *Config) { c.Analysis.VideoTiers = []int{0} }, "positive"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	base := *validTestConfig()
	base.Extractor.CallTimeout = time.Minute

	merged := base.Merge(Config{
		Server:    ServerConfig{Port: 9999},
		Download:  DownloadConfig{QualityPreset: QualityAudio},
		Extractor: ExtractorConfig{NativePlaylists: true},
		Logging:   LoggingConfig{Level: "debug"},
	})

	assert.Equal(t, 9999, merged.Server.Port)
	assert.Equal(t, "en", merged.Server.Language)
	assert.Equal(t, QualityAudio, merged.Download.QualityPreset)
	assert.Equal(t, "/tmp/ytweb", merged.Download.Directory)
	assert.True(t, merged.Extractor.NativePlaylists)
	assert.Equal(t, time.Minute, merged.Extractor.CallTimeout)
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, "json", merged.Logging.Format)

	// base is a value and stays untouched
	assert.Equal(t, 8080, base.Server.Port)

	merged.Analysis.VideoTiers[0] = 1
	assert.Equal(t, 360, base.Analysis.VideoTiers[0])
}

func TestQualityPresetModeQuality(t *testing.T) {
	tests := []struct {
		preset      QualityPreset
		wantMode    string
		wantQuality string
	}{
		{QualityAudio, download.ModeAudio, ""},
		{QualityMedium, download.ModeVideo, "720p"},
		{QualityBest, download.ModeVideo, ""},
	}

	for _, tt := range tests {
		mode, quality := tt.preset.ModeQuality()
		assert.Equal(t, tt.wantMode, mode, tt.preset)
		assert.Equal(t, tt.wantQuality, quality, tt.preset)
	}
}

func TestExtractorOptions(t *testing.T) {
	cfg := validTestConfig()
	cfg.Extractor.FFmpegLocation = "/opt/ffmpeg"
	cfg.Download.FilenameTemplate = "%(id)s.%(ext)s"

	opts := cfg.ExtractorOptions()

	assert.Equal(t, "/tmp/ytweb", opts.OutputDir)
	assert.Equal(t, "%(id)s.%(ext)s", opts.OutputTemplate)
	assert.Equal(t, "/opt/ffmpeg", opts.FFmpegLocation)
	assert.Equal(t, "mp4", opts.MergeOutputFormat)
	assert.True(t, opts.Quiet)
}

func TestAnalysisOptions(t *testing.T) {
	cfg := validTestConfig()
	cfg.Analysis.VideoTiers = []int{720}

	opts := cfg.AnalysisOptions()
	assert.Equal(t, []int{720}, opts.VideoTiers)
	assert.Equal(t, cfg.Analysis.AudioTiers, opts.AudioTiers)
	assert.Equal(t, cfg.Analysis.PreferredAudioContainer, opts.PreferredAudioContainer)

	// the options own their slices
	opts.VideoTiers[0] = 1
	assert.Equal(t, 720, cfg.Analysis.VideoTiers[0])
}
