package config

import (
	"slices"
	"time"
)

// Merge returns c with every non-zero field of override applied. It is used to
// layer command-line flags over loaded configuration. Booleans can only be
// switched on.
func (c Config) Merge(override Config) Config {
	out := c

	out.Server.Host = str(c.Server.Host, override.Server.Host)
	out.Server.Port = num(c.Server.Port, override.Server.Port)
	out.Server.ReadTimeout = dur(c.Server.ReadTimeout, override.Server.ReadTimeout)
	out.Server.WriteTimeout = dur(c.Server.WriteTimeout, override.Server.WriteTimeout)
	out.Server.ShutdownTimeout = dur(c.Server.ShutdownTimeout, override.Server.ShutdownTimeout)
	out.Server.CORSOrigins = list(c.Server.CORSOrigins, override.Server.CORSOrigins)
	out.Server.RateLimit = num(c.Server.RateLimit, override.Server.RateLimit)
	out.Server.RateWindow = dur(c.Server.RateWindow, override.Server.RateWindow)
	out.Server.Language = str(c.Server.Language, override.Server.Language)

	out.Extractor.Executable = str(c.Extractor.Executable, override.Extractor.Executable)
	out.Extractor.FFmpegLocation = str(c.Extractor.FFmpegLocation, override.Extractor.FFmpegLocation)
	out.Extractor.CallTimeout = dur(c.Extractor.CallTimeout, override.Extractor.CallTimeout)
	out.Extractor.NativePlaylists = c.Extractor.NativePlaylists || override.Extractor.NativePlaylists
	out.Extractor.NativeTimeout = dur(c.Extractor.NativeTimeout, override.Extractor.NativeTimeout)

	out.Download.Directory = str(c.Download.Directory, override.Download.Directory)
	out.Download.MaxParallel = num(c.Download.MaxParallel, override.Download.MaxParallel)
	out.Download.QualityPreset = QualityPreset(str(string(c.Download.QualityPreset), string(override.Download.QualityPreset)))
	out.Download.FilenameTemplate = str(c.Download.FilenameTemplate, override.Download.FilenameTemplate)
	out.Download.MergeOutputFormat = str(c.Download.MergeOutputFormat, override.Download.MergeOutputFormat)
	out.Download.RetryAttempts = num(c.Download.RetryAttempts, override.Download.RetryAttempts)
	out.Download.RetryDelay = dur(c.Download.RetryDelay, override.Download.RetryDelay)

	out.Analysis.VideoTiers = list(c.Analysis.VideoTiers, override.Analysis.VideoTiers)
	out.Analysis.AudioTiers = list(c.Analysis.AudioTiers, override.Analysis.AudioTiers)
	out.Analysis.ExcludedContainer = str(c.Analysis.ExcludedContainer, override.Analysis.ExcludedContainer)
	out.Analysis.PreferredAudioContainer = str(c.Analysis.PreferredAudioContainer, override.Analysis.PreferredAudioContainer)

	out.Logging.Level = str(c.Logging.Level, override.Logging.Level)
	out.Logging.Format = str(c.Logging.Format, override.Logging.Format)
	out.Logging.Caller = c.Logging.Caller || override.Logging.Caller

	return out
}

func str(base, override string) string {
	if override != "" {
		return override
	}
	return base
}

func num(base, override int) int {
	if override != 0 {
		return override
	}
	return base
}

func dur(base, override time.Duration) time.Duration {
	if override != 0 {
		return override
	}
	return base
}

func list[T any](base, override []T) []T {
	if len(override) > 0 {
		return slices.Clone(override)
	}
	return slices.Clone(base)
}
