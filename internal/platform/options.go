package platform

import (
	"path/filepath"
	"time"
)

// Option defaults
const (
	DefaultOutputTemplate    = "%(title)s.%(ext)s"
	DefaultMergeOutputFormat = "mp4"
	DefaultExecutable        = "yt-dlp"
)

// Options are the yt-dlp invocation settings. Values are immutable once built;
// per-call changes go through Merge, which returns a new value.
type Options struct {
	Executable        string
	OutputDir         string
	OutputTemplate    string
	MergeOutputFormat string
	FFmpegLocation    string
	Format            string
	SkipDownload      bool
	FlatPlaylist      bool
	NoPlaylist        bool
	Quiet             bool
	RestrictFilenames bool
	CallTimeout       time.Duration
}

// DefaultOptions returns the base options every invocation starts from
func DefaultOptions() Options {
	return Options{
		Executable:        DefaultExecutable,
		OutputDir:         DefaultDownloadDir(),
		OutputTemplate:    DefaultOutputTemplate,
		MergeOutputFormat: DefaultMergeOutputFormat,
		Quiet:             true,
		RestrictFilenames: true,
	}
}

// Merge overlays override onto o field by field. Non-empty strings and
// non-zero durations replace; flags can only be switched on.
func (o Options) Merge(override Options) Options {
	out := o
	out.Executable = pick(o.Executable, override.Executable)
	out.OutputDir = pick(o.OutputDir, override.OutputDir)
	out.OutputTemplate = pick(o.OutputTemplate, override.OutputTemplate)
	out.MergeOutputFormat = pick(o.MergeOutputFormat, override.MergeOutputFormat)
	out.FFmpegLocation = pick(o.FFmpegLocation, override.FFmpegLocation)
	out.Format = pick(o.Format, override.Format)
	out.SkipDownload = o.SkipDownload || override.SkipDownload
	out.FlatPlaylist = o.FlatPlaylist || override.FlatPlaylist
	out.NoPlaylist = o.NoPlaylist || override.NoPlaylist
	out.Quiet = o.Quiet || override.Quiet
	out.RestrictFilenames = o.RestrictFilenames || override.RestrictFilenames
	if override.CallTimeout > 0 {
		out.CallTimeout = override.CallTimeout
	}
	return out
}

// OutputPath is the -o template rooted in the output directory
func (o Options) OutputPath() string {
	tmpl := o.OutputTemplate
	if tmpl == "" {
		tmpl = DefaultOutputTemplate
	}
	if o.OutputDir == "" {
		return tmpl
	}
	return filepath.Join(o.OutputDir, tmpl)
}

func pick(base, override string) string {
	if override != "" {
		return override
	}
	return base
}
