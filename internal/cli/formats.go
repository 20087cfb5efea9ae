package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
	"github.com/ytget/ytweb/internal/validation"
)

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats <video-url>",
		Short: "List the downloadable audio and video formats of a video",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFormats,
	}
}

func (a *app) runFormats(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := validation.ValidateMediaURL(url); err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	loc := ui.NewLocalization(a.cfg.Server.Language)
	lang := loc.Resolve(a.cfg.Server.Language, "")
	extractor := a.newExtractor(a.cfg)

	meta, err := extractor.Metadata(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", loc.GetText(lang, ui.KeyErrorFetchFormats), err)
	}
	if meta.IsPlaylist() {
		fmt.Fprintln(w, loc.Format(lang, ui.KeyPlaylistDetected, len(meta.Entries)))
		return nil
	}

	encodings, err := extractor.ListEncodings(ctx, url)
	if err != nil {
		return fmt.Errorf("%s: %w", loc.GetText(lang, ui.KeyErrorFetchFormats), err)
	}
	classified := sizing.ClassifyExcluding(encodings, a.cfg.Analysis.ExcludedContainer)

	fmt.Fprintln(w, meta.DisplayTitle())
	fmt.Fprintln(w, loc.Format(lang, ui.KeyFoundFormats, len(encodings)))

	fmt.Fprintf(w, "\n%s\n", loc.GetText(lang, ui.KeyTabAudio))
	if len(classified.Audio) == 0 {
		fmt.Fprintln(w, "  "+loc.GetText(lang, ui.KeyNoAudio))
	}
	for _, e := range classified.Audio {
		fmt.Fprintf(w, "  %-8s %s\n", e.FormatID, ui.AudioLabel(e))
	}

	fmt.Fprintf(w, "\n%s\n", loc.GetText(lang, ui.KeyTabVideo))
	if len(classified.Video) == 0 {
		fmt.Fprintln(w, "  "+loc.GetText(lang, ui.KeyNoVideo))
	}
	for _, e := range classified.Video {
		fmt.Fprintf(w, "  %-8s %-32s %s\n", e.FormatID, ui.VideoLabel(e), download.SelectorFor(e))
	}
	return nil
}
