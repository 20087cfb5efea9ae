package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
	"github.com/ytget/ytweb/internal/validation"
)

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <playlist-url>",
		Short: "Estimate the total size of a playlist per quality tier",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runAnalyze,
	}
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := validation.ValidateMediaURL(url); err != nil {
		return err
	}

	svc := sizing.NewService(a.newExtractor(a.cfg), a.cfg.AnalysisOptions())
	result, err := svc.AnalyzePlaylist(cmd.Context(), url)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	}

	loc := ui.NewLocalization(a.cfg.Server.Language)
	printAnalysis(cmd.OutOrStdout(), loc, loc.Resolve(a.cfg.Server.Language, ""), result)
	return nil
}

func printAnalysis(w io.Writer, loc *ui.Localization, lang string, r *model.PlaylistAggregateResult) {
	fmt.Fprintln(w, loc.GetText(lang, ui.KeyAnalysisTitle))
	if r.Title != "" {
		fmt.Fprintln(w, r.Title)
	}
	fmt.Fprintln(w, loc.Format(lang, ui.KeyAnalysisCaption, r.EntriesCount))

	fmt.Fprintf(w, "\n%s\n", loc.GetText(lang, ui.KeyVideoTarget))
	for _, t := range r.VideoTotals {
		fmt.Fprintf(w, "  %-16s %s %s (%s)\n", loc.Format(lang, ui.KeyUpToHeight, t.Tier)+":",
			ui.FormatMB(t.Bytes), loc.GetText(lang, ui.KeyTotal), ui.HumanBytes(t.Bytes))
	}

	fmt.Fprintf(w, "\n%s\n", loc.GetText(lang, ui.KeyAudioTarget))
	for _, t := range r.AudioTotals {
		fmt.Fprintf(w, "  %-16s %s %s (%s)\n", loc.Format(lang, ui.KeyUpToBitrate, t.Tier)+":",
			ui.FormatMB(t.Bytes), loc.GetText(lang, ui.KeyTotal), ui.HumanBytes(t.Bytes))
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "\n%s\n", loc.GetText(lang, ui.KeySkippedVideos))
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", s.URL, s.Reason)
		}
	}
}
