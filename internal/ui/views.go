package ui

import (
	"fmt"
	"sort"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/sizing"
)

// Option is one selectable encoding on the inspect page
type Option struct {
	FormatID string
	Selector string
	Label    string
	Checked  bool
}

// InspectView describes what a URL resolved to
type InspectView struct {
	Title      string
	IsPlaylist bool
	EntryCount int
	Found      int
	Audio      []Option
	Video      []Option
}

// TotalRow is one tier line of the aggregate table
type TotalRow struct {
	Tier  int
	MB    string
	Human string
}

// AnalysisView is the rendered form of a playlist aggregate
type AnalysisView struct {
	RunID        string
	Title        string
	EntriesCount int
	VideoRows    []TotalRow
	AudioRows    []TotalRow
	Details      []model.VideoDiagnostic
	Skipped      []model.SkippedVideo
}

// LanguageChoice is one entry of the language selector
type LanguageChoice struct {
	Code     string
	Name     string
	Selected bool
}

// Page carries everything a template needs. T and Tf translate with the
// page's language.
type Page struct {
	Lang     string
	URL      string
	Error    string
	Notice   string
	Inspect  *InspectView
	Analysis *AnalysisView

	loc *Localization
}

// T returns the localized text for key
func (p *Page) T(key string) string {
	return p.loc.GetText(p.Lang, key)
}

// Tf returns the localized text for key formatted with args
func (p *Page) Tf(key string, args ...any) string {
	return p.loc.Format(p.Lang, key, args...)
}

// Languages lists the selectable languages sorted by code
func (p *Page) Languages() []LanguageChoice {
	available := p.loc.GetAvailableLanguages()
	out := make([]LanguageChoice, 0, len(available))
	for code, name := range available {
		out = append(out, LanguageChoice{Code: code, Name: name, Selected: code == p.Lang})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Qualities lists the preset quality choices for a quick download
func (p *Page) Qualities() []string {
	return []string{"1080p", "720p", "480p", "best"}
}

// NewInspectView builds the single-video or playlist view. encodings is
// ignored for playlists; their formats are only examined by the analysis.
func NewInspectView(meta *model.Metadata, encodings []model.Encoding) *InspectView {
	v := &InspectView{Title: meta.DisplayTitle()}
	if meta.IsPlaylist() {
		v.IsPlaylist = true
		v.EntryCount = len(meta.Entries)
		return v
	}

	v.Found = len(encodings)
	classified := sizing.Classify(encodings)
	for i, e := range classified.Audio {
		v.Audio = append(v.Audio, Option{
			FormatID: e.FormatID,
			Selector: download.SelectorFor(e),
			Label:    AudioLabel(e),
			Checked:  i == 0,
		})
	}
	for i, e := range classified.Video {
		v.Video = append(v.Video, Option{
			FormatID: e.FormatID,
			Selector: download.SelectorFor(e),
			Label:    VideoLabel(e),
			Checked:  i == 0,
		})
	}
	return v
}

// NewAnalysisView converts an aggregate result for display
func NewAnalysisView(r *model.PlaylistAggregateResult) *AnalysisView {
	return &AnalysisView{
		RunID:        r.RunID,
		Title:        r.Title,
		EntriesCount: r.EntriesCount,
		VideoRows:    totalRows(r.VideoTotals),
		AudioRows:    totalRows(r.AudioTotals),
		Details:      r.Details,
		Skipped:      r.Skipped,
	}
}

func totalRows(totals []model.TierTotal) []TotalRow {
	rows := make([]TotalRow, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, TotalRow{
			Tier:  t.Tier,
			MB:    fmt.Sprintf("%.2f", t.MB()),
			Human: HumanBytes(t.Bytes),
		})
	}
	return rows
}
