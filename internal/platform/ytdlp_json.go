package platform

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ytget/ytweb/internal/model"
)

// errNoJSON is returned when yt-dlp printed nothing that looks like an info dict
var errNoJSON = errors.New("no JSON object in yt-dlp output")

// ytdlpInfo is the subset of yt-dlp's info dict we read. It stays private to
// this package; the rest of the application sees model types only.
type ytdlpInfo struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Type               string               `json:"_type"`
	Ext                string               `json:"ext"`
	Duration           *float64             `json:"duration"`
	WebpageURL         string               `json:"webpage_url"`
	OriginalURL        string               `json:"original_url"`
	Filename           string               `json:"_filename"`
	LegacyFilename     string               `json:"filename"`
	Entries            []*ytdlpEntry        `json:"entries"`
	Formats            []ytdlpFormat        `json:"formats"`
	RequestedDownloads []ytdlpRequestedFile `json:"requested_downloads"`
}

type ytdlpEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	WebpageURL string `json:"webpage_url"`
}

type ytdlpFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	ACodec         string   `json:"acodec"`
	VCodec         string   `json:"vcodec"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
	Height         *float64 `json:"height"`
	FPS            *float64 `json:"fps"`
	VBR            *float64 `json:"vbr"`
	ABR            *float64 `json:"abr"`
	TBR            *float64 `json:"tbr"`
	ASR            *float64 `json:"asr"`
	Resolution     string   `json:"resolution"`
}

type ytdlpRequestedFile struct {
	Filepath string `json:"filepath"`
	Ext      string `json:"ext"`
}

// decodeInfo decodes the last JSON object line of yt-dlp stdout
func decodeInfo(stdout string) (*ytdlpInfo, error) {
	raw, err := lastJSONObject(stdout)
	if err != nil {
		return nil, err
	}
	var info ytdlpInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return &info, nil
}

func lastJSONObject(stdout string) ([]byte, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace([]byte(lines[i]))
		if len(line) > 0 && line[0] == '{' {
			return line, nil
		}
	}
	return nil, errNoJSON
}

func (i *ytdlpInfo) toMetadata() *model.Metadata {
	meta := &model.Metadata{
		ID:         i.ID,
		Title:      i.Title,
		WebpageURL: i.WebpageURL,
	}
	if i.Duration != nil {
		meta.Duration = *i.Duration
	}
	if len(i.Entries) > 0 {
		meta.Entries = make([]model.PlaylistEntry, 0, len(i.Entries))
		for _, e := range i.Entries {
			// unavailable members come back as null and are kept so the count stays honest
			if e == nil {
				meta.Entries = append(meta.Entries, model.PlaylistEntry{})
				continue
			}
			meta.Entries = append(meta.Entries, model.PlaylistEntry{
				ID:         e.ID,
				Title:      e.Title,
				URL:        e.URL,
				WebpageURL: e.WebpageURL,
			})
		}
	}
	return meta
}

func (i *ytdlpInfo) toEncodings() []model.Encoding {
	encs := make([]model.Encoding, 0, len(i.Formats))
	for _, f := range i.Formats {
		encs = append(encs, f.toEncoding())
	}
	return encs
}

func (f ytdlpFormat) toEncoding() model.Encoding {
	e := model.Encoding{
		FormatID:        f.FormatID,
		AudioCodec:      f.ACodec,
		VideoCodec:      f.VCodec,
		Container:       f.Ext,
		FrameRate:       f.FPS,
		VideoBitrate:    f.VBR,
		AudioBitrate:    f.ABR,
		TotalBitrate:    f.TBR,
		AudioSampleRate: f.ASR,
		Resolution:      f.Resolution,
	}
	switch {
	case f.Filesize != nil:
		e.SizeBytes = model.Int64Ptr(int64(*f.Filesize))
	case f.FilesizeApprox != nil:
		e.SizeBytes = model.Int64Ptr(int64(*f.FilesizeApprox))
	}
	if f.Height != nil {
		e.Height = model.IntPtr(int(*f.Height))
	}
	return e
}

func (i *ytdlpInfo) toFetchResult() *model.FetchResult {
	res := &model.FetchResult{
		Title:        i.Title,
		Container:    i.Ext,
		CanonicalURL: i.WebpageURL,
	}
	if i.Duration != nil {
		res.Duration = *i.Duration
	}
	for _, rd := range i.RequestedDownloads {
		if rd.Filepath != "" {
			res.LocalPath = rd.Filepath
			if rd.Ext != "" {
				res.Container = rd.Ext
			}
			break
		}
	}
	if res.LocalPath == "" {
		res.LocalPath = pick(i.LegacyFilename, i.Filename)
	}
	return res
}
