package sizing

import (
	"context"
	"errors"

	"github.com/ytget/ytweb/internal/model"
)

const mb = 1024 * 1024

// fakeExtractor serves canned metadata and per-URL encodings
type fakeExtractor struct {
	meta      *model.Metadata
	metaErr   error
	encodings map[string][]model.Encoding
	failing   map[string]error
	listCalls []string
	onList    func(url string)
}

func (f *fakeExtractor) Metadata(_ context.Context, _ string) (*model.Metadata, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.meta, nil
}

func (f *fakeExtractor) ListEncodings(_ context.Context, url string) ([]model.Encoding, error) {
	f.listCalls = append(f.listCalls, url)
	if f.onList != nil {
		f.onList(url)
	}
	if err, ok := f.failing[url]; ok {
		return nil, err
	}
	encs, ok := f.encodings[url]
	if !ok {
		return nil, errors.New("video unavailable")
	}
	return encs, nil
}

func playlistOf(urls ...string) *model.Metadata {
	meta := &model.Metadata{ID: "PL1", Title: "Test playlist"}
	for i, u := range urls {
		meta.Entries = append(meta.Entries, model.PlaylistEntry{
			ID:         string(rune('a' + i)),
			WebpageURL: u,
		})
	}
	return meta
}

func videoOnly(id string, height int, sizeMB int64, container string) model.Encoding {
	return model.Encoding{
		FormatID:   id,
		VideoCodec: "avc1.4d401e",
		AudioCodec: model.CodecNone,
		Container:  container,
		Height:     model.IntPtr(height),
		SizeBytes:  model.Int64Ptr(sizeMB * mb),
	}
}

func combined(id string, height int, sizeMB int64) model.Encoding {
	e := videoOnly(id, height, sizeMB, model.ContainerMP4)
	e.AudioCodec = "mp4a.40.2"
	return e
}

func audioOnly(id string, abr float64, sizeMB int64, container string) model.Encoding {
	return model.Encoding{
		FormatID:     id,
		VideoCodec:   model.CodecNone,
		AudioCodec:   "mp4a.40.2",
		Container:    container,
		AudioBitrate: model.Float64Ptr(abr),
		SizeBytes:    model.Int64Ptr(sizeMB * mb),
	}
}
