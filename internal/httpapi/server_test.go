package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/ytweb/internal/config"
	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/ui"
)

const (
	videoURL    = "https://www.youtube.com/watch?v=single"
	playlistURL = "https://www.youtube.com/playlist?list=PL1"
	brokenURL   = "https://www.youtube.com/watch?v=broken"
	mb          = model.BytesPerMB
)

type fakeExtractor struct {
	metadata  map[string]*model.Metadata
	encodings map[string][]model.Encoding
}

func (f *fakeExtractor) Metadata(_ context.Context, u string) (*model.Metadata, error) {
	if m, ok := f.metadata[u]; ok {
		return m, nil
	}
	return nil, errors.New("extractor exploded")
}

func (f *fakeExtractor) ListEncodings(_ context.Context, u string) ([]model.Encoding, error) {
	if e, ok := f.encodings[u]; ok {
		return e, nil
	}
	return nil, errors.New("no formats")
}

type fakeFetcher struct {
	dir string
}

func (f *fakeFetcher) Fetch(_ context.Context, u, selector string) (*model.FetchResult, error) {
	if u == brokenURL {
		return nil, errors.New("fetch failed")
	}
	path := filepath.Join(f.dir, "clip.m4a")
	if err := os.WriteFile(path, []byte("payload:"+selector), 0o644); err != nil {
		return nil, err
	}
	return &model.FetchResult{Title: "clip", Container: "m4a", LocalPath: path}, nil
}

func combinedEnc(id string, height int, size int64) model.Encoding {
	return model.Encoding{
		FormatID: id, AudioCodec: "mp4a", VideoCodec: "avc1", Container: model.ContainerMP4,
		Height: model.IntPtr(height), SizeBytes: model.Int64Ptr(size),
	}
}

type testEnv struct {
	server    *Server
	downloads *download.Service
	dir       string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ex := &fakeExtractor{
		metadata: map[string]*model.Metadata{
			videoURL:  {ID: "single", Title: "Single clip"},
			brokenURL: {ID: "broken", Title: "Broken"},
			playlistURL: {ID: "PL1", Title: "Mix", Entries: []model.PlaylistEntry{
				{ID: "a", WebpageURL: "https://www.youtube.com/watch?v=a"},
				{ID: "b", WebpageURL: "https://www.youtube.com/watch?v=b"},
			}},
		},
		encodings: map[string][]model.Encoding{
			videoURL: {
				{FormatID: "140", AudioCodec: "mp4a", VideoCodec: "none", Container: model.ContainerM4A, SizeBytes: model.Int64Ptr(mb)},
				{FormatID: "137", AudioCodec: "none", VideoCodec: "avc1", Container: model.ContainerMP4, Height: model.IntPtr(1080), SizeBytes: model.Int64Ptr(20 * mb)},
			},
			"https://www.youtube.com/watch?v=a": {combinedEnc("18", 480, 20*mb)},
			"https://www.youtube.com/watch?v=b": {combinedEnc("18", 480, 19*mb)},
		},
	}

	dir := t.TempDir()
	downloads := download.NewService(&fakeFetcher{dir: dir}, 1)
	downloads.SetRetryPolicy(0, 0)

	renderer, err := ui.NewRenderer(ui.NewLocalization(ui.LangEnglish))
	require.NoError(t, err)

	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: []string{"*"}}, Deps{
		Extractor: ex,
		Analyzer:  sizing.NewService(ex, sizing.DefaultOptions()),
		Downloads: downloads,
		Renderer:  renderer,
		Preset:    config.QualityMedium,
	}, "test")
	return &testEnv{server: srv, downloads: downloads, dir: dir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/inspect"`)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestIndexLanguageFromHeader(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	rec := env.do(req)
	assert.Contains(t, rec.Body.String(), "Получить форматы")
}

func TestRequestIDPropagated(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := env.do(req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestInspect(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		url      string
		status   int
		contains []string
	}{
		{"empty url", "", http.StatusBadRequest, []string{"Please enter a URL"}},
		{"not a url", "ftp://x", http.StatusBadRequest, []string{"Invalid URL"}},
		{"playlist", playlistURL, http.StatusOK, []string{"Playlist detected with 2 videos.", `action="/analyze"`}},
		{"single video", videoURL, http.StatusOK, []string{"Found 2 formats", "1.00 MB | .m4a", "1080p | 20.00 MB | .mp4"}},
		{"metadata failure", "https://example.com/unknown", http.StatusBadGateway, []string{"Error fetching formats", "extractor exploded"}},
		{"format failure", brokenURL, http.StatusBadGateway, []string{"no formats"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postForm("/inspect", url.Values{"url": {tt.url}})
			assert.Equal(t, tt.status, rec.Code)
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/analyze", url.Values{"url": {playlistURL}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Across 2 videos.")
	assert.Contains(t, body, "Up to 480p")
	assert.Contains(t, body, "39.00 MB total")
}

func TestAnalyzeMetadataFailure(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/analyze", url.Values{"url": {"https://example.com/list"}})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to analyze playlist")
}

func TestDownloadStreamsAndDeletes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/download", url.Values{"url": {videoURL}, "selector": {"140"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payload:140", rec.Body.String())
	assert.Equal(t, "audio/mp4", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename=clip.m4a`)

	_, err := os.Stat(filepath.Join(env.dir, "clip.m4a"))
	assert.True(t, os.IsNotExist(err), "server copy must be removed after delivery")

	tasks := env.downloads.GetAllTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, model.TaskStatusDelivered, tasks[0].Status)
}

func TestDownloadPresetSelector(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/download", url.Values{"url": {videoURL}, "mode": {"video"}, "quality": {"480p"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payload:bestvideo[height<=480]+bestaudio/best[height<=480]", rec.Body.String())

	// no selector and no mode uses the configured preset
	rec = env.postForm("/download", url.Values{"url": {videoURL}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "payload:bestvideo[height<=720]+bestaudio/best[height<=720]", rec.Body.String())
}

func TestDownloadErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		form   url.Values
		status int
	}{
		{"bad selector", url.Values{"url": {videoURL}, "selector": {"18; rm -rf"}}, http.StatusBadRequest},
		{"bad mode", url.Values{"url": {videoURL}, "mode": {"karaoke"}}, http.StatusBadRequest},
		{"fetch failure", url.Values{"url": {brokenURL}, "selector": {"18"}}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.postForm("/download", tt.form)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), "Download failed")
		})
	}
}

func TestAPIInspect(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/inspect?url="+url.QueryEscape(videoURL), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.IsPlaylist)
	require.Len(t, resp.Audio, 1)
	require.Len(t, resp.Video, 1)
	assert.Equal(t, "137", resp.Video[0].FormatID)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/inspect?url="+url.QueryEscape(playlistURL), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsPlaylist)
	assert.Equal(t, 2, resp.EntryCount)
}

func TestAPIAnalyze(t *testing.T) {
	env := newTestEnv(t)

	post := func(u string) *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"url":%q}`, u)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/playlists/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return env.do(req)
	}

	rec := post(playlistURL)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result model.PlaylistAggregateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.EntriesCount)
	assert.NotEmpty(t, result.RunID)
	total, ok := result.VideoTotal(480)
	require.True(t, ok)
	assert.Equal(t, int64(39*mb), total.Bytes)

	assert.Equal(t, http.StatusUnprocessableEntity, post("not a url").Code)
	assert.Equal(t, http.StatusBadGateway, post("https://example.com/list").Code)
}

func TestAPIDownloads(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/downloads/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	task, err := env.downloads.Download(context.Background(), videoURL, "140")
	require.NoError(t, err)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/downloads/"+task.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.DownloadTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.TaskStatusCompleted, got.Status)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/downloads", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.DownloadTask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/v1/downloads/"+task.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok := env.downloads.GetTask(task.ID)
	assert.False(t, ok)
}

func TestAPIHealthAndCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Equal(t, 0, health.FinishedDownloads)

	_, err := env.downloads.Download(context.Background(), videoURL, "140")
	require.NoError(t, err)
	_, err = env.downloads.Download(context.Background(), brokenURL, "140")
	require.Error(t, err)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, 0, health.ActiveDownloads)
	// a completed and a failed task both count as finished
	assert.Equal(t, 2, health.FinishedDownloads)

	// the HTML surface carries no CORS headers
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	assert.Empty(t, env.do(req).Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	rec := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ytweb_http_request_duration_seconds")
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t)
	limited := NewServer(config.ServerConfig{RateLimit: 1, RateWindow: time.Minute, CORSOrigins: []string{"*"}}, env.server.deps, "test")

	form := url.Values{"url": {playlistURL}}.Encode()
	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		limited.Handler().ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
