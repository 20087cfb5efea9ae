package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ytget/ytweb/internal/download"
	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/sizing"
	"github.com/ytget/ytweb/internal/validation"
)

// InspectInput is the input for GET /v1/inspect
type InspectInput struct {
	URL string `query:"url" required:"true" doc:"Video or playlist URL"`
}

// InspectResponse describes what a URL resolved to
type InspectResponse struct {
	Metadata   *model.Metadata  `json:"metadata"`
	IsPlaylist bool             `json:"is_playlist"`
	EntryCount int              `json:"entry_count"`
	Audio      []model.Encoding `json:"audio,omitempty" doc:"Audio-only encodings with a known size"`
	Video      []model.Encoding `json:"video,omitempty" doc:"Video encodings with a known size"`
}

// InspectOutput is the output for GET /v1/inspect
type InspectOutput struct {
	Body InspectResponse
}

// AnalyzeRequest is the body of POST /v1/playlists/analyze
type AnalyzeRequest struct {
	URL string `json:"url" validate:"required,mediaurl" doc:"Playlist URL"`
}

// AnalyzeInput is the input for POST /v1/playlists/analyze
type AnalyzeInput struct {
	Body AnalyzeRequest
}

// AnalyzeOutput is the output for POST /v1/playlists/analyze
type AnalyzeOutput struct {
	Body *model.PlaylistAggregateResult
}

// TaskInput addresses one download task
type TaskInput struct {
	ID string `path:"id" doc:"Download task ID"`
}

// TaskOutput is a single download task
type TaskOutput struct {
	Body *model.DownloadTask
}

// TaskListOutput lists download tasks
type TaskListOutput struct {
	Body []*model.DownloadTask
}

func (s *Server) registerAPI(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "inspect",
		Method:      http.MethodGet,
		Path:        "/v1/inspect",
		Summary:     "Inspect a URL",
		Description: "Resolves metadata and, for a single video, its classified encodings",
		Tags:        []string{"Formats"},
	}, s.Inspect)

	huma.Register(api, huma.Operation{
		OperationID: "analyzePlaylist",
		Method:      http.MethodPost,
		Path:        "/v1/playlists/analyze",
		Summary:     "Estimate playlist download sizes",
		Description: "Sums per-tier projected sizes across every playlist member",
		Tags:        []string{"Playlists"},
	}, s.AnalyzePlaylist)

	huma.Register(api, huma.Operation{
		OperationID: "listDownloads",
		Method:      http.MethodGet,
		Path:        "/v1/downloads",
		Summary:     "List download tasks",
		Tags:        []string{"Downloads"},
	}, s.ListDownloads)

	huma.Register(api, huma.Operation{
		OperationID: "getDownload",
		Method:      http.MethodGet,
		Path:        "/v1/downloads/{id}",
		Summary:     "Get a download task",
		Tags:        []string{"Downloads"},
	}, s.GetDownload)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteDownload",
		Method:        http.MethodDelete,
		Path:          "/v1/downloads/{id}",
		Summary:       "Forget a download task",
		Description:   "Removes a finished task and any undelivered file",
		Tags:          []string{"Downloads"},
		DefaultStatus: http.StatusNoContent,
	}, s.DeleteDownload)

	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      http.MethodGet,
		Path:        "/v1/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, s.Health)
}

// Inspect resolves a URL
func (s *Server) Inspect(ctx context.Context, input *InspectInput) (*InspectOutput, error) {
	if err := validation.ValidateMediaURL(input.URL); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	meta, err := s.deps.Extractor.Metadata(ctx, input.URL)
	if err != nil {
		return nil, huma.Error502BadGateway("metadata lookup failed", err)
	}

	resp := InspectResponse{Metadata: meta, IsPlaylist: meta.IsPlaylist(), EntryCount: len(meta.Entries)}
	if !resp.IsPlaylist {
		encodings, err := s.deps.Extractor.ListEncodings(ctx, input.URL)
		if err != nil {
			return nil, huma.Error502BadGateway("format listing failed", err)
		}
		classified := sizing.Classify(encodings)
		resp.Audio, resp.Video = classified.Audio, classified.Video
	}
	return &InspectOutput{Body: resp}, nil
}

// AnalyzePlaylist runs a playlist size analysis
func (s *Server) AnalyzePlaylist(ctx context.Context, input *AnalyzeInput) (*AnalyzeOutput, error) {
	if err := validation.ValidateStruct(input.Body); err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	result, err := s.deps.Analyzer.AnalyzePlaylist(ctx, input.Body.URL)
	if err != nil {
		var metaErr *sizing.MetadataFetchError
		if errors.As(err, &metaErr) {
			return nil, huma.Error502BadGateway("playlist metadata lookup failed", err)
		}
		return nil, huma.Error500InternalServerError("playlist analysis failed", err)
	}
	return &AnalyzeOutput{Body: result}, nil
}

// ListDownloads returns every known task
func (s *Server) ListDownloads(_ context.Context, _ *struct{}) (*TaskListOutput, error) {
	return &TaskListOutput{Body: s.deps.Downloads.GetAllTasks()}, nil
}

// GetDownload returns one task
func (s *Server) GetDownload(_ context.Context, input *TaskInput) (*TaskOutput, error) {
	task, ok := s.deps.Downloads.GetTask(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("download task not found")
	}
	return &TaskOutput{Body: task}, nil
}

// DeleteDownload removes a finished task
func (s *Server) DeleteDownload(_ context.Context, input *TaskInput) (*struct{}, error) {
	err := s.deps.Downloads.RemoveTask(input.ID)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, download.ErrTaskNotFound):
		return nil, huma.Error404NotFound("download task not found")
	case errors.Is(err, download.ErrTaskActive):
		return nil, huma.Error409Conflict("download task is still running")
	default:
		return nil, huma.Error500InternalServerError("remove download task", err)
	}
}
