package download

import (
	"context"

	"github.com/ytget/ytweb/internal/model"
	"github.com/ytget/ytweb/internal/platform"
)

// Fetcher downloads one URL with a yt-dlp format selector
type Fetcher interface {
	Fetch(ctx context.Context, url, formatSelector string) (*model.FetchResult, error)
}

// ProgressFetcher is a Fetcher that can report byte progress
type ProgressFetcher interface {
	Fetcher
	FetchWithProgress(ctx context.Context, url, formatSelector string, progress platform.ProgressFunc) (*model.FetchResult, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	Download(ctx context.Context, url, selector string) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	RemoveTask(id string) error
	Open(id string) (*Delivery, error)
}
