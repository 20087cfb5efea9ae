package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/ytweb/internal/logging"
	"github.com/ytget/ytweb/internal/metrics"
	"github.com/ytget/ytweb/internal/model"
)

// Parallelism bounds
const (
	MinParallel     = 1
	MaxParallel     = 10
	DefaultParallel = 2
)

// Retry defaults
const (
	DefaultMaxRetries = 1
	DefaultRetryDelay = 2 * time.Second
)

// Errors
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTaskActive     = errors.New("task is still running")
	ErrNotDeliverable = errors.New("task has no file to deliver")
)

// Service handles download operations
type Service struct {
	fetcher    Fetcher
	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex
	slots      chan struct{}
	maxRetries int
	retryDelay time.Duration
	onUpdate   func(*model.DownloadTask) // receives snapshots, never the live task
}

// NewService creates a new download service. maxParallel is clamped to
// MinParallel..MaxParallel.
func NewService(fetcher Fetcher, maxParallel int) *Service {
	return &Service{
		fetcher:    fetcher,
		tasks:      make(map[string]*model.DownloadTask),
		slots:      make(chan struct{}, ClampParallel(maxParallel)),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// ClampParallel bounds a parallelism setting
func ClampParallel(n int) int {
	return max(MinParallel, min(n, MaxParallel))
}

// SetRetryPolicy overrides the retry count and backoff delay
func (s *Service) SetRetryPolicy(maxRetries int, delay time.Duration) {
	s.maxRetries = max(0, maxRetries)
	s.retryDelay = delay
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// MaxParallel returns the parallel fetch cap
func (s *Service) MaxParallel() int {
	return cap(s.slots)
}

// Download fetches url with selector and blocks until the file is on disk or
// the fetch failed. The returned task is a snapshot; on failure it carries
// LastError and the error is returned as well.
func (s *Service) Download(ctx context.Context, url, selector string) (*model.DownloadTask, error) {
	if url == "" || selector == "" {
		return nil, fmt.Errorf("url and selector are required")
	}

	task := &model.DownloadTask{
		ID:        uuid.New().String(),
		URL:       url,
		Selector:  selector,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}
	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	log := logging.Ctx(ctx).With().Str("task_id", task.ID).Str("url", url).Logger()

	// Wait for a free slot
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		s.finish(task, nil, ctx.Err())
		return s.snapshot(task), ctx.Err()
	}
	defer func() { <-s.slots }()

	metrics.DownloadsActive.Inc()
	defer metrics.DownloadsActive.Dec()

	s.setStatus(task, model.TaskStatusDownloading)
	log.Info().Str("selector", selector).Msg("download started")

	result, err := s.fetchWithRetry(ctx, task)
	s.finish(task, result, err)
	metrics.DownloadsTotal.WithLabelValues(metrics.Outcome(err)).Inc()

	if err != nil {
		log.Error().Err(err).Msg("download failed")
		return s.snapshot(task), err
	}
	log.Info().Str("path", result.LocalPath).Dur("elapsed", time.Since(task.StartedAt)).Msg("download finished")
	return s.snapshot(task), nil
}

// fetchWithRetry attempts the fetch with retry logic
func (s *Service) fetchWithRetry(ctx context.Context, task *model.DownloadTask) (*model.FetchResult, error) {
	log := logging.Ctx(ctx)
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Info().Str("task_id", task.ID).Int("attempt", attempt+1).Msg("retrying download")
		}

		res, err := s.fetch(ctx, task)
		if err == nil {
			return res, nil
		}

		lastErr = err
		log.Warn().Err(err).Str("task_id", task.ID).Int("attempt", attempt+1).Msg("download attempt failed")

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

func (s *Service) fetch(ctx context.Context, task *model.DownloadTask) (*model.FetchResult, error) {
	if pf, ok := s.fetcher.(ProgressFetcher); ok {
		return pf.FetchWithProgress(ctx, task.URL, task.Selector, func(downloaded, total int64) {
			s.updateProgress(task, downloaded, total)
		})
	}
	return s.fetcher.Fetch(ctx, task.URL, task.Selector)
}

// updateProgress updates task progress from byte counts
func (s *Service) updateProgress(task *model.DownloadTask, downloaded, total int64) {
	if total <= 0 {
		return
	}
	s.tasksMutex.Lock()
	task.Percent = int(min(100, downloaded*100/total))
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// finish records the final state of a fetch
func (s *Service) finish(task *model.DownloadTask, result *model.FetchResult, err error) {
	s.tasksMutex.Lock()
	task.FinishedAt = time.Now()
	if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	} else {
		task.Status = model.TaskStatusCompleted
		task.Percent = 100
		if result != nil {
			task.Title = result.Title
			task.Duration = result.Duration
			task.Container = result.Container
			task.OutputPath = result.LocalPath
			if st, serr := os.Stat(result.LocalPath); serr == nil {
				task.FileSize = st.Size()
			}
		}
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// GetTask returns a snapshot of a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	cp := *task
	return &cp, true
}

// GetAllTasks returns snapshots of all tasks, oldest first
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		cp := *task
		tasks = append(tasks, &cp)
	}
	s.tasksMutex.RUnlock()

	slices.SortFunc(tasks, func(a, b *model.DownloadTask) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return tasks
}

// RemoveTask forgets a finished task and deletes any file it left behind
func (s *Service) RemoveTask(id string) error {
	s.tasksMutex.Lock()
	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Status.IsActive() {
		s.tasksMutex.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskActive, id)
	}
	delete(s.tasks, id)
	path := task.OutputPath
	status := task.Status
	s.tasksMutex.Unlock()

	if status == model.TaskStatusCompleted && path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove file for task %s: %w", id, err)
		}
	}
	return nil
}

// Open hands out a completed task's file. Closing the delivery deletes the
// file and marks the task Delivered.
func (s *Service) Open(id string) (*Delivery, error) {
	s.tasksMutex.RLock()
	task, exists := s.tasks[id]
	var path, container string
	var status model.TaskStatus
	if exists {
		path, container, status = task.OutputPath, task.Container, task.Status
	}
	s.tasksMutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if status != model.TaskStatusCompleted || path == "" {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotDeliverable, id, status)
	}

	return OpenDelivery(path, container, func(err error) {
		s.tasksMutex.Lock()
		if err != nil {
			task.LastError = err.Error()
		}
		task.Status = model.TaskStatusDelivered
		task.OutputPath = ""
		s.tasksMutex.Unlock()
		s.notifyUpdate(task)
	})
}

func (s *Service) snapshot(task *model.DownloadTask) *model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	cp := *task
	return &cp
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(s.snapshot(task))
	}
}

var _ Downloader = (*Service)(nil)
