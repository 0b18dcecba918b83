package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/progress"
)

// Runner is the part of Handler the Service drives
type Runner interface {
	GetInfo(ctx context.Context, url string) (*model.MediaInfo, error)
	BuildOptions(info *model.MediaInfo, req model.Request) (Options, error)
	Download(ctx context.Context, url string, opts Options, hook ProgressHook) (*Result, error)
}

// Retry settings
const (
	DefaultMaxRetries = 1
	DefaultRetryDelay = 2 * time.Second
)

// Service queues download tasks and runs up to maxParallel of them at once
type Service struct {
	runner      Runner
	tasks       map[string]*model.DownloadTask
	order       []string
	cancels     map[string]context.CancelFunc
	tasksMutex  sync.RWMutex
	maxParallel int
	activeCount int
	maxRetries  int
	retryDelay  time.Duration
	onUpdate    func(model.DownloadTask) // receives a snapshot on every change
	log         logger.Logger
	wg          sync.WaitGroup
}

// NewService creates a new download service
func NewService(runner Runner, maxParallel int, log logger.Logger) *Service {
	return &Service{
		runner:      runner,
		tasks:       make(map[string]*model.DownloadTask),
		cancels:     make(map[string]context.CancelFunc),
		maxParallel: config.ClampParallel(maxParallel),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		log:         log,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetMaxParallelDownloads changes the limit; running tasks are not affected
func (s *Service) SetMaxParallelDownloads(n int) {
	s.tasksMutex.Lock()
	s.maxParallel = config.ClampParallel(n)
	s.tasksMutex.Unlock()

	s.startNextPendingTask()
}

// SetRetry configures how often a failed download is retried
func (s *Service) SetRetry(maxRetries int, delay time.Duration) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.maxRetries = max(maxRetries, 0)
	s.retryDelay = delay
}

// AddTask queues a download. A URL already queued or running is rejected.
func (s *Service) AddTask(req model.Request) (model.DownloadTask, error) {
	if req.URL == "" {
		return model.DownloadTask{}, ErrEmptyURL
	}

	s.tasksMutex.Lock()

	for _, task := range s.tasks {
		if task.URL() == req.URL && !task.Status.IsFinished() {
			s.tasksMutex.Unlock()
			return model.DownloadTask{}, fmt.Errorf("task already exists for URL: %s", req.URL)
		}
	}

	task := &model.DownloadTask{
		ID:        generateTaskID(),
		Request:   req,
		Status:    model.TaskStatusPending,
		OutputDir: req.OutputDir,
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	s.wg.Add(1)

	if s.activeCount < s.maxParallel {
		s.reserve(task)
	}
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return snapshot, nil
}

// GetTask returns a snapshot of the task
func (s *Service) GetTask(id string) (model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return model.DownloadTask{}, false
	}
	return *task, true
}

// GetAllTasks returns snapshots of all tasks in the order they were added
func (s *Service) GetAllTasks() []model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, *s.tasks[id])
	}
	return tasks
}

// StopTask stops a running task or drops a pending one
func (s *Service) StopTask(id string) error {
	s.tasksMutex.Lock()

	task, exists := s.tasks[id]
	if !exists {
		s.tasksMutex.Unlock()
		return fmt.Errorf("task not found: %s", id)
	}

	switch {
	case task.Status == model.TaskStatusPending:
		task.Status = model.TaskStatusStopped
		task.FinishedAt = time.Now()
		s.wg.Done()
	case task.Status.IsActive():
		task.Status = model.TaskStatusStopping
		if cancel, ok := s.cancels[id]; ok {
			cancel()
		}
	default:
		s.tasksMutex.Unlock()
		return fmt.Errorf("task is not active: %s", task.Status)
	}
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
	return nil
}

// StopAll stops every pending and running task
func (s *Service) StopAll() {
	for _, task := range s.GetAllTasks() {
		if !task.Status.IsFinished() && task.Status != model.TaskStatusStopping {
			_ = s.StopTask(task.ID)
		}
	}
}

// Wait blocks until every queued task has finished or ctx is done
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Summary counts tasks by final status
func (s *Service) Summary() map[model.TaskStatus]int {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	counts := make(map[model.TaskStatus]int)
	for _, task := range s.tasks {
		counts[task.Status]++
	}
	return counts
}

// reserve takes a parallel slot and starts the task. Caller holds tasksMutex.
func (s *Service) reserve(task *model.DownloadTask) {
	s.activeCount++
	task.Status = model.TaskStatusStarting
	task.StartedAt = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[task.ID] = cancel
	go s.startTask(ctx, task)
}

// startTask downloads a task
func (s *Service) startTask(ctx context.Context, task *model.DownloadTask) {
	s.tasksMutex.RLock()
	req := task.Request
	s.tasksMutex.RUnlock()

	log := s.log.WithFields(logger.Fields{"task": task.ID, "url": req.URL})

	defer func() {
		s.tasksMutex.Lock()
		s.activeCount--
		if cancel, ok := s.cancels[task.ID]; ok {
			cancel()
			delete(s.cancels, task.ID)
		}
		s.tasksMutex.Unlock()

		s.wg.Done()
		// Try to start next pending task
		s.startNextPendingTask()
	}()

	info, err := s.runner.GetInfo(ctx, req.URL)
	if err != nil {
		s.finish(ctx, task, nil, err)
		return
	}

	opts, err := s.runner.BuildOptions(info, req)
	if err != nil {
		s.finish(ctx, task, nil, err)
		return
	}

	count := 0
	if info.IsPlaylist {
		count = max(info.EntryCount(), 0)
	}

	s.update(task, func(t *model.DownloadTask) {
		if t.Status != model.TaskStatusStopping {
			t.Status = model.TaskStatusDownloading
		}
		t.Title = info.Title
		t.ItemCount = count
	})

	adapter := progress.NewAdapter(count)
	hook := func(update ytdlp.ProgressUpdate) {
		s.updateTaskProgress(task, adapter.Handle(update))
	}

	result, err := s.downloadWithRetry(ctx, req.URL, opts, hook, log)
	s.finish(ctx, task, result, err)
}

// downloadWithRetry attempts download with retry logic
func (s *Service) downloadWithRetry(ctx context.Context, url string, opts Options, hook ProgressHook, log logger.Logger) (*Result, error) {
	s.tasksMutex.RLock()
	maxRetries, delay := s.maxRetries, s.retryDelay
	s.tasksMutex.RUnlock()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ErrCancelled
			}

			log.WithField("attempt", attempt+1).Info("Retrying download")
		}

		res, err := s.runner.Download(ctx, url, opts, hook)
		if err == nil {
			return res, nil
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt+1).Warn("Download attempt failed")

		if errors.Is(err, ErrCancelled) || ctx.Err() != nil {
			return nil, ErrCancelled
		}
	}

	return nil, lastErr
}

func (s *Service) finish(ctx context.Context, task *model.DownloadTask, result *Result, err error) {
	s.update(task, func(t *model.DownloadTask) {
		switch {
		case errors.Is(err, ErrCancelled) || ctx.Err() != nil:
			t.Status = model.TaskStatusStopped
		case err != nil:
			t.Status = model.TaskStatusError
			t.LastError = err.Error()
		default:
			t.Status = model.TaskStatusCompleted
			t.Progress = 1.0
			t.Percent = 100
			if result != nil {
				if result.Title != "" && t.Title == "" {
					t.Title = result.Title
				}
				if n := len(result.Folders); n > 0 {
					t.OutputPath = result.Folders[n-1]
				}
				if result.Partial {
					t.Note = result.Message
				}
			}
		}
		t.FinishedAt = time.Now()
	})
}

// updateTaskProgress copies a progress snapshot onto the task
func (s *Service) updateTaskProgress(task *model.DownloadTask, p model.Progress) {
	s.update(task, func(t *model.DownloadTask) {
		if t.Status == model.TaskStatusStopping || t.Status.IsFinished() {
			return
		}

		switch p.Phase {
		case model.PhaseFinished:
			t.Status = model.TaskStatusProcessing
		case model.PhaseDownloading:
			t.Status = model.TaskStatusDownloading
		}

		t.Percent = p.Percent
		t.Progress = float64(p.Percent) / 100.0
		if t.Title == "" && p.Title != "" {
			t.Title = p.Title
		}
		if p.Filename != "" {
			t.OutputPath = filepath.Dir(p.Filename)
		}
		if p.InPlaylist() {
			t.ItemIndex = p.PlaylistIndex
			t.ItemCount = p.PlaylistCount
		}
	})
}

// update mutates the task under the lock and notifies with a snapshot
func (s *Service) update(task *model.DownloadTask, fn func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	fn(task)
	snapshot := *task
	s.tasksMutex.Unlock()

	s.notifyUpdate(snapshot)
}

// startNextPendingTask starts pending tasks while we have capacity
func (s *Service) startNextPendingTask() {
	s.tasksMutex.Lock()
	var started []model.DownloadTask
	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			break
		}
		if task := s.tasks[id]; task.Status == model.TaskStatusPending {
			s.reserve(task)
			started = append(started, *task)
		}
	}
	s.tasksMutex.Unlock()

	for _, snapshot := range started {
		s.notifyUpdate(snapshot)
	}
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(task)
	}
}

// generateTaskID generates a unique, time ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "task-" + id.String()
}
