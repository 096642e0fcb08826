package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

const (
	// listAttempts bounds the retry loop on the cached read.
	listAttempts = 3
	retryBackoff = 250 * time.Millisecond
)

// TaskService is the authoritative local view of the user's tasks.
// Mutations never merge results locally: each fires the request, then
// re-synchronizes the whole snapshot from the server. There is never a
// window where the cache reflects a value the server rejected.
type TaskService struct {
	gateway  ports.Gateway
	notifier ports.Notifier

	mu      sync.RWMutex
	cache   []domain.Task
	valid   bool
	loading bool
}

func NewTaskService(gateway ports.Gateway, notifier ports.Notifier) *TaskService {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}

	return &TaskService{
		gateway:  gateway,
		notifier: notifier,
	}
}

// Tasks returns the cached snapshot, fetching from the server when the
// cache is stale. Transport failures are retried a bounded number of
// times; on persistent failure the last known snapshot is returned
// alongside the error, never an emptied cache.
func (s *TaskService) Tasks(ctx context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	if s.valid {
		snapshot := copyTasks(s.cache)
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	tasks, err := s.fetchWithRetry(ctx)
	if err != nil {
		s.report(OpLoad, err)
		s.mu.RLock()
		snapshot := copyTasks(s.cache)
		s.mu.RUnlock()
		return snapshot, fmt.Errorf("load tasks: %w", err)
	}

	s.mu.Lock()
	s.cache = tasks
	s.valid = true
	s.mu.Unlock()

	return copyTasks(tasks), nil
}

// Create issues a new task. A blank title never reaches the network.
func (s *TaskService) Create(ctx context.Context, title string, description *string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		err := &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		s.report(OpCreate, err)
		return err
	}

	draft := domain.TaskDraft{Title: title, Description: description}
	if _, err := s.gateway.Request(ctx, http.MethodPost, "/tasks", draft); err != nil {
		s.report(OpCreate, err)
		return fmt.Errorf("create task: %w", err)
	}

	s.settle(ctx, OpCreate)
	return nil
}

// Update applies partial fields to an existing task. Existence is the
// server's call; the client only rejects malformed input.
func (s *TaskService) Update(ctx context.Context, id domain.TaskID, patch domain.TaskPatch) error {
	if err := s.validateID(OpUpdate, id); err != nil {
		return err
	}
	if patch.Empty() {
		err := &domain.ValidationError{Field: "fields", Reason: "nothing to update"}
		s.report(OpUpdate, err)
		return err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		err := &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		s.report(OpUpdate, err)
		return err
	}

	endpoint := "/tasks/" + url.PathEscape(string(id))
	if _, err := s.gateway.Request(ctx, http.MethodPut, endpoint, patch); err != nil {
		s.report(OpUpdate, err)
		return fmt.Errorf("update task: %w", err)
	}

	s.settle(ctx, OpUpdate)
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id domain.TaskID) error {
	if err := s.validateID(OpDelete, id); err != nil {
		return err
	}

	endpoint := "/tasks/" + url.PathEscape(string(id))
	if _, err := s.gateway.Request(ctx, http.MethodDelete, endpoint, nil); err != nil {
		s.report(OpDelete, err)
		return fmt.Errorf("delete task: %w", err)
	}

	s.settle(ctx, OpDelete)
	return nil
}

// ToggleCompletion flips completed state via the dedicated endpoint.
func (s *TaskService) ToggleCompletion(ctx context.Context, id domain.TaskID) error {
	if err := s.validateID(OpToggle, id); err != nil {
		return err
	}

	endpoint := "/tasks/" + url.PathEscape(string(id)) + "/complete"
	if _, err := s.gateway.Request(ctx, http.MethodPatch, endpoint, nil); err != nil {
		s.report(OpToggle, err)
		return fmt.Errorf("update task status: %w", err)
	}

	s.settle(ctx, OpToggle)
	return nil
}

// Invalidate marks the snapshot stale; the next read refetches.
func (s *TaskService) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

// Loading reports whether a fetch is currently in flight.
func (s *TaskService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// settle runs the invalidate-and-refetch cycle after a successful
// mutation: exactly one refresh attempt before the operation is
// considered settled. If that refresh fails the mutation still counts;
// the cache stays stale and the next read retries.
func (s *TaskService) settle(ctx context.Context, op Op) {
	s.Invalidate()

	if tasks, err := s.fetch(ctx); err == nil {
		s.mu.Lock()
		s.cache = tasks
		s.valid = true
		s.mu.Unlock()
	}

	s.notifier.Notify(ports.NoticeSuccess, op.successNotice())
}

func (s *TaskService) fetchWithRetry(ctx context.Context) ([]domain.Task, error) {
	var lastErr error
	for attempt := 1; attempt <= listAttempts; attempt++ {
		tasks, err := s.fetch(ctx)
		if err == nil {
			return tasks, nil
		}
		lastErr = err

		// Only transport failures are worth retrying.
		if !domain.IsNetwork(err) {
			return nil, err
		}
		if attempt == listAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	return nil, lastErr
}

func (s *TaskService) fetch(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	raw, err := s.gateway.Request(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []domain.Task{}, nil
	}

	var tasks []domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}

	return tasks, nil
}

func (s *TaskService) validateID(op Op, id domain.TaskID) error {
	if strings.TrimSpace(string(id)) == "" {
		err := &domain.ValidationError{Field: "id", Reason: "must not be empty"}
		s.report(op, err)
		return err
	}

	return nil
}

// report surfaces a failure notice unless the gateway's forced
// sign-out already spoke for this error.
func (s *TaskService) report(op Op, err error) {
	if apiErr, ok := domain.AsAPIError(err); ok && apiErr.IsAuth() {
		return
	}
	s.notifier.Notify(ports.NoticeError, Describe(op, err))
}

func copyTasks(tasks []domain.Task) []domain.Task {
	snapshot := make([]domain.Task, len(tasks))
	copy(snapshot, tasks)
	return snapshot
}
