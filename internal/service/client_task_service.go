// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// refreshPageSize is the page size used when walking the server listing.
const refreshPageSize = 100

type clientTaskService struct {
	adapter adapter.ServerAdapter
	session ClientSessionStore
	locks   *keyedMutex
	ids     *utils.UUIDGenerator
	now     func() time.Time

	mu        sync.Mutex
	tasks     []models.Task
	filter    models.TaskStatusFilter
	inflight  int
	listeners []func()

	logger *logger.Logger
}

// NewClientTaskService returns a [ClientTaskService] with an empty cache.
// Call Refresh to populate it. Every operation that reaches the server
// fails with ErrAuthRequired while session is Anonymous.
func NewClientTaskService(serverAdapter adapter.ServerAdapter, session ClientSessionStore, log *logger.Logger) ClientTaskService {
	return &clientTaskService{
		adapter: serverAdapter,
		session: session,
		locks:   newKeyedMutex(),
		ids:     utils.NewUUIDGenerator(),
		now:     time.Now,
		filter:  models.TaskStatusAll,
		logger:  log,
	}
}

// Create validates draft locally, prepends a provisional task and replaces it
// with the server copy once acknowledged. A rejected create removes the
// provisional entry.
func (s *clientTaskService) Create(ctx context.Context, draft models.TaskDraft) (models.Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: %s", ErrValidation, app.MsgTaskTitleRequired)
	}
	priority := draft.Priority
	if priority == "" {
		priority = models.DefaultPriority
	}
	if _, err := models.ParsePriority(string(priority)); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.requireSession(); err != nil {
		return models.Task{}, err
	}

	now := s.now().UTC()
	provisional := models.Task{
		ID:          provisionalPrefix + s.ids.Generate(),
		Title:       title,
		Description: cloneString(draft.Description),
		Priority:    priority,
		DueDate:     draft.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		SyncState:   models.PendingCreate,
	}

	unlock := s.locks.Lock(provisional.ID)
	defer unlock()

	s.mu.Lock()
	s.tasks = append([]models.Task{provisional}, s.tasks...)
	s.inflight++
	s.mu.Unlock()
	s.notify()

	wire, err := s.adapter.CreateTask(ctx, toCreateRequest(provisional))
	var created models.Task
	if err == nil {
		created, err = fromWire(wire)
	}

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.removeLocked(provisional.ID)
		s.mu.Unlock()
		s.notify()

		s.logger.Warn().Err(err).Str("func", "clientTaskService.Create").Str("task_id", provisional.ID).Msg("create rejected, provisional task removed")
		return models.Task{}, &MutationError{TaskID: provisional.ID, Op: OpCreate, Err: err}
	}
	s.replaceLocked(provisional.ID, created, true)
	s.mu.Unlock()
	s.notify()

	s.logger.Debug().Str("func", "clientTaskService.Create").Str("task_id", created.ID).Msg("task created")
	return created, nil
}

// Update applies patch optimistically and reconciles with the full task
// returned by the server.
func (s *clientTaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Task{}, fmt.Errorf("%w: %s", ErrValidation, app.MsgTaskTitleRequired)
		}
		patch.Title = &title
	}
	if patch.Priority != nil {
		if _, err := models.ParsePriority(string(*patch.Priority)); err != nil {
			return models.Task{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	if err := s.requireSession(); err != nil {
		return models.Task{}, err
	}

	if patch.IsEmpty() {
		unlock := s.locks.Lock(id)
		defer unlock()

		s.mu.Lock()
		defer s.mu.Unlock()
		if idx := s.indexLocked(id); idx >= 0 {
			return s.tasks[idx], nil
		}
		return models.Task{}, ErrNotFound
	}

	return s.mutate(ctx, id, OpUpdate,
		patch.Apply,
		func(ctx context.Context) (models.WireTask, error) {
			return s.adapter.UpdateTask(ctx, id, toUpdateRequest(patch))
		},
	)
}

// ToggleCompletion flips IsCompleted. Each toggle observes the committed
// result of the previous one on the same id.
func (s *clientTaskService) ToggleCompletion(ctx context.Context, id string) (models.Task, error) {
	return s.mutate(ctx, id, OpToggle,
		func(t models.Task) models.Task {
			t.IsCompleted = !t.IsCompleted
			return t
		},
		func(ctx context.Context) (models.WireTask, error) {
			return s.adapter.ToggleTask(ctx, id)
		},
	)
}

// mutate runs the optimistic update protocol for an existing task: snapshot,
// apply, send, then either reconcile or restore the snapshot.
func (s *clientTaskService) mutate(
	ctx context.Context,
	id, op string,
	apply func(models.Task) models.Task,
	send func(context.Context) (models.WireTask, error),
) (models.Task, error) {
	if err := s.requireSession(); err != nil {
		return models.Task{}, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Task{}, ErrNotFound
	}
	snapshot := s.tasks[idx]
	optimistic := apply(snapshot)
	optimistic.SyncState = models.PendingUpdate
	s.tasks[idx] = optimistic
	s.inflight++
	s.mu.Unlock()
	s.notify()

	wire, err := send(ctx)
	var acked models.Task
	if err == nil {
		acked, err = fromWire(wire)
	}

	s.mu.Lock()
	s.inflight--
	if err != nil {
		// a refresh may have replaced the entry meanwhile; only roll back our own
		if i := s.indexLocked(id); i >= 0 && s.tasks[i].SyncState == models.PendingUpdate {
			restored := snapshot
			restored.SyncState = models.Failed
			s.tasks[i] = restored
		}
		s.mu.Unlock()
		s.notify()

		s.logger.Warn().Err(err).Str("func", "clientTaskService.mutate").Str("op", op).Str("task_id", id).Msg("mutation rejected, snapshot restored")
		return models.Task{}, &MutationError{TaskID: id, Op: op, Err: err}
	}
	s.replaceLocked(id, acked, false)
	s.mu.Unlock()
	s.notify()

	s.logger.Debug().Str("func", "clientTaskService.mutate").Str("op", op).Str("task_id", id).Msg("mutation acknowledged")
	return acked, nil
}

// Remove hides the task until the server acknowledges the deletion. A
// rejected delete puts the task back at its original position.
func (s *clientTaskService) Remove(ctx context.Context, id string) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	snapshot := s.tasks[idx]
	s.tasks[idx].SyncState = models.PendingDelete
	s.inflight++
	s.mu.Unlock()
	s.notify()

	err := s.adapter.DeleteTask(ctx, id)

	s.mu.Lock()
	s.inflight--
	if err != nil {
		restored := snapshot
		restored.SyncState = models.Failed
		if i := s.indexLocked(id); i >= 0 {
			s.tasks[i] = restored
		} else {
			s.insertLocked(min(idx, len(s.tasks)), restored)
		}
		s.mu.Unlock()
		s.notify()

		s.logger.Warn().Err(err).Str("func", "clientTaskService.Remove").Str("task_id", id).Msg("delete rejected, task restored")
		return &MutationError{TaskID: id, Op: OpRemove, Err: err}
	}
	s.removeLocked(id)
	s.mu.Unlock()
	s.notify()

	s.logger.Debug().Str("func", "clientTaskService.Remove").Str("task_id", id).Msg("task removed")
	return nil
}

// Get fetches the task from the server. A task the server no longer knows is
// dropped from the cache.
func (s *clientTaskService) Get(ctx context.Context, id string) (models.Task, error) {
	if err := s.requireSession(); err != nil {
		return models.Task{}, err
	}
	if id == "" || isProvisional(id) {
		return models.Task{}, ErrNotFound
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	wire, err := s.adapter.GetTask(ctx, id)
	if err == nil {
		var task models.Task
		if task, err = fromWire(wire); err == nil {
			s.mu.Lock()
			if s.indexLocked(task.ID) >= 0 {
				s.replaceLocked(task.ID, task, false)
			} else {
				s.tasks = append(s.tasks, task)
			}
			s.mu.Unlock()
			s.notify()
			return task, nil
		}
	}

	if isRemoteNotFound(err) {
		s.mu.Lock()
		removed := s.removeLocked(id)
		s.mu.Unlock()
		if removed {
			s.notify()
		}
	}
	return models.Task{}, err
}

func (s *clientTaskService) List() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.SyncState != models.PendingDelete {
			out = append(out, t)
		}
	}
	return out
}

// Refresh walks the server listing page by page and swaps the cache in one
// step. On failure the cache is left as it was.
func (s *clientTaskService) Refresh(ctx context.Context, filter models.TaskStatusFilter) error {
	if filter == "" {
		filter = models.TaskStatusAll
	}
	if err := s.requireSession(); err != nil {
		return err
	}
	log := s.logger.With().Str("func", "clientTaskService.Refresh").Str("filter", string(filter)).Logger()

	var fresh []models.Task
	seen := make(map[string]struct{})
	offset := 0
	for {
		page, err := s.adapter.ListTasks(ctx, models.ListTasksRequest{Status: filter, Limit: refreshPageSize, Offset: offset})
		if err != nil {
			log.Warn().Err(err).Msg("refresh failed, cache kept")
			return err
		}

		for _, w := range page.Tasks {
			task, err := fromWire(w)
			if err != nil {
				log.Warn().Err(err).Str("task_id", string(w.ID)).Msg("skipping malformed task")
				continue
			}
			if _, dup := seen[task.ID]; dup {
				continue
			}
			seen[task.ID] = struct{}{}
			fresh = append(fresh, task)
		}

		offset += len(page.Tasks)
		if len(page.Tasks) == 0 || offset >= page.Total {
			break
		}
	}

	s.mu.Lock()
	s.tasks = fresh
	s.filter = filter
	s.mu.Unlock()
	s.notify()

	log.Debug().Int("count", len(fresh)).Msg("cache refreshed")
	return nil
}

func (s *clientTaskService) Filter() models.TaskStatusFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *clientTaskService) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *clientTaskService) Reset() {
	s.mu.Lock()
	s.tasks = nil
	s.filter = models.TaskStatusAll
	s.mu.Unlock()
	s.notify()
}

func (s *clientTaskService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *clientTaskService) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// requireSession rejects work that would reach the server while Anonymous.
func (s *clientTaskService) requireSession() error {
	if !s.session.Current().IsAuthenticated() {
		return ErrAuthRequired
	}
	return nil
}

func (s *clientTaskService) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *clientTaskService) removeLocked(id string) bool {
	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return true
}

func (s *clientTaskService) insertLocked(idx int, t models.Task) {
	s.tasks = append(s.tasks, models.Task{})
	copy(s.tasks[idx+1:], s.tasks[idx:])
	s.tasks[idx] = t
}

// replaceLocked puts task in place of the entry with oldID, keeping one entry
// per id. When oldID is gone the task is prepended only if prepend is set.
func (s *clientTaskService) replaceLocked(oldID string, task models.Task, prepend bool) {
	idx := s.indexLocked(oldID)
	if existing := s.indexLocked(task.ID); existing >= 0 && existing != idx {
		s.tasks[existing] = task
		if idx >= 0 {
			s.removeLocked(oldID)
		}
		return
	}

	switch {
	case idx >= 0:
		s.tasks[idx] = task
	case prepend:
		s.tasks = append([]models.Task{task}, s.tasks...)
	}
}

func isRemoteNotFound(err error) bool {
	return err != nil && errors.Is(err, adapter.ErrNotFound)
}
