// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

type clientRefreshJob struct {
	tasks   ClientTaskService
	session ClientSessionStore

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientRefreshJob creates a job that refreshes tasks on a ticker while
// the session is Authenticated. The job is idle until Start is called.
func NewClientRefreshJob(tasks ClientTaskService, session ClientSessionStore, log *logger.Logger) ClientRefreshJob {
	return &clientRefreshJob{tasks: tasks, session: session, logger: log}
}

// Start implements ClientRefreshJob. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *clientRefreshJob) Start(ctx context.Context, interval time.Duration) {
	j.Stop()
	if interval <= 0 {
		j.logger.Debug().Str("func", "clientRefreshJob.Start").Msg("background refresh disabled")
		return
	}

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if j.session.Current().IsAuthenticated() {
					refreshIfIdle(jobCtx, j.tasks, j.logger)
				}
			}
		}
	}()
}

// Stop implements ClientRefreshJob. Safe to call when the job is not running.
func (j *clientRefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// refreshIfIdle refreshes the task cache unless a mutation is in flight, in
// which case the refresh would discard its optimistic state.
func refreshIfIdle(ctx context.Context, tasks ClientTaskService, log *logger.Logger) {
	if tasks.HasPending() {
		log.Debug().Str("func", "refreshIfIdle").Msg("mutation in flight, refresh skipped")
		return
	}
	if err := tasks.Refresh(ctx, tasks.Filter()); err != nil {
		log.Warn().Err(err).Str("func", "refreshIfIdle").Msg("background refresh failed")
	}
}

// TaskChangeFunc adapts a function to [TaskChangeListener].
type TaskChangeFunc func(ctx context.Context)

func (f TaskChangeFunc) TasksChanged(ctx context.Context) {
	f(ctx)
}
