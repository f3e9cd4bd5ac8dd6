// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestRefreshJob wires the job to mocks that count refreshes.
func newTestRefreshJob(t *testing.T, ctrl *gomock.Controller, session models.Session, pending bool) (ClientRefreshJob, *atomic.Int64) {
	t.Helper()
	tasks := mock.NewMockClientTaskService(ctrl)
	sessionStore := mock.NewMockClientSessionStore(ctrl)

	var calls atomic.Int64
	sessionStore.EXPECT().Current().Return(session).AnyTimes()
	tasks.EXPECT().HasPending().Return(pending).AnyTimes()
	tasks.EXPECT().Filter().Return(models.TaskStatusPending).AnyTimes()
	tasks.EXPECT().Refresh(gomock.Any(), models.TaskStatusPending).DoAndReturn(
		func(_ context.Context, _ models.TaskStatusFilter) error {
			calls.Add(1)
			return nil
		},
	).AnyTimes()

	return NewClientRefreshJob(tasks, sessionStore, logger.Nop()), &calls
}

func TestClientRefreshJob_RefreshesOnTicks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, signedIn, false)

	// 10ms interval: about five ticks in 55ms
	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestClientRefreshJob_StopStopsGoroutine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, signedIn, false)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	afterStop := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, afterStop, calls.Load())
}

func TestClientRefreshJob_SkipsWhenAnonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, models.AnonymousSession(), false)

	job.Start(context.Background(), 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Zero(t, calls.Load())
}

func TestClientRefreshJob_SkipsWhileMutationInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, signedIn, true)

	job.Start(context.Background(), 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Zero(t, calls.Load())
}

func TestClientRefreshJob_ZeroIntervalDisables(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, signedIn, false)

	job.Start(context.Background(), 0)
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	assert.Zero(t, calls.Load())
}

func TestClientRefreshJob_ContextCancelStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, calls := newTestRefreshJob(t, ctrl, signedIn, false)
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	afterCancel := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, afterCancel, calls.Load())
	assert.NotPanics(t, job.Stop)
}

func TestClientRefreshJob_StopBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	job, _ := newTestRefreshJob(t, ctrl, signedIn, false)
	assert.NotPanics(t, job.Stop)
}

func TestRefreshIfIdle_LogsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tasks := mock.NewMockClientTaskService(ctrl)
	tasks.EXPECT().HasPending().Return(false)
	tasks.EXPECT().Filter().Return(models.TaskStatusAll)
	tasks.EXPECT().Refresh(gomock.Any(), models.TaskStatusAll).Return(errors.New("offline"))

	require.NotPanics(t, func() { refreshIfIdle(context.Background(), tasks, logger.Nop()) })
}
