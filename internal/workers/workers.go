// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/service"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// NewClientWorkers builds the background jobs of the terminal client.
func NewClientWorkers(services *service.ClientServices, cfg config.Workers) *Workers {
	return NewWorkers(NewRefreshWorker(services.RefreshJob, cfg.RefreshInterval))
}

// Start starts every worker in registration order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops the workers in reverse order.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}

// refreshWorker binds the task refresh job to its configured interval.
type refreshWorker struct {
	job      service.ClientRefreshJob
	interval time.Duration
}

func NewRefreshWorker(job service.ClientRefreshJob, interval time.Duration) Worker {
	return &refreshWorker{job: job, interval: interval}
}

func (r *refreshWorker) Start(ctx context.Context) {
	r.job.Start(ctx, r.interval)
}

func (r *refreshWorker) Stop() {
	r.job.Stop()
}
