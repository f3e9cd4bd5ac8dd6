// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskRepository is the SQLite-backed implementation of [TaskRepository].
type taskRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewTaskRepository constructs a [TaskRepository] on top of db.
func NewTaskRepository(db *DB, log *logger.Logger) TaskRepository {
	log.Debug().Msg("creating task repository")
	return &taskRepository{db: db, logger: log}
}

func (r *taskRepository) CreateTask(ctx context.Context, task models.TaskRecord) (models.TaskRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertTaskQuery(task)
	if err != nil {
		return models.TaskRecord{}, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.CreateTask").Str("user_id", task.UserID).Msg("failed to insert task")
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if task.ID, err = res.LastInsertId(); err != nil {
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return task, nil
}

func (r *taskRepository) GetTask(ctx context.Context, id int64) (models.TaskRecord, error) {
	query, args, err := buildGetTaskQuery(id)
	if err != nil {
		return models.TaskRecord{}, err
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TaskRecord{}, ErrTaskNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*taskRepository.GetTask").Int64("task_id", id).Msg("failed to scan task")
		return models.TaskRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return task, nil
}

func (r *taskRepository) ListTasks(ctx context.Context, q models.TaskQuery) ([]models.TaskRecord, int, error) {
	log := logger.FromContext(ctx)

	countQuery, countArgs, err := buildCountTasksQuery(q)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err = r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Str("user_id", q.UserID).Msg("failed to count tasks")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	query, args, err := buildListTasksQuery(q)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*taskRepository.ListTasks").Str("user_id", q.UserID).Msg("failed to query tasks")
		return nil, 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.TaskRecord, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*taskRepository.ListTasks").Msg("failed to scan task row")
			return nil, 0, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tasks, total, nil
}

func (r *taskRepository) UpdateTask(ctx context.Context, id int64, patch models.TaskRecordPatch, updatedAt time.Time) error {
	query, args, err := buildUpdateTaskQuery(id, patch, updatedAt)
	if err != nil {
		return err
	}
	return r.execAffectingOne(ctx, "*taskRepository.UpdateTask", id, query, args)
}

func (r *taskRepository) DeleteTask(ctx context.Context, id int64) error {
	query, args, err := buildDeleteTaskQuery(id)
	if err != nil {
		return err
	}
	return r.execAffectingOne(ctx, "*taskRepository.DeleteTask", id, query, args)
}

// execAffectingOne runs a statement keyed by task id and maps "no row
// touched" to [ErrTaskNotFound].
func (r *taskRepository) execAffectingOne(ctx context.Context, fn string, id int64, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", fn).Int64("task_id", id).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
