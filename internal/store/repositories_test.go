// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

func newTestStorages(t *testing.T) *Storages {
	t.Helper()
	storages, err := NewStorages(context.Background(), filepath.Join(t.TempDir(), "devserver.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { storages.Close() })
	return storages
}

func seedAccount(t *testing.T, s *Storages, id, email string) models.Account {
	t.Helper()
	account, err := s.UserRepository.CreateUser(context.Background(), models.Account{
		ID: id, Email: email, PasswordHash: "hash", CreatedAt: queryTime, UpdatedAt: queryTime,
	})
	require.NoError(t, err)
	return account
}

// ── users ───────────────────────────────────────────────────────────────────

func TestUserRepository_CreateAndFind(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	seedAccount(t, s, "u1", "a@b.com")

	found, err := s.UserRepository.FindUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	assert.Equal(t, "hash", found.PasswordHash)
	assert.True(t, found.CreatedAt.Equal(queryTime))

	_, err = s.UserRepository.FindUserByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	s := newTestStorages(t)
	seedAccount(t, s, "u1", "a@b.com")

	_, err := s.UserRepository.CreateUser(context.Background(), models.Account{
		ID: "u2", Email: "a@b.com", PasswordHash: "x", CreatedAt: queryTime, UpdatedAt: queryTime,
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestUserRepository_ExecError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewUserRepository(&DB{DB: conn, logger: logger.Nop()}, logger.Nop())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(errors.New("disk full"))

	_, err = repo.CreateUser(context.Background(), models.Account{ID: "u1", Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── tasks ───────────────────────────────────────────────────────────────────

func TestTaskRepository_Lifecycle(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	seedAccount(t, s, "u1", "a@b.com")

	desc := "2 litres"
	created, err := s.TaskRepository.CreateTask(ctx, models.TaskRecord{
		UserID: "u1", Title: "Buy milk", Description: &desc, Priority: "low",
		CreatedAt: queryTime, UpdatedAt: queryTime,
	})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	got, err := s.TaskRepository.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "2 litres", *got.Description)
	assert.False(t, got.IsCompleted)
	assert.Nil(t, got.DueDate)

	done := true
	later := queryTime.Add(time.Minute)
	require.NoError(t, s.TaskRepository.UpdateTask(ctx, created.ID, models.TaskRecordPatch{IsCompleted: &done}, later))

	got, err = s.TaskRepository.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.Equal(t, "Buy milk", got.Title)

	require.NoError(t, s.TaskRepository.DeleteTask(ctx, created.ID))
	_, err = s.TaskRepository.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, s.TaskRepository.DeleteTask(ctx, created.ID), ErrTaskNotFound)
	assert.ErrorIs(t, s.TaskRepository.UpdateTask(ctx, created.ID, models.TaskRecordPatch{IsCompleted: &done}, later), ErrTaskNotFound)
}

func TestTaskRepository_ListFiltersAndPages(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	seedAccount(t, s, "u1", "a@b.com")
	seedAccount(t, s, "u2", "c@d.com")

	for i, title := range []string{"one", "two", "three"} {
		_, err := s.TaskRepository.CreateTask(ctx, models.TaskRecord{
			UserID: "u1", Title: title, Priority: "medium", IsCompleted: i == 1,
			CreatedAt: queryTime.Add(time.Duration(i) * time.Minute), UpdatedAt: queryTime,
		})
		require.NoError(t, err)
	}
	_, err := s.TaskRepository.CreateTask(ctx, models.TaskRecord{UserID: "u2", Title: "other", Priority: "low", CreatedAt: queryTime, UpdatedAt: queryTime})
	require.NoError(t, err)

	all, total, err := s.TaskRepository.ListTasks(ctx, models.TaskQuery{UserID: "u1", Status: models.TaskStatusAll})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Title, "newest first")

	pending, total, err := s.TaskRepository.ListTasks(ctx, models.TaskQuery{UserID: "u1", Status: models.TaskStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, pending, 2)

	page, total, err := s.TaskRepository.ListTasks(ctx, models.TaskQuery{UserID: "u1", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "one", page[0].Title)
}

// ── conversations ───────────────────────────────────────────────────────────

func TestConversationRepository_AppendAssignsSequence(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()
	seedAccount(t, s, "u1", "a@b.com")

	require.NoError(t, s.ConversationRepository.CreateConversation(ctx, models.ConversationRecord{
		ID: "c1", UserID: "u1", IsActive: true, CreatedAt: queryTime, UpdatedAt: queryTime,
	}))

	stored, err := s.ConversationRepository.AppendMessages(ctx, "c1",
		models.MessageRecord{ID: "m1", Role: models.RoleUser, Content: "hi", Timestamp: queryTime},
		models.MessageRecord{ID: "m2", Role: models.RoleAssistant, Content: "hello", Timestamp: queryTime,
			ToolCalls: []models.ToolCall{{Name: "list_tasks"}}},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, stored[0].SequenceNumber)
	assert.Equal(t, 2, stored[1].SequenceNumber)

	_, err = s.ConversationRepository.AppendMessages(ctx, "c1",
		models.MessageRecord{ID: "m3", Role: models.RoleUser, Content: "again", Timestamp: queryTime})
	require.NoError(t, err)

	messages, err := s.ConversationRepository.ListMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{messages[0].ID, messages[1].ID, messages[2].ID})
	assert.Equal(t, 3, messages[2].SequenceNumber)
	assert.Equal(t, []models.ToolCall{{Name: "list_tasks"}}, messages[1].ToolCalls)

	conv, err := s.ConversationRepository.GetConversation(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, conv.UpdatedAt.After(queryTime))

	list, err := s.ConversationRepository.ListConversations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.ConversationRepository.GetConversation(ctx, "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationRepository_AppendRollsBack(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	repo := NewConversationRepository(&DB{DB: conn, logger: logger.Nop()}, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(sequence_number), 0) FROM messages")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err = repo.AppendMessages(context.Background(), "c1", models.MessageRecord{ID: "m1", Timestamp: queryTime})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewStorages_InMemory(t *testing.T) {
	storages, err := NewStorages(context.Background(), "file:storages-test?mode=memory&cache=shared", logger.Nop())
	require.NoError(t, err)
	defer storages.Close()

	seedAccount(t, storages, "u1", "a@b.com")
}
