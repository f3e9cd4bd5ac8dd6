// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
	"github.com/MKhiriev/go-task-keeper/models"
)

// Tool names reported on assistant replies.
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

var (
	addTaskPattern      = regexp.MustCompile(`(?i)^(?:please\s+)?(?:add|create|new)\s+(?:a\s+)?task\s*(?:called|named|to|:)?\s+(.+?)(?:\s+with\s+(low|medium|high|urgent)\s+priority)?\s*$`)
	completeTaskPattern = regexp.MustCompile(`(?i)^(?:please\s+)?(?:complete|finish|done(?:\s+with)?|mark)\s+task\s+#?(\d+)(?:\s+as\s+(?:done|complete|completed))?\s*$`)
	deleteTaskPattern   = regexp.MustCompile(`(?i)^(?:please\s+)?(?:delete|remove)\s+task\s+#?(\d+)\s*$`)
	renameTaskPattern   = regexp.MustCompile(`(?i)^(?:please\s+)?(?:rename|update)\s+task\s+#?(\d+)\s+to\s+(.+?)\s*$`)
	listTasksPattern    = regexp.MustCompile(`(?i)^(?:please\s+)?(?:list|show)(?:\s+(?:me\s+)?(?:my|all))?(?:\s+(pending|completed))?\s+tasks\s*$`)
)

const assistantHelp = `I can manage your tasks. Try "add a task Buy milk", "list tasks", ` +
	`"complete task 3", "rename task 3 to Call mom" or "delete task 3".`

// assistantService is a rule-based assistant. It recognises a fixed set of
// task commands, runs them through TaskService and records both sides of
// the exchange.
type assistantService struct {
	conversations store.ConversationRepository
	tasks         TaskService
	validator     validators.Validator

	newID func() string
	now   func() time.Time

	logger *logger.Logger
}

func NewAssistantService(conversations store.ConversationRepository, tasks TaskService, log *logger.Logger) AssistantService {
	return &assistantService{
		conversations: conversations,
		tasks:         tasks,
		validator:     validators.NewTaskValidator(),
		newID:         utils.NewUUIDGenerator().Generate,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        log,
	}
}

// Chat answers req on behalf of userID. A missing conversation id starts a
// new conversation; an unknown one yields store.ErrConversationNotFound.
func (a *assistantService) Chat(ctx context.Context, userID string, req models.ChatRequest) (models.ChatResponse, error) {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, req); err != nil {
		return models.ChatResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	conversation, err := a.conversationFor(ctx, userID, req.ConversationID)
	if err != nil {
		log.Err(err).Str("func", "*assistantService.Chat").Str("user_id", userID).Msg("conversation lookup failed")
		return models.ChatResponse{}, err
	}

	reply, toolCalls := a.respond(ctx, userID, strings.TrimSpace(req.Message))

	now := a.now()
	_, err = a.conversations.AppendMessages(ctx, conversation.ID,
		models.MessageRecord{ID: a.newID(), Role: models.RoleUser, Content: req.Message, Timestamp: now},
		models.MessageRecord{ID: a.newID(), Role: models.RoleAssistant, Content: reply, ToolCalls: toolCalls, Timestamp: now},
	)
	if err != nil {
		log.Err(err).Str("func", "*assistantService.Chat").Str("conversation_id", conversation.ID).Msg("failed to store messages")
		return models.ChatResponse{}, err
	}

	return models.ChatResponse{
		ConversationID: conversation.ID,
		Response:       reply,
		ToolCalls:      toolCalls,
	}, nil
}

func (a *assistantService) ListConversations(ctx context.Context, userID string) ([]models.ConversationRecord, error) {
	return a.conversations.ListConversations(ctx, userID)
}

func (a *assistantService) ListMessages(ctx context.Context, userID, conversationID string) ([]models.MessageRecord, error) {
	conversation, err := a.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, ErrConversationForbidden
	}
	return a.conversations.ListMessages(ctx, conversationID)
}

func (a *assistantService) conversationFor(ctx context.Context, userID string, id *string) (models.ConversationRecord, error) {
	if id != nil && *id != "" {
		conversation, err := a.conversations.GetConversation(ctx, *id)
		if err != nil {
			return models.ConversationRecord{}, err
		}
		if conversation.UserID != userID {
			return models.ConversationRecord{}, ErrConversationForbidden
		}
		return conversation, nil
	}

	now := a.now()
	title := conversationTitle(userID)
	conversation := models.ConversationRecord{
		ID:        a.newID(),
		UserID:    userID,
		Title:     &title,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.conversations.CreateConversation(ctx, conversation); err != nil {
		return models.ConversationRecord{}, err
	}
	return conversation, nil
}

func conversationTitle(userID string) string {
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Chat with %s...", short)
}

// respond runs the command in message, if any, and returns the reply text
// with the tool calls that were carried out.
func (a *assistantService) respond(ctx context.Context, userID, message string) (string, []models.ToolCall) {
	if m := addTaskPattern.FindStringSubmatch(message); m != nil {
		return a.addTask(ctx, userID, m[1], strings.ToLower(m[2]))
	}
	if m := completeTaskPattern.FindStringSubmatch(message); m != nil {
		return a.completeTask(ctx, userID, m[1])
	}
	if m := deleteTaskPattern.FindStringSubmatch(message); m != nil {
		return a.deleteTask(ctx, userID, m[1])
	}
	if m := renameTaskPattern.FindStringSubmatch(message); m != nil {
		return a.renameTask(ctx, userID, m[1], m[2])
	}
	if m := listTasksPattern.FindStringSubmatch(message); m != nil {
		return a.listTasks(ctx, userID, strings.ToLower(m[1]))
	}
	return assistantHelp, nil
}

func (a *assistantService) addTask(ctx context.Context, userID, title, priority string) (string, []models.ToolCall) {
	title = strings.Trim(title, `"'`)
	task, err := a.tasks.CreateTask(ctx, userID, models.CreateTaskRequest{Title: title, Priority: priority})
	if err != nil {
		return a.failure(ctx, ToolAddTask, err), nil
	}

	params := map[string]any{"title": task.Title, "task_id": task.ID}
	if priority != "" {
		params["priority"] = task.Priority
	}
	return fmt.Sprintf("I've added %q to your tasks (#%d).", task.Title, task.ID),
		[]models.ToolCall{{Name: ToolAddTask, Parameters: params}}
}

func (a *assistantService) completeTask(ctx context.Context, userID, rawID string) (string, []models.ToolCall) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	done := true
	task, err := a.tasks.UpdateTask(ctx, userID, id, models.UpdateTaskRequest{IsCompleted: &done})
	if err != nil {
		return a.failure(ctx, ToolCompleteTask, err), nil
	}
	return fmt.Sprintf("Marked %q as completed.", task.Title),
		[]models.ToolCall{{Name: ToolCompleteTask, Parameters: map[string]any{"task_id": task.ID}}}
}

func (a *assistantService) deleteTask(ctx context.Context, userID, rawID string) (string, []models.ToolCall) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	if err := a.tasks.DeleteTask(ctx, userID, id); err != nil {
		return a.failure(ctx, ToolDeleteTask, err), nil
	}
	return fmt.Sprintf("Deleted task #%d.", id),
		[]models.ToolCall{{Name: ToolDeleteTask, Parameters: map[string]any{"task_id": id}}}
}

func (a *assistantService) renameTask(ctx context.Context, userID, rawID, title string) (string, []models.ToolCall) {
	id, _ := strconv.ParseInt(rawID, 10, 64)
	title = strings.Trim(title, `"'`)
	task, err := a.tasks.UpdateTask(ctx, userID, id, models.UpdateTaskRequest{Title: &title})
	if err != nil {
		return a.failure(ctx, ToolUpdateTask, err), nil
	}
	return fmt.Sprintf("Task #%d is now called %q.", task.ID, task.Title),
		[]models.ToolCall{{Name: ToolUpdateTask, Parameters: map[string]any{"task_id": task.ID, "title": task.Title}}}
}

func (a *assistantService) listTasks(ctx context.Context, userID, status string) (string, []models.ToolCall) {
	filter := models.TaskStatusFilter(status)
	if filter == "" {
		filter = models.TaskStatusAll
	}

	tasks, total, err := a.tasks.ListTasks(ctx, models.TaskQuery{UserID: userID, Status: filter})
	if err != nil {
		return a.failure(ctx, ToolListTasks, err), nil
	}
	call := []models.ToolCall{{Name: ToolListTasks, Parameters: map[string]any{"status": string(filter)}}}

	if total == 0 {
		return "You have no tasks.", call
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d task(s):", total)
	for _, t := range tasks {
		mark := " "
		if t.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(&b, "\n- [%s] #%d %s", mark, t.ID, t.Title)
	}
	return b.String(), call
}

// failure turns a tool error into a reply the user can act on.
func (a *assistantService) failure(ctx context.Context, tool string, err error) string {
	logger.FromContext(ctx).Warn().Err(err).Str("tool", tool).Msg("assistant tool failed")

	switch {
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, ErrTaskForbidden):
		return "I couldn't find that task."
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidDataProvided):
		return fmt.Sprintf("I couldn't do that: %s.", strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))
	default:
		return "Something went wrong while updating your tasks. Please try again."
	}
}
