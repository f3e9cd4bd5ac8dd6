// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/adapter"
	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskMutatingTools are the assistant tools that change the task list on the
// server.
var taskMutatingTools = map[string]struct{}{
	"add_task":      {},
	"complete_task": {},
	"delete_task":   {},
	"update_task":   {},
}

type clientChatService struct {
	adapter  adapter.ServerAdapter
	session  ClientSessionStore
	listener TaskChangeListener
	ids      *utils.UUIDGenerator
	now      func() time.Time

	mu   sync.Mutex
	conv models.Conversation
	// generation changes on Reset and Resume; replies to an older
	// generation are dropped.
	generation int

	logger *logger.Logger
}

// NewClientChatService returns a [ClientChatService] holding an empty
// conversation. listener may be nil.
func NewClientChatService(serverAdapter adapter.ServerAdapter, session ClientSessionStore, listener TaskChangeListener, log *logger.Logger) ClientChatService {
	return &clientChatService{
		adapter:  serverAdapter,
		session:  session,
		listener: listener,
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
		logger:   log,
	}
}

func (c *clientChatService) Send(ctx context.Context, message string) (models.Message, error) {
	log := c.logger.With().Str("func", "clientChatService.Send").Logger()

	message = strings.TrimSpace(message)
	if message == "" {
		return models.Message{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}

	session := c.session.Current()

	c.mu.Lock()
	c.conv.Messages = append(c.conv.Messages, models.Message{
		ID:        c.ids.Generate(),
		Role:      models.RoleUser,
		Content:   message,
		CreatedAt: c.now().UTC(),
	})
	conversationID := c.conv.ID
	generation := c.generation
	c.mu.Unlock()

	if !session.IsAuthenticated() {
		reply := c.appendSynthetic(generation, app.MsgMissingToken)
		return reply, ErrAuthRequired
	}

	req := models.ChatRequest{Message: message}
	if conversationID != "" {
		req.ConversationID = &conversationID
	}

	resp, err := c.adapter.Chat(ctx, session.User.ID, req)
	if err != nil {
		log.Warn().Err(err).Msg("chat request failed")
		reply := c.appendSynthetic(generation, errorText(err))
		return reply, err
	}

	reply := models.Message{
		ID:        c.ids.Generate(),
		Role:      models.RoleAssistant,
		Content:   resp.Response,
		ToolCalls: resp.ToolCalls,
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	if c.generation != generation {
		c.mu.Unlock()
		log.Debug().Msg("conversation was reset, reply dropped")
		return reply, nil
	}
	switch {
	case c.conv.ID == "":
		c.conv.ID = resp.ConversationID
	case resp.ConversationID != "" && resp.ConversationID != c.conv.ID:
		log.Warn().Str("conversation_id", c.conv.ID).Str("returned_id", resp.ConversationID).Msg("server returned a different conversation id, keeping the current one")
	}
	c.conv.Messages = append(c.conv.Messages, reply)
	c.mu.Unlock()

	if c.listener != nil && mutatesTasks(resp.ToolCalls) {
		c.listener.TasksChanged(ctx)
	}
	return reply, nil
}

// appendSynthetic records a locally produced assistant turn so that every
// attempted exchange stays visible in the history.
func (c *clientChatService) appendSynthetic(generation int, text string) models.Message {
	reply := models.Message{
		ID:        c.ids.Generate(),
		Role:      models.RoleAssistant,
		Content:   text,
		CreatedAt: c.now().UTC(),
		Synthetic: true,
	}

	c.mu.Lock()
	if c.generation == generation {
		c.conv.Messages = append(c.conv.Messages, reply)
	}
	c.mu.Unlock()
	return reply
}

func (c *clientChatService) Conversation() models.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Clone()
}

func (c *clientChatService) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv = models.Conversation{}
	c.generation++
}

// Resume replaces the active conversation with the stored history of
// conversationID.
func (c *clientChatService) Resume(ctx context.Context, conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("%w: conversation id is empty", ErrValidation)
	}
	if !c.session.Current().IsAuthenticated() {
		return ErrAuthRequired
	}

	list, err := c.adapter.ConversationMessages(ctx, conversationID)
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "clientChatService.Resume").Str("conversation_id", conversationID).Msg("loading conversation failed")
		return err
	}

	wire := slices.Clone(list.Messages)
	slices.SortStableFunc(wire, func(a, b models.WireMessage) int {
		return cmp.Compare(a.SequenceNumber, b.SequenceNumber)
	})

	messages := make([]models.Message, 0, len(wire))
	for _, m := range wire {
		id := m.ID
		if id == "" {
			id = c.ids.Generate()
		}
		messages = append(messages, models.Message{
			ID:        id,
			Role:      m.Role,
			Content:   m.Content,
			ToolCalls: m.DecodedToolCalls(),
			CreatedAt: m.Timestamp.Time,
		})
	}

	c.mu.Lock()
	c.conv = models.Conversation{ID: conversationID, Messages: messages}
	c.generation++
	c.mu.Unlock()
	return nil
}

func (c *clientChatService) Conversations(ctx context.Context) ([]models.ConversationSummary, error) {
	session := c.session.Current()
	if !session.IsAuthenticated() {
		return nil, ErrAuthRequired
	}

	list, err := c.adapter.ListConversations(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}
	return list.Conversations, nil
}

func mutatesTasks(calls []models.ToolCall) bool {
	for _, call := range calls {
		if _, ok := taskMutatingTools[call.Name]; ok {
			return true
		}
	}
	return false
}

// errorText is the content of a synthesized error turn.
func errorText(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
