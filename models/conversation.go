// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCall describes an action the assistant performed on the user's behalf.
type ToolCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Message is a single turn of a conversation.
type Message struct {
	ID        string
	Role      Role
	Content   string
	ToolCalls []ToolCall
	CreatedAt time.Time

	// Synthetic marks assistant turns produced locally to surface an error.
	Synthetic bool
}

// Conversation is the client-side state of one assistant dialogue.
//
// ID stays empty until the first successful exchange and is immutable
// afterwards. Messages only ever grow.
type Conversation struct {
	ID       string
	Messages []Message
}

// Clone returns a deep copy safe to hand out to callers.
func (c Conversation) Clone() Conversation {
	out := Conversation{ID: c.ID, Messages: make([]Message, len(c.Messages))}
	for i, m := range c.Messages {
		if m.ToolCalls != nil {
			m.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
		}
		out.Messages[i] = m
	}
	return out
}

// ChatRequest is the body of POST /{userId}/chat.
type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// ChatResponse is the data payload of a successful chat exchange.
type ChatResponse struct {
	ConversationID string     `json:"conversation_id"`
	Response       string     `json:"response"`
	ToolCalls      []ToolCall `json:"tool_calls,omitempty"`
}

// ConversationSummary is one entry of GET /conversations/{userId}.
type ConversationSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Title     *string   `json:"title,omitempty"`
	IsActive  FlexBool  `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// ConversationList is the data payload of GET /conversations/{userId}.
type ConversationList struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}

// WireMessage is a stored message returned by the history endpoint.
type WireMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Role           Role            `json:"role"`
	Content        string          `json:"content"`
	ToolCalls      json.RawMessage `json:"tool_calls,omitempty"`
	Timestamp      Timestamp       `json:"timestamp"`
	SequenceNumber int             `json:"sequence_number,omitempty"`
}

// DecodedToolCalls returns the tool calls of the message. The history store
// keeps them either as a list or as an object wrapping a "tool_calls" list;
// anything else yields nil.
func (m WireMessage) DecodedToolCalls() []ToolCall {
	if len(m.ToolCalls) == 0 {
		return nil
	}

	var list []ToolCall
	if err := json.Unmarshal(m.ToolCalls, &list); err == nil {
		return list
	}

	var wrapped struct {
		ToolCalls []ToolCall `json:"tool_calls"`
	}
	if err := json.Unmarshal(m.ToolCalls, &wrapped); err == nil {
		return wrapped.ToolCalls
	}
	return nil
}

// MessageList is the data payload of GET /conversations/{id}/messages.
type MessageList struct {
	Messages []WireMessage `json:"messages"`
	Total    int           `json:"total"`
}
