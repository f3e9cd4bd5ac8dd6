package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWireMessage_DecodedToolCalls(t *testing.T) {
	list := WireMessage{ToolCalls: json.RawMessage(`[{"name":"add_task","parameters":{"title":"x"}}]`)}
	assert.Equal(t, []ToolCall{{Name: "add_task", Parameters: map[string]any{"title": "x"}}}, list.DecodedToolCalls())

	wrapped := WireMessage{ToolCalls: json.RawMessage(`{"tool_calls":[{"name":"list_tasks"}]}`)}
	assert.Equal(t, []ToolCall{{Name: "list_tasks"}}, wrapped.DecodedToolCalls())

	assert.Nil(t, WireMessage{}.DecodedToolCalls())
	assert.Nil(t, WireMessage{ToolCalls: json.RawMessage(`"nope"`)}.DecodedToolCalls())
}

func TestConversation_CloneIsIndependent(t *testing.T) {
	c := Conversation{ID: "c1", Messages: []Message{{ID: "m1", ToolCalls: []ToolCall{{Name: "a"}}}}}
	cp := c.Clone()
	cp.Messages[0].ToolCalls[0].Name = "b"
	cp.Messages = append(cp.Messages, Message{ID: "m2"})

	assert.Equal(t, "a", c.Messages[0].ToolCalls[0].Name)
	assert.Len(t, c.Messages, 1)
}

func TestAPIError_Unwrap(t *testing.T) {
	kind := errors.New("kind")
	err := error(&APIError{Code: "TASK_001", Message: "missing", Kind: kind})

	assert.ErrorIs(t, err, kind)
	assert.Equal(t, "TASK_001: missing", err.Error())
	assert.Equal(t, "plain", (&APIError{Message: "plain"}).Error())
}
