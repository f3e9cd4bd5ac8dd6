// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/MKhiriev/go-task-keeper/models"
)

const chatInputHeight = 3

// chatModel holds the widgets of the chat screen. The conversation itself
// lives in the chat service and is re-rendered on every change.
type chatModel struct {
	viewport viewport.Model
	input    textinput.Model
	sending  bool
}

func newChatModel() chatModel {
	in := textinput.New()
	in.Placeholder = "например: add task buy milk"
	in.CharLimit = 2000
	in.Width = 60

	return chatModel{
		viewport: viewport.New(80, 20),
		input:    in,
	}
}

func (c *chatModel) resize(width, height int) {
	c.viewport.Width = width
	c.viewport.Height = max(height-chatInputHeight-6, 5)
	c.input.Width = max(width-4, 10)
}

// setConversation re-renders the transcript and scrolls to the newest turn.
func (c *chatModel) setConversation(conv models.Conversation) {
	c.viewport.SetContent(renderTranscript(conv, c.viewport.Width))
	c.viewport.GotoBottom()
}

func renderTranscript(conv models.Conversation, width int) string {
	if len(conv.Messages) == 0 {
		return helpStyle.Render("Напишите ассистенту, что сделать с задачами.")
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		switch {
		case msg.Role == models.RoleUser:
			b.WriteString(userStyle.Render("Вы:"))
			b.WriteString(" ")
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
		case msg.Synthetic:
			b.WriteString(syntheticStyle.Render("Ошибка: " + msg.Content))
			b.WriteString("\n\n")
		default:
			b.WriteString(assistantStyle.Render("Ассистент:"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(msg.Content, width))
			b.WriteString("\n")
			if calls := renderToolCalls(msg.ToolCalls); calls != "" {
				b.WriteString(helpStyle.Render(calls))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderToolCalls(calls []models.ToolCall) string {
	if len(calls) == 0 {
		return ""
	}
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}

// lastReply returns the text of the newest assistant turn.
func lastReply(conv models.Conversation) (string, bool) {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if m := conv.Messages[i]; m.Role == models.RoleAssistant && !m.Synthetic {
			return m.Content, true
		}
	}
	return "", false
}

func (c chatModel) View() string {
	var b strings.Builder
	b.WriteString(c.viewport.View())
	b.WriteString("\n\n")
	if c.sending {
		b.WriteString(helpStyle.Render("Ассистент печатает..."))
		b.WriteString("\n")
	}
	b.WriteString("> ")
	b.WriteString(c.input.View())
	return b.String()
}

func renderHistory(items []models.ConversationSummary, idx int) string {
	if len(items) == 0 {
		return "Нет прошлых разговоров"
	}

	var b strings.Builder
	for i, item := range items {
		cursor := "  "
		if i == idx {
			cursor = "> "
		}
		title := valueOrDash(item.Title)
		line := fmt.Sprintf("%s%-40s │ %s", cursor, fitText(title, 40), item.UpdatedAt.Local().Format("2006-01-02 15:04"))
		if i == idx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
