// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			input:    "   ",
			contains: nil,
		},
		{
			name:     "soft breaks reflow",
			input:    "I've added\nthe task.",
			contains: []string{"I've added the task."},
		},
		{
			name:     "bullet list",
			input:    "Your tasks:\n\n- buy milk\n- call mom",
			contains: []string{"Your tasks:", "• buy milk", "• call mom"},
			excludes: []string{"- buy milk"},
		},
		{
			name:     "ordered list keeps numbers",
			input:    "1. first\n2. second",
			contains: []string{"1. first", "2. second"},
		},
		{
			name:     "emphasis markers removed",
			input:    "Task **done** and *noted*",
			contains: []string{"done", "noted"},
			excludes: []string{"**", "*noted*"},
		},
		{
			name:     "code span",
			input:    "run `list tasks`",
			contains: []string{"list tasks"},
			excludes: []string{"`"},
		},
		{
			name:     "fenced code",
			input:    "```\nadd task x\n```",
			contains: []string{"  add task x"},
			excludes: []string{"```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderMarkdown(tt.input, 80)
			if tt.contains == nil {
				assert.Empty(t, out)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.excludes {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestRenderMarkdown_Wraps(t *testing.T) {
	out := renderMarkdown(strings.Repeat("word ", 30), 20)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 20, line)
	}
}
