// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField describes one text input of an [inputForm].
type formField struct {
	label       string
	placeholder string
	charLimit   int
	secret      bool
}

// inputForm is a column of labelled text inputs with tab focus cycling.
type inputForm struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newInputForm(fields ...formField) inputForm {
	f := inputForm{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.Width = 40
		if field.charLimit > 0 {
			in.CharLimit = field.charLimit
		}
		if field.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		f.labels[i] = field.label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *inputForm) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *inputForm) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update forwards msg to the focused input.
func (f *inputForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *inputForm) value(i int) string {
	return f.inputs[i].Value()
}

func (f *inputForm) setValue(i int, v string) {
	f.inputs[i].SetValue(v)
}

func (f *inputForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = 0
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

func (f inputForm) View() string {
	labelWidth := 0
	for _, l := range f.labels {
		if w := len([]rune(l)); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(padRight("Поле", labelWidth))
	b.WriteString(" │ Значение\n")
	b.WriteString(strings.Repeat("─", labelWidth+1))
	b.WriteString("┼────────────────────────────────────────────\n")
	for i, in := range f.inputs {
		b.WriteString(padRight(f.labels[i], labelWidth))
		b.WriteString(" │ [")
		b.WriteString(in.View())
		b.WriteString("]\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
