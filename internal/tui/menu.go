// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label string
	hint  string
	page  string
}

// MenuModel is the start page of the sign-in flow.
type MenuModel struct {
	items []menuItem
	idx   int
}

func NewMenuModel() *MenuModel {
	return &MenuModel{
		items: []menuItem{
			{label: "Войти", hint: "есть аккаунт", page: pageLogin},
			{label: "Зарегистрироваться", hint: "новый аккаунт", page: pageRegister},
		},
	}
}

func (m *MenuModel) Init() tea.Cmd {
	return nil
}

func (m *MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		m.idx = (m.idx + len(m.items) - 1) % len(m.items)
	case key.Matches(keyMsg, keys.down):
		m.idx = (m.idx + 1) % len(m.items)
	case key.Matches(keyMsg, keys.enter):
		return m, m.open(m.idx)
	default:
		// digits pick an item directly
		if r := keyMsg.Runes; len(r) == 1 && r[0] >= '1' && int(r[0]-'1') < len(m.items) {
			m.idx = int(r[0] - '1')
			return m, m.open(m.idx)
		}
	}

	return m, nil
}

func (m *MenuModel) open(i int) tea.Cmd {
	page := m.items[i].page
	return func() tea.Msg { return NavigateTo{Page: page} }
}

func (m *MenuModel) View() string {
	labelWidth := 0
	for _, item := range m.items {
		labelWidth = max(labelWidth, lipgloss.Width(item.label))
	}

	var b strings.Builder
	b.WriteString("Менеджер задач с ассистентом\n\n")
	for i, item := range m.items {
		line := fmt.Sprintf("%d. %s  %s", i+1, padRight(item.label, labelWidth), helpStyle.Render(item.hint))
		if i == m.idx {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	return renderPage("ГЛАВНОЕ МЕНЮ", strings.TrimRight(b.String(), "\n"),
		"enter/1-2: выбрать │ ↑/↓: навигация │ v: версия │ ctrl+c: выход")
}
