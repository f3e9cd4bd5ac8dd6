// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
)

const statusTTL = 3 * time.Second

type screen int

const (
	screenList screen = iota
	screenDetail
	screenForm
	screenConfirmDelete
	screenChat
	screenHistory
)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices
	changes  <-chan struct{}
	logger   *logger.Logger

	screen screen
	width  int
	height int

	tasks      []models.Task
	idx        int
	refreshing bool
	spinner    spinner.Model
	status     string
	errMsg     string

	form    taskFormModel
	chat    chatModel
	history []models.ConversationSummary
	histIdx int

	logout bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices, changes <-chan struct{}, log *logger.Logger) mainLoopModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return mainLoopModel{
		ctx:        ctx,
		services:   services,
		changes:    changes,
		logger:     log,
		width:      80,
		height:     24,
		tasks:      services.TaskService.List(),
		refreshing: true,
		spinner:    s,
		chat:       newChatModel(),
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(
		m.cmdRefresh(m.services.TaskService.Filter()),
		m.waitForChange(),
		m.spinner.Tick,
	)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.chat.resize(msg.Width, msg.Height)
		m.chat.setConversation(m.services.ChatService.Conversation())
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tasksChangedMsg:
		if !m.services.SessionStore.Current().IsAuthenticated() {
			m.logout = true
			return m, tea.Quit
		}
		m.syncTasks()
		return m, m.waitForChange()

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.syncTasks()
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		return m.withStatus(mutationStatus(msg.op))

	case chatReplyMsg:
		m.chat.sending = false
		m.chat.setConversation(m.services.ChatService.Conversation())
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("chat message failed")
		}
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			m.screen = screenChat
			return m, nil
		}
		m.history = msg.items
		m.histIdx = 0
		return m, nil

	case resumeDoneMsg:
		m.screen = screenChat
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.chat.setConversation(m.services.ChatService.Conversation())
		return m, m.chat.input.Focus()

	case logoutDoneMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("local session cleanup failed")
		}
		m.logout = true
		return m, tea.Quit

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "Не удалось скопировать: " + msg.err.Error()
			return m, nil
		}
		return m.withStatus("Скопировано в буфер обмена")

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}
	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenDetail:
		return m.updateDetail(keyMsg)
	case screenForm:
		return m.updateForm(keyMsg)
	case screenConfirmDelete:
		return m.updateConfirm(keyMsg)
	case screenChat:
		return m.updateChat(keyMsg)
	case screenHistory:
		return m.updateHistory(keyMsg)
	default:
		return m.updateList(keyMsg)
	}
}

// forward passes non-key messages (cursor blink and the like) to the
// focused widget.
func (m mainLoopModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenForm:
		cmd = m.form.form.update(msg)
	case screenChat:
		m.chat.input, cmd = m.chat.input.Update(msg)
	}
	return m, cmd
}

func (m mainLoopModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.tasks)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if t, ok := m.current(); ok {
			m.screen = screenDetail
			return m, m.cmdGet(t.ID)
		}
	case key.Matches(msg, keys.newItem):
		m.form = newTaskForm(nil)
		m.screen = screenForm
		return m, textinput.Blink
	case key.Matches(msg, keys.edit):
		return m.openEdit()
	case key.Matches(msg, keys.toggle):
		return m.toggleCurrent()
	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); ok {
			m.screen = screenConfirmDelete
		}
	case key.Matches(msg, keys.filter):
		m.refreshing = true
		return m, m.cmdRefresh(nextFilter(m.services.TaskService.Filter()))
	case key.Matches(msg, keys.refresh):
		m.refreshing = true
		return m, m.cmdRefresh(m.services.TaskService.Filter())
	case key.Matches(msg, keys.copy):
		if t, ok := m.current(); ok {
			return m, cmdCopy(t.Title)
		}
	case key.Matches(msg, keys.chat):
		m.screen = screenChat
		m.chat.setConversation(m.services.ChatService.Conversation())
		return m, m.chat.input.Focus()
	case key.Matches(msg, keys.logout):
		return m, m.cmdLogout()
	}
	return m, nil
}

func (m mainLoopModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.quit):
		m.screen = screenList
	case key.Matches(msg, keys.edit):
		return m.openEdit()
	case key.Matches(msg, keys.toggle):
		return m.toggleCurrent()
	case key.Matches(msg, keys.delete):
		m.screen = screenConfirmDelete
	case key.Matches(msg, keys.copy):
		if t, ok := m.current(); ok {
			return m, cmdCopy(t.Title)
		}
	}
	return m, nil
}

func (m mainLoopModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.tab), msg.Type == tea.KeyDown:
		m.form.form.focusNext()
		return m, nil
	case key.Matches(msg, keys.backtab), msg.Type == tea.KeyUp:
		m.form.form.focusPrev()
		return m, nil
	case key.Matches(msg, keys.enter):
		return m.submitForm()
	}
	return m, m.form.form.update(msg)
}

func (m mainLoopModel) submitForm() (tea.Model, tea.Cmd) {
	if m.form.editing == nil {
		draft, err := m.form.draft()
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.screen = screenList
		return m, m.cmdCreate(draft)
	}

	patch, err := m.form.patch()
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}
	m.screen = screenList
	if patch.IsEmpty() {
		return m.withStatus("Нет изменений")
	}
	return m, m.cmdUpdate(m.form.editing.ID, patch)
}

func (m mainLoopModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.screen = screenList
		if t, ok := m.current(); ok {
			return m, m.cmdRemove(t.ID)
		}
	case key.Matches(msg, keys.no):
		m.screen = screenList
	}
	return m, nil
}

func (m mainLoopModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.chat.input.Blur()
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.newChat):
		m.services.ChatService.Reset()
		m.chat.setConversation(m.services.ChatService.Conversation())
		return m.withStatus("Новый разговор")
	case key.Matches(msg, keys.history):
		m.screen = screenHistory
		m.history = nil
		return m, m.cmdHistory()
	case key.Matches(msg, keys.reply):
		if reply, ok := lastReply(m.services.ChatService.Conversation()); ok {
			return m, cmdCopy(reply)
		}
		return m, nil
	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.chat.viewport, cmd = m.chat.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, keys.enter):
		text := strings.TrimSpace(m.chat.input.Value())
		if text == "" || m.chat.sending {
			return m, nil
		}
		m.chat.input.Reset()
		m.chat.sending = true
		return m, m.cmdSend(text)
	}

	var cmd tea.Cmd
	m.chat.input, cmd = m.chat.input.Update(msg)
	return m, cmd
}

func (m mainLoopModel) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.screen = screenChat
	case key.Matches(msg, keys.up):
		if m.histIdx > 0 {
			m.histIdx--
		}
	case key.Matches(msg, keys.down):
		if m.histIdx < len(m.history)-1 {
			m.histIdx++
		}
	case key.Matches(msg, keys.enter):
		if m.histIdx < len(m.history) {
			return m, m.cmdResume(m.history[m.histIdx].ID)
		}
	}
	return m, nil
}

func (m mainLoopModel) openEdit() (tea.Model, tea.Cmd) {
	t, ok := m.current()
	if !ok {
		return m, nil
	}
	m.form = newTaskForm(&t)
	m.screen = screenForm
	return m, textinput.Blink
}

func (m mainLoopModel) toggleCurrent() (tea.Model, tea.Cmd) {
	t, ok := m.current()
	if !ok {
		return m, nil
	}
	return m, m.cmdToggle(t.ID)
}

func (m mainLoopModel) current() (models.Task, bool) {
	if m.idx < 0 || m.idx >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.idx], true
}

// syncTasks reloads the visible list from the cache. The cursor stays on
// the same task when it is still listed.
func (m *mainLoopModel) syncTasks() {
	selected, hadSelection := m.current()
	m.tasks = m.services.TaskService.List()
	if hadSelection {
		for i, t := range m.tasks {
			if t.ID == selected.ID {
				m.idx = i
				break
			}
		}
	}
	if m.idx >= len(m.tasks) {
		m.idx = len(m.tasks) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m mainLoopModel) withStatus(status string) (tea.Model, tea.Cmd) {
	m.status = status
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func mutationStatus(op string) string {
	switch op {
	case service.OpCreate:
		return "Задача добавлена"
	case service.OpUpdate:
		return "Задача обновлена"
	case service.OpToggle:
		return "Статус задачи изменён"
	case service.OpRemove:
		return "Задача удалена"
	}
	return "Готово"
}

func (m mainLoopModel) View() string {
	var body, title, hotKeys string

	switch m.screen {
	case screenDetail:
		title = "ЗАДАЧА"
		if t, ok := m.current(); ok {
			body = renderTaskDetail(t)
		}
		hotKeys = "esc: назад │ e: изменить │ x: выполнить │ d: удалить │ c: копировать"
	case screenForm:
		title = m.form.title()
		body = m.form.View()
		hotKeys = "esc: отмена │ tab: след. поле │ enter: сохранить"
	case screenConfirmDelete:
		title = "УДАЛЕНИЕ"
		if t, ok := m.current(); ok {
			body = renderDeleteConfirm(t)
		}
	case screenChat:
		title = "АССИСТЕНТ"
		body = m.chat.View()
		hotKeys = "enter: отправить │ esc: к задачам │ ctrl+n: новый │ ctrl+o: история │ ctrl+y: копировать ответ"
	case screenHistory:
		title = "ИСТОРИЯ РАЗГОВОРОВ"
		body = renderHistory(m.history, m.histIdx)
		hotKeys = "enter: открыть │ esc: назад"
	default:
		title = "ЗАДАЧИ (" + filterNames[m.services.TaskService.Filter()] + ")"
		if m.refreshing {
			title += " " + m.spinner.View()
		}
		body = renderTaskList(m.tasks, m.idx, m.width)
		hotKeys = "n: новая │ e: изменить │ x: выполнить │ d: удалить │ f: фильтр │ r: обновить │ a: ассистент │ L: выйти │ q: выход"
	}

	if m.status != "" {
		body += "\n\n" + statusStyle.Render(m.status)
	}
	if m.errMsg != "" {
		body += "\n\n" + errorStyle.Render("Ошибка: "+m.errMsg)
	}

	if user := m.services.SessionStore.Current().User; user.Email != "" {
		title += "  " + helpStyle.Render(user.Email)
	}
	return renderPage(title, body, hotKeys)
}

// ── commands ────────────────────────────────────────────────────────────────

func (m mainLoopModel) waitForChange() tea.Cmd {
	ctx, changes := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return tasksChangedMsg{}
		}
	}
}

func (m mainLoopModel) cmdRefresh(filter models.TaskStatusFilter) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		return refreshDoneMsg{err: tasks.Refresh(ctx, filter)}
	}
}

func (m mainLoopModel) cmdGet(id string) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		if _, err := tasks.Get(ctx, id); err != nil && !errors.Is(err, service.ErrNotFound) {
			return refreshDoneMsg{err: err}
		}
		return tasksChangedMsg{}
	}
}

func (m mainLoopModel) cmdCreate(draft models.TaskDraft) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		task, err := tasks.Create(ctx, draft)
		return mutationDoneMsg{op: service.OpCreate, task: task, err: err}
	}
}

func (m mainLoopModel) cmdUpdate(id string, patch models.TaskPatch) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		task, err := tasks.Update(ctx, id, patch)
		return mutationDoneMsg{op: service.OpUpdate, task: task, err: err}
	}
}

func (m mainLoopModel) cmdToggle(id string) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		task, err := tasks.ToggleCompletion(ctx, id)
		return mutationDoneMsg{op: service.OpToggle, task: task, err: err}
	}
}

func (m mainLoopModel) cmdRemove(id string) tea.Cmd {
	ctx, tasks := m.ctx, m.services.TaskService
	return func() tea.Msg {
		return mutationDoneMsg{op: service.OpRemove, err: tasks.Remove(ctx, id)}
	}
}

func (m mainLoopModel) cmdSend(text string) tea.Cmd {
	ctx, chat := m.ctx, m.services.ChatService
	return func() tea.Msg {
		reply, err := chat.Send(ctx, text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m mainLoopModel) cmdHistory() tea.Cmd {
	ctx, chat := m.ctx, m.services.ChatService
	return func() tea.Msg {
		items, err := chat.Conversations(ctx)
		return historyLoadedMsg{items: items, err: err}
	}
}

func (m mainLoopModel) cmdResume(id string) tea.Cmd {
	ctx, chat := m.ctx, m.services.ChatService
	return func() tea.Msg {
		return resumeDoneMsg{err: chat.Resume(ctx, id)}
	}
}

func (m mainLoopModel) cmdLogout() tea.Cmd {
	ctx, session := m.ctx, m.services.SessionStore
	return func() tea.Msg {
		return logoutDoneMsg{err: session.Logout(ctx)}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}
