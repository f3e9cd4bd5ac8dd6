// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-task-keeper/internal/service"
)

const minPasswordLength = 6

const (
	registerName = iota
	registerEmail
	registerPassword
	registerConfirm
)

// RegisterModel is the registration screen. A successful registration signs
// the user in, so it ends with the same [LoginResult] as [LoginModel].
type RegisterModel struct {
	ctx     context.Context
	session service.ClientSessionStore

	form       inputForm
	submitting bool
	errMsg     string
}

func NewRegisterModel(ctx context.Context, session service.ClientSessionStore) *RegisterModel {
	return &RegisterModel{
		ctx:     ctx,
		session: session,
		form: newInputForm(
			formField{label: "Имя", placeholder: "name", charLimit: 100},
			formField{label: "Email", placeholder: "email", charLimit: 254},
			formField{label: "Пароль", placeholder: "password", charLimit: 256, secret: true},
			formField{label: "Повтор пароля", placeholder: "repeat password", charLimit: 256, secret: true},
		),
	}
}

func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(LoginResult); ok {
		m.submitting = false
		if result.Err != nil {
			m.errMsg = humanizeError(result.Err)
		}
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.submitting = false
			m.errMsg = ""
			m.form.reset()
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case "tab", "down":
			m.form.focusNext()
			return m, nil
		case "shift+tab", "up":
			m.form.focusPrev()
			return m, nil
		case "enter":
			if m.submitting {
				return m, nil
			}
			if errMsg := m.validate(); errMsg != "" {
				m.errMsg = errMsg
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(
				strings.TrimSpace(m.form.value(registerEmail)),
				m.form.value(registerPassword),
				strings.TrimSpace(m.form.value(registerName)),
			)
		}
	}

	return m, m.form.update(msg)
}

// validate returns a message for the first problem of the form, or "".
func (m *RegisterModel) validate() string {
	email := strings.TrimSpace(m.form.value(registerEmail))
	pass := m.form.value(registerPassword)

	switch {
	case email == "" || pass == "":
		return "Email и пароль обязательны"
	case !strings.Contains(email, "@"):
		return "Некорректный email"
	case len([]rune(pass)) < minPasswordLength:
		return "Пароль должен быть не короче 6 символов"
	case pass != m.form.value(registerConfirm):
		return "Пароли не совпадают"
	}
	return ""
}

func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.View())

	if m.submitting {
		b.WriteString("\n\n[Зарегистрироваться...]")
	} else {
		b.WriteString("\n\n[Зарегистрироваться]")
	}

	if m.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
	}

	return renderPage("РЕГИСТРАЦИЯ", b.String(), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *RegisterModel) cmdRegister(email, pass, name string) tea.Cmd {
	ctx := m.ctx
	session := m.session

	return func() tea.Msg {
		s, err := session.Register(ctx, email, pass, name)
		return LoginResult{Session: s, Err: err}
	}
}
