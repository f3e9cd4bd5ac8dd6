// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDueDate
)

var errBadDueDate = errors.New("срок должен быть в формате ГГГГ-ММ-ДД")

// taskFormModel edits a new task or an existing one. editing holds the
// original task when the form was opened for an edit.
type taskFormModel struct {
	form    inputForm
	editing *models.Task
	errMsg  string
}

func newTaskForm(task *models.Task) taskFormModel {
	f := taskFormModel{
		form: newInputForm(
			formField{label: "Задача", placeholder: "title", charLimit: 255},
			formField{label: "Описание", placeholder: "description"},
			formField{label: "Важность", placeholder: "low | medium | high | urgent", charLimit: 6},
			formField{label: "Срок", placeholder: "YYYY-MM-DD", charLimit: 10},
		),
		editing: task,
	}
	if task != nil {
		f.form.setValue(fieldTitle, task.Title)
		if task.Description != nil {
			f.form.setValue(fieldDescription, *task.Description)
		}
		f.form.setValue(fieldPriority, string(task.Priority))
		if task.DueDate != nil {
			f.form.setValue(fieldDueDate, task.DueDate.Local().Format(dateLayout))
		}
	}
	return f
}

func (f taskFormModel) title() string {
	if f.editing != nil {
		return "ИЗМЕНЕНИЕ ЗАДАЧИ"
	}
	return "НОВАЯ ЗАДАЧА"
}

func (f taskFormModel) View() string {
	out := f.form.View()
	if f.errMsg != "" {
		out += "\n\n" + errorStyle.Render("Ошибка: "+f.errMsg)
	}
	return out
}

func (f taskFormModel) values() (title string, desc *string, priority models.Priority, due *time.Time, err error) {
	title = strings.TrimSpace(f.form.value(fieldTitle))

	if d := strings.TrimSpace(f.form.value(fieldDescription)); d != "" {
		desc = &d
	}

	priority, err = models.ParsePriority(strings.ToLower(strings.TrimSpace(f.form.value(fieldPriority))))
	if err != nil {
		return "", nil, "", nil, err
	}

	if raw := strings.TrimSpace(f.form.value(fieldDueDate)); raw != "" {
		parsed, parseErr := time.ParseInLocation(dateLayout, raw, time.Local)
		if parseErr != nil {
			return "", nil, "", nil, errBadDueDate
		}
		due = &parsed
	}
	return title, desc, priority, due, nil
}

// draft builds the create request. An empty title is left for the task
// service to reject.
func (f taskFormModel) draft() (models.TaskDraft, error) {
	title, desc, priority, due, err := f.values()
	if err != nil {
		return models.TaskDraft{}, err
	}
	return models.TaskDraft{Title: title, Description: desc, Priority: priority, DueDate: due}, nil
}

// patch returns only the fields that differ from the edited task.
func (f taskFormModel) patch() (models.TaskPatch, error) {
	title, desc, priority, due, err := f.values()
	if err != nil {
		return models.TaskPatch{}, err
	}

	orig := f.editing
	var p models.TaskPatch
	if title != orig.Title {
		p.Title = &title
	}
	if valueOrDash(desc) != valueOrDash(orig.Description) {
		if desc == nil {
			empty := ""
			desc = &empty
		}
		p.Description = desc
	}
	if priority != orig.Priority {
		p.Priority = &priority
	}
	if due != nil && dateOrDash(due) != dateOrDash(orig.DueDate) {
		p.DueDate = due
	}
	return p, nil
}
