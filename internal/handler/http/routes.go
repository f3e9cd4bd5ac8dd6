// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Get("/version", h.getServerVersion)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/auth/logout", h.logout)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)
			r.Get("/{taskID}", h.getTask)
			r.Put("/{taskID}", h.updateTask)
			r.Delete("/{taskID}", h.deleteTask)
			r.Patch("/{taskID}/toggle-status", h.toggleTask)
		})

		r.Post("/{userID}/chat", h.chat)
		r.Get("/conversations/{id}", h.listConversations)
		r.Get("/conversations/{id}/messages", h.listMessages)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
