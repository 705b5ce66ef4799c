package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/httpserver/handlers"
)

func init() { Register(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Get("/session", handlers.Session(d))
	r.Put("/session/nav", handlers.SessionNav(d))
	r.Put("/session/search", handlers.SessionSearch(d))
	r.Post("/session/selection/{id}", handlers.SelectionToggle(d))
}
