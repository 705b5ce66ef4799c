package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/httpserver/handlers"
)

func init() { Register(registerLanguages) }

func registerLanguages(r chi.Router, d deps.Deps) {
	r.Get("/languages", handlers.Languages(d))
}
