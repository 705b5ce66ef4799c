package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/httpserver/handlers"
)

func init() { Register(registerClipboard) }

// The route only exists when clipboard access is enabled; a headless or
// sandboxed install answers 404 rather than 500ing on every copy.
func registerClipboard(r chi.Router, d deps.Deps) {
	if !d.EnableClipboard {
		return
	}
	r.Post("/snippets/{id}/clipboard", handlers.SnippetClipboard(d))
}
