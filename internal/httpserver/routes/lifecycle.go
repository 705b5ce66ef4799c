package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/httpserver/handlers"
)

func init() { Register(registerLifecycle) }

func registerLifecycle(r chi.Router, d deps.Deps) {
	r.Post("/snippets/{id}/trash", handlers.SnippetTrashToggle(d))
	r.Post("/snippets/trash", handlers.BulkTrash(d))
	r.Delete("/snippets/{id}", handlers.SnippetPurge(d))
	r.Delete("/trash", handlers.EmptyTrash(d))
}
