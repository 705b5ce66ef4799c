package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/httpserver/handlers"
)

func init() { Register(registerSnippets) }

func registerSnippets(r chi.Router, d deps.Deps) {
	r.Get("/snippets", handlers.SnippetsList(d))
	r.Post("/snippets", handlers.SnippetCreate(d))

	r.Get("/snippets/{id}/content", handlers.SnippetContentGet(d))
	r.Put("/snippets/{id}/content", handlers.SnippetContentPut(d))
	r.Put("/snippets/{id}/name", handlers.SnippetRename(d))
	r.Put("/snippets/{id}/language", handlers.SnippetLanguage(d))
	r.Put("/snippets/{id}/export-prefix", handlers.SnippetExportPrefix(d))
}
