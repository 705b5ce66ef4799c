package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/session"
)

// confirmRequired is the 409 body asking the shell to show a dialog and
// retry the same request with confirm=true or confirm=false.
type confirmRequired struct {
	Prompt  session.Prompt `json:"prompt"`
	Message string         `json:"message"`
}

// runConfirmed executes a destructive operation under the three-state
// confirm query value: "true" proceeds, "false" cancels silently, and an
// absent value answers 409 with the prompt copy so the shell can ask.
// The capture works because the session invokes the confirmer on this
// goroutine, inside op.
func runConfirmed(w http.ResponseWriter, r *http.Request, op func(session.Confirmer) error) {
	var captured *session.Prompt

	var confirmer session.Confirmer
	switch r.URL.Query().Get("confirm") {
	case "true":
		confirmer = session.ConfirmerFunc(func(session.Prompt) bool { return true })
	case "false":
		confirmer = session.ConfirmerFunc(func(session.Prompt) bool { return false })
	default:
		confirmer = session.ConfirmerFunc(func(p session.Prompt) bool {
			captured = &p
			return false
		})
	}

	err := op(confirmer)
	switch {
	case errors.Is(err, session.ErrConfirmationPending):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case captured != nil:
		writeJSON(w, http.StatusConflict, confirmRequired{
			Prompt:  *captured,
			Message: captured.Message(),
		})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// SnippetTrashToggle trashes an active snippet or restores a trashed one.
func SnippetTrashToggle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		runConfirmed(w, r, func(c session.Confirmer) error {
			return d.Session.ToggleTrash(r.Context(), id, c)
		})
	}
}

// BulkTrash applies one trash-or-restore transition to the effective
// selection under a single confirmation.
func BulkTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runConfirmed(w, r, func(c session.Confirmer) error {
			return d.Session.BulkToggleTrash(r.Context(), c)
		})
	}
}

// SnippetPurge permanently deletes one trashed snippet.
func SnippetPurge(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		runConfirmed(w, r, func(c session.Confirmer) error {
			return d.Session.Purge(r.Context(), id, c)
		})
	}
}

// EmptyTrash permanently deletes everything in the trash. With nothing
// trashed it answers 204 without asking.
func EmptyTrash(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runConfirmed(w, r, func(c session.Confirmer) error {
			return d.Session.EmptyTrash(r.Context(), c)
		})
	}
}
