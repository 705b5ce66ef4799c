package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/session"
)

// maxContentBytes bounds a single snippet body. Snippets are pasted
// text, not file uploads.
const maxContentBytes = 16 << 20

// SnippetsList returns the visible snippets for the current mode and
// keyword, already filtered and ordered.
func SnippetsList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visible := d.Session.Visible()
		if visible == nil {
			visible = []domain.Snippet{}
		}
		writeJSON(w, http.StatusOK, visible)
	}
}

// SnippetCreate makes a fresh snippet and opens it.
func SnippetCreate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snip, err := d.Session.CreateSnippet(r.Context(), r.URL.Query().Get("name"))
		if err != nil {
			d.Logger.Error("snippet create failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, snip)
	}
}

// SnippetContentGet serves a snippet body as plain text. The open
// snippet answers from the session buffer so unflushed edits are
// included; everything else reads straight from the store.
func SnippetContentGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Collection.Get(id); !ok {
			writeError(w, http.StatusNotFound, "unknown snippet: "+id)
			return
		}

		var text string
		if openID, buffer := d.Session.Content(); openID == id {
			text = buffer
		} else {
			var err error
			text, err = d.Contents.ReadSnippetContent(r.Context(), id)
			if err != nil {
				d.Logger.Error("content read failed",
					logger.String("snippet", id),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = io.WriteString(w, text)
	}
}

// SnippetContentPut replaces the open-document buffer with the request
// body and schedules the debounced write-back. Only the open snippet has
// a buffer, so edits to any other id are rejected instead of silently
// writing to the wrong place.
func SnippetContentPut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if openID := d.Session.OpenID(); openID != id {
			writeError(w, http.StatusConflict, "snippet is not open: "+id)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxContentBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}

		d.Session.EditContent(string(body))
		w.WriteHeader(http.StatusNoContent)
	}
}

// SnippetRename changes a snippet's name. Renaming the open snippet goes
// through the debounced writer, matching keystroke input from the title
// field; renaming anything else applies immediately.
func SnippetRename(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		value := r.URL.Query().Get("value")

		if d.Session.OpenID() == id {
			d.Session.EditName(value)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		updateField(w, r, d, id, domain.FieldName, value)
	}
}

// SnippetLanguage switches a snippet's language. Values are validated
// against the catalog and aliases resolve to their canonical id.
func SnippetLanguage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updateField(w, r, d, chi.URLParam(r, "id"), domain.FieldLanguage, r.URL.Query().Get("value"))
	}
}

// SnippetExportPrefix sets or clears the VS Code export prefix. An empty
// value opts the snippet out of the export.
func SnippetExportPrefix(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updateField(w, r, d, chi.URLParam(r, "id"), domain.FieldExportPrefix, r.URL.Query().Get("value"))
	}
}

func updateField(w http.ResponseWriter, r *http.Request, d deps.Deps, id string, field domain.Field, value string) {
	err := d.Session.UpdateField(r.Context(), id, field, value)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case isBadInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		d.Logger.Error("field update failed",
			logger.String("snippet", id),
			logger.String("field", string(field)),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// isBadInput separates caller mistakes from persistence failures.
func isBadInput(err error) bool {
	return errors.Is(err, session.ErrUnknownField) ||
		errors.Is(err, session.ErrUnknownLanguage) ||
		errors.Is(err, session.ErrUnknownMode)
}
