package handlers

import (
	"net/http"

	"github.com/atotto/clipboard"
	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// SnippetClipboard copies a snippet body onto the OS clipboard. The open
// snippet copies its buffer, pending edits included.
func SnippetClipboard(d deps.Deps) http.HandlerFunc {
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
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		if err := clipboard.WriteAll(text); err != nil {
			d.Logger.Error("clipboard write failed",
				logger.String("snippet", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "clipboard unavailable: "+err.Error())
			return
		}

		d.Logger.Debug("snippet copied to clipboard", logger.String("snippet", id))
		w.WriteHeader(http.StatusNoContent)
	}
}
