package handlers

import (
	"net/http"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
)

// Languages lists the catalog for the language picker.
func Languages(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Catalog.All())
	}
}
