package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/session"
)

// sessionRow is one visible snippet plus its presentation flags.
type sessionRow struct {
	domain.Snippet
	Highlighted bool `json:"highlighted"`
	Selected    bool `json:"selected"`
}

type sessionResponse struct {
	session.View
	Visible   []sessionRow `json:"visible"`
	Selection []string     `json:"selection"`
	Effective []string     `json:"effectiveSelection"`
}

// Session returns the whole observable session state in one response.
// The shell polls it after every mutation; Revision lets it skip
// re-rendering when nothing moved.
func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := d.Session.Snapshot()
		visible := d.Session.Visible()
		selected := d.Session.Selected()
		effective := d.Session.EffectiveSelection()

		selSet := make(map[string]struct{}, len(selected))
		for _, id := range selected {
			selSet[id] = struct{}{}
		}

		rows := make([]sessionRow, 0, len(visible))
		for _, snip := range visible {
			_, isSelected := selSet[snip.ID]
			rows = append(rows, sessionRow{
				Snippet:     snip,
				Highlighted: snip.ID == view.OpenID || isSelected,
				Selected:    isSelected,
			})
		}
		if effective == nil {
			effective = []string{}
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			View:      view,
			Visible:   rows,
			Selection: selected,
			Effective: effective,
		})
	}
}

// SessionNav applies the navigation channel: the folder path and the open
// snippet id travel as query values, and an absent value clears its half
// of the state, exactly like leaving the corresponding route.
func SessionNav(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		d.Session.SetNav(q.Get("folder"), q.Get("snippet"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// SessionSearch updates search mode and/or keyword. When both arrive
// together the mode switches first, so the keyword in the same request
// survives the reset that a mode change triggers.
func SessionSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Has("mode") {
			mode, ok := domain.ParseSearchMode(q.Get("mode"))
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown search mode: "+q.Get("mode"))
				return
			}
			if err := d.Session.SetMode(mode); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if q.Has("keyword") {
			d.Session.SetKeyword(q.Get("keyword"))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SelectionToggle flips one snippet in the explicit multi-select.
func SelectionToggle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Session.ToggleSelect(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
