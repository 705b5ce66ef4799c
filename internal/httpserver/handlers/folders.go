package handlers

import (
	"net/http"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/logger"
	redisstore "github.com/lucifer1004/dropcode/internal/store/redis"
)

// RecentFolders lists previously opened folders, most recent first. With
// no history backend the list is simply empty; the shell renders the
// picker either way.
func RecentFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !d.History.Enabled() {
			writeJSON(w, http.StatusOK, []redisstore.FolderVisit{})
			return
		}

		visits, err := d.History.RecentFolders(r.Context(), d.HistoryLimit)
		if err != nil {
			d.Logger.Error("recent folders lookup failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if visits == nil {
			visits = []redisstore.FolderVisit{}
		}
		writeJSON(w, http.StatusOK, visits)
	}
}
