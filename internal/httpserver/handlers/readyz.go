package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// Readyz reports whether the daemon can currently do its job. A daemon
// with no folder open is ready (the shell can still navigate to one); a
// daemon whose open folder vanished or turned read-only is not, and
// neither is one whose configured history backend stopped answering.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := true
		checks := map[string]string{}

		if d.Store.Folder() == "" {
			checks["folder"] = "none-open"
		} else if status := d.Store.CheckFolder(); status != domain.FolderOK {
			checks["folder"] = status.String()
			ready = false
		} else {
			checks["folder"] = "ok"
		}

		if d.RedisClient == nil {
			checks["redis"] = "disabled"
		} else {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := d.RedisClient.Ping(ctx).Err()
			cancel()
			if err != nil {
				checks["redis"] = "unreachable"
				ready = false
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Checks: checks})
	}
}
