package handlers

import (
	"net/http"

	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/logger"
)

type reloadResponse struct {
	Triggered bool `json:"triggered"`
}

// Reload asks the folder reloader to resync from disk right now instead
// of waiting for the watcher or the periodic tick. The trigger channel
// holds one slot; a second request while a reload is queued gets 429.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual folder reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{Triggered: true})
		default:
			d.Logger.Warn("folder reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Triggered: false})
		}
	}
}
