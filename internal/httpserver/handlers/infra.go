package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	SnippetsLoaded  *int   `json:"snippets_loaded,omitempty"`
	TrashedSnippets *int   `json:"trashed_snippets,omitempty"`
	LastReload      string `json:"last_reload,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra exposes per-component health for debugging. The shell never
// reads it; it exists for curl.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded := d.Collection.Count()
		trashed := d.Collection.TrashedCount()

		lastReload := "never"
		if t := d.Collection.LastLoad(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"folder":    checkFolder(d, loaded, trashed, lastReload),
			"redis":     checkRedis(d),
			"export":    checkExport(d),
			"clipboard": {OK: true, Mode: enabledMode(d.EnableClipboard)},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(d, components),
			Components: components,
		})
	}
}

// determineMode collapses component health into one word for the top of
// the response.
func determineMode(d deps.Deps, components map[string]componentStatus) string {
	folder := components["folder"]
	if folder.Mode == "idle" {
		return "idle"
	}
	if !folder.OK {
		// The open folder is gone or read-only: every write will fail.
		return "critical"
	}
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}
	return "ok"
}

func checkFolder(d deps.Deps, loaded, trashed int, lastReload string) componentStatus {
	path := d.Store.Folder()
	if path == "" {
		return componentStatus{OK: true, Mode: "idle", Impact: "no-folder-open"}
	}

	status := d.Store.CheckFolder()
	if status != domain.FolderOK {
		return componentStatus{
			OK:         false,
			Mode:       "broken",
			Impact:     "writes-will-fail",
			Error:      status.String(),
			LastReload: lastReload,
		}
	}

	return componentStatus{
		OK:              true,
		SnippetsLoaded:  &loaded,
		TrashedSnippets: &trashed,
		LastReload:      lastReload,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "folder-history-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "folder-history-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "folder-history-enabled",
	}
}

func checkExport(d deps.Deps) componentStatus {
	if d.ExportFile == "" {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	return componentStatus{OK: true, Mode: "enabled"}
}

func enabledMode(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
