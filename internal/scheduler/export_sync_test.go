package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/export/vscode"
	"github.com/lucifer1004/dropcode/internal/logger"
)

type staticContents map[string]string

func (s staticContents) ReadSnippetContent(_ context.Context, id string) (string, error) {
	return s[id], nil
}

func TestExportSyncerFollowsCollection(t *testing.T) {
	log := logger.New("error", false)

	catalog, err := domain.NewCatalog(domain.DefaultLanguages())
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	col := collection.New()
	now := time.Now().UTC()
	col.Replace([]domain.Snippet{{
		ID: "01A", Name: "first", Language: "go", ExportPrefix: "f1",
		CreatedAt: now, UpdatedAt: now,
	}})

	path := filepath.Join(t.TempDir(), "dropcode.code-snippets")
	syncer := vscode.New(path, col, staticContents{"01A": "body"}, catalog, log)

	es := NewExportSyncer(syncer, col, log, 20*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := es.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer es.Stop()

	// The initial sync runs inside Start.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export file missing after start: %v", err)
	}

	// A collection change re-exports after the quiet window.
	col.Upsert(domain.Snippet{
		ID: "01B", Name: "second", Language: "go", ExportPrefix: "f2",
		CreatedAt: now, UpdatedAt: now,
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		raw, err := os.ReadFile(path)
		if err == nil && strings.Contains(string(raw), `"second"`) {
			var entries map[string]json.RawMessage
			if err := json.Unmarshal(raw, &entries); err != nil {
				t.Fatalf("export file is not valid json: %v", err)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("collection change never reached the export file")
}

func TestExportSyncerDisabled(t *testing.T) {
	log := logger.New("error", false)

	catalog, err := domain.NewCatalog(domain.DefaultLanguages())
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	col := collection.New()
	syncer := vscode.New("", col, staticContents{}, catalog, log)

	es := NewExportSyncer(syncer, col, log, 20*time.Millisecond)
	if err := es.Start(context.Background()); err != nil {
		t.Fatalf("Start with export disabled: %v", err)
	}
}
