// Package integration drives the real session against a real on-disk
// vault: no fakes between the reactive core, the file store and the
// collection.
package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/session"
	filestore "github.com/lucifer1004/dropcode/internal/store/file"
)

// countingStore wraps the real file store so tests can assert how many
// content writes actually reached disk.
type countingStore struct {
	*filestore.Store
	contentWrites atomic.Int32
}

func (c *countingStore) UpdateSnippetContent(ctx context.Context, id, content string) error {
	c.contentWrites.Add(1)
	return c.Store.UpdateSnippetContent(ctx, id, content)
}

type env struct {
	dir    string
	sess   *session.Session
	store  *countingStore
	col    *collection.Collection
	cancel context.CancelFunc
}

// seedVault writes a vault folder the way the daemon itself would: a
// metadata index plus one content file per snippet.
func seedVault(t *testing.T, dir string, snips []domain.Snippet, contents map[string]string) {
	t.Helper()

	data, err := json.MarshalIndent(snips, "", "  ")
	if err != nil {
		t.Fatalf("encoding index: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "snippets.json"), data, 0o644); err != nil {
		t.Fatalf("writing index: %v", err)
	}
	for id, body := range contents {
		if err := os.WriteFile(filepath.Join(dir, id), []byte(body), 0o644); err != nil {
			t.Fatalf("writing content %s: %v", id, err)
		}
	}
}

func newEnv(t *testing.T, snips []domain.Snippet, contents map[string]string) *env {
	t.Helper()

	dir := t.TempDir()
	seedVault(t, dir, snips, contents)

	log := logger.New("error", false)
	catalog, err := domain.NewCatalog(domain.DefaultLanguages())
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	col := collection.New()
	store := &countingStore{Store: filestore.New(col, log)}

	sess := session.New(session.Config{
		DebounceWindow: 40 * time.Millisecond,
		Languages:      catalog,
	}, store, col, session.Hooks{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	sess.Start(ctx)

	e := &env{dir: dir, sess: sess, store: store, col: col, cancel: cancel}
	e.sess.SetNav(dir, "")
	e.waitFor(t, "initial folder load", func() bool {
		return col.Count() == len(snips)
	})
	return e
}

func (e *env) waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func (e *env) visibleIDs() []string {
	visible := e.sess.Visible()
	ids := make([]string, 0, len(visible))
	for _, snip := range visible {
		ids = append(ids, snip.ID)
	}
	return ids
}

func yes() session.Confirmer {
	return session.ConfirmerFunc(func(session.Prompt) bool { return true })
}

func twoSnippets() ([]domain.Snippet, map[string]string) {
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	snips := []domain.Snippet{
		{ID: "01X", Name: "older note", Language: "plaintext", CreatedAt: base, UpdatedAt: base},
		{ID: "01Y", Name: "newer note", Language: "plaintext", CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
	}
	contents := map[string]string{
		"01X": "content of X",
		"01Y": "content of Y",
	}
	return snips, contents
}

func TestActiveListNewestFirst(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	if diff := cmp.Diff([]string{"01Y", "01X"}, e.visibleIDs()); diff != "" {
		t.Fatalf("visible order mismatch (-want +got):\n%s", diff)
	}
}

func TestTrashAndActiveViewsStaySeparate(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	if err := e.sess.ToggleTrash(context.Background(), "01Y", yes()); err != nil {
		t.Fatalf("ToggleTrash: %v", err)
	}
	e.waitFor(t, "Y trashed", func() bool {
		snip, ok := e.col.Get("01Y")
		return ok && snip.Trashed()
	})

	if err := e.sess.SetMode(domain.ModeTrash); err != nil {
		t.Fatalf("SetMode(trash): %v", err)
	}
	if diff := cmp.Diff([]string{"01Y"}, e.visibleIDs()); diff != "" {
		t.Fatalf("trash view mismatch (-want +got):\n%s", diff)
	}

	if err := e.sess.SetMode(domain.ModeInactive); err != nil {
		t.Fatalf("SetMode(inactive): %v", err)
	}
	if diff := cmp.Diff([]string{"01X"}, e.visibleIDs()); diff != "" {
		t.Fatalf("active view mismatch (-want +got):\n%s", diff)
	}

	// The trashed snippet survives on disk until purged.
	if _, err := os.Stat(filepath.Join(e.dir, "01Y")); err != nil {
		t.Fatalf("trashed content file missing: %v", err)
	}
}

func TestRapidEditsReachDiskOnce(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	e.sess.SetNav(e.dir, "01X")
	e.waitFor(t, "content of X", func() bool {
		id, text := e.sess.Content()
		return id == "01X" && text == "content of X"
	})

	e.sess.EditContent("draft")
	e.sess.EditContent("final text")

	e.waitFor(t, "debounced write", func() bool {
		return e.store.contentWrites.Load() == 1
	})

	raw, err := os.ReadFile(filepath.Join(e.dir, "01X"))
	if err != nil {
		t.Fatalf("reading content file: %v", err)
	}
	if string(raw) != "final text" {
		t.Fatalf("disk content = %q, want the last edit only", raw)
	}

	// Nothing else should fire once the window has drained.
	time.Sleep(120 * time.Millisecond)
	if got := e.store.contentWrites.Load(); got != 1 {
		t.Fatalf("content writes = %d, want exactly 1", got)
	}
}

func TestQuitRightAfterTypingKeepsEdit(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	e.sess.SetNav(e.dir, "01X")
	e.waitFor(t, "content of X", func() bool {
		id, text := e.sess.Content()
		return id == "01X" && text == "content of X"
	})

	e.sess.EditContent("typed just before quit")

	// The daemon cancels the run context first, then closes the session.
	e.cancel()
	e.sess.Close()

	raw, err := os.ReadFile(filepath.Join(e.dir, "01X"))
	if err != nil {
		t.Fatalf("reading content file: %v", err)
	}
	if string(raw) != "typed just before quit" {
		t.Fatalf("disk content = %q, want the pending edit", raw)
	}
}

func TestOpenSnippetJoinsBulkTarget(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	e.sess.SetNav(e.dir, "01Y")
	e.sess.ToggleSelect("01X")

	if diff := cmp.Diff([]string{"01X", "01Y"}, e.sess.EffectiveSelection()); diff != "" {
		t.Fatalf("effective selection mismatch (-want +got):\n%s", diff)
	}

	// Once the open snippet no longer passes the filter it drops out of
	// the bulk target set.
	if err := e.sess.ToggleTrash(context.Background(), "01Y", yes()); err != nil {
		t.Fatalf("ToggleTrash: %v", err)
	}
	e.waitFor(t, "Y trashed", func() bool {
		snip, ok := e.col.Get("01Y")
		return ok && snip.Trashed()
	})

	if diff := cmp.Diff([]string{"01X"}, e.sess.EffectiveSelection()); diff != "" {
		t.Fatalf("effective selection after trashing Y (-want +got):\n%s", diff)
	}
}

func TestBulkTrashClearsSelection(t *testing.T) {
	snips, contents := twoSnippets()
	e := newEnv(t, snips, contents)

	e.sess.SetNav(e.dir, "01Y")
	e.sess.ToggleSelect("01X")

	if err := e.sess.BulkToggleTrash(context.Background(), yes()); err != nil {
		t.Fatalf("BulkToggleTrash: %v", err)
	}

	e.waitFor(t, "both trashed", func() bool {
		x, okX := e.col.Get("01X")
		y, okY := e.col.Get("01Y")
		return okX && okY && x.Trashed() && y.Trashed()
	})

	if got := e.sess.Selected(); len(got) != 0 {
		t.Fatalf("explicit selection = %v, want cleared", got)
	}

	// The index on disk agrees.
	metas, err := os.ReadFile(filepath.Join(e.dir, "snippets.json"))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	var onDisk []domain.Snippet
	if err := json.Unmarshal(metas, &onDisk); err != nil {
		t.Fatalf("decoding index: %v", err)
	}
	for _, snip := range onDisk {
		if !snip.Trashed() {
			t.Fatalf("snippet %s still active on disk", snip.ID)
		}
	}
}
