package collection

import (
	"sync"
	"testing"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
	if got := c.Snapshot(); len(got) != 0 {
		t.Errorf("New() should start empty, got %v snippets", len(got))
	}
	if c.Folder() != "" {
		t.Errorf("New() folder = %q, want empty", c.Folder())
	}
}

func TestReplace(t *testing.T) {
	c := New()

	c.Replace([]domain.Snippet{
		{ID: "a", Name: "alpha"},
		{ID: "b", Name: "beta"},
	})

	if got := c.Count(); got != 2 {
		t.Errorf("Count() = %v, want 2", got)
	}

	snap := c.Snapshot()
	if snap[0].ID != "a" || snap[1].ID != "b" {
		t.Errorf("Snapshot() order = %v,%v, want a,b", snap[0].ID, snap[1].ID)
	}
}

func TestReplaceOverwrites(t *testing.T) {
	c := New()

	c.Replace([]domain.Snippet{{ID: "a", Name: "alpha"}})
	c.Replace([]domain.Snippet{
		{ID: "b", Name: "beta"},
		{ID: "c", Name: "gamma"},
	})

	if got := c.Count(); got != 2 {
		t.Errorf("Replace() should overwrite, Count() = %v want 2", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("old snippet should be gone after Replace()")
	}
}

func TestUpsertAndRemove(t *testing.T) {
	c := New()
	c.Replace([]domain.Snippet{{ID: "a", Name: "alpha"}})

	c.Upsert(domain.Snippet{ID: "b", Name: "beta"})
	if got := c.Count(); got != 2 {
		t.Fatalf("Count() after Upsert = %v, want 2", got)
	}

	c.Upsert(domain.Snippet{ID: "a", Name: "renamed"})
	s, ok := c.Get("a")
	if !ok {
		t.Fatal("Get(a) not found after Upsert")
	}
	if s.Name != "renamed" {
		t.Errorf("Upsert() did not overwrite, Name = %v", s.Name)
	}

	// Order position must survive the overwrite.
	snap := c.Snapshot()
	if snap[0].ID != "a" {
		t.Errorf("Snapshot()[0].ID = %v, want a (order kept)", snap[0].ID)
	}

	c.Remove("a", "missing")
	if got := c.Count(); got != 1 {
		t.Errorf("Count() after Remove = %v, want 1", got)
	}
	snap = c.Snapshot()
	if len(snap) != 1 || snap[0].ID != "b" {
		t.Errorf("Snapshot() after Remove = %v, want [b]", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	c.Replace([]domain.Snippet{{ID: "a", Name: "alpha"}})

	snap := c.Snapshot()
	snap[0].Name = "mutated"

	s, _ := c.Get("a")
	if s.Name != "alpha" {
		t.Errorf("mutating a snapshot leaked into the collection: %v", s.Name)
	}
}

func TestSetFolder(t *testing.T) {
	c := New()
	c.SetFolder("/tmp/snippets/")
	if got := c.Folder(); got != "/tmp/snippets" {
		t.Errorf("Folder() = %q, want cleaned path", got)
	}

	c.Replace([]domain.Snippet{{ID: "a", Name: "alpha"}})
	if got := c.Count(); got != 1 {
		t.Fatalf("Count() = %v after load, want 1", got)
	}

	// Switching folders must not leak the previous working set.
	c.SetFolder("/tmp/other")
	if got := c.Count(); got != 0 {
		t.Errorf("changing folder should drop the working set, Count() = %v", got)
	}

	c.SetFolder("/tmp/other")
	rev := c.Revision()
	c.SetFolder("/tmp/other")
	if got := c.Revision(); got != rev {
		t.Errorf("setting the same folder should not advance the revision, got %v want %v", got, rev)
	}
}

func TestTrashedCount(t *testing.T) {
	now := time.Now()
	c := New()
	c.Replace([]domain.Snippet{
		{ID: "a", Name: "active"},
		{ID: "b", Name: "gone", DeletedAt: &now},
	})

	if got := c.TrashedCount(); got != 1 {
		t.Errorf("TrashedCount() = %v, want 1", got)
	}
}

func TestRevisionAdvances(t *testing.T) {
	c := New()
	before := c.Revision()

	c.Upsert(domain.Snippet{ID: "a"})
	mid := c.Revision()
	if mid <= before {
		t.Errorf("Revision() did not advance on Upsert: %v -> %v", before, mid)
	}

	c.Remove("a")
	if got := c.Revision(); got <= mid {
		t.Errorf("Revision() did not advance on Remove: %v -> %v", mid, got)
	}

	// Removing nothing must not advance.
	last := c.Revision()
	c.Remove("missing")
	if got := c.Revision(); got != last {
		t.Errorf("Revision() advanced on a no-op Remove: %v -> %v", last, got)
	}
}

func TestSubscribeCoalesces(t *testing.T) {
	c := New()
	ch := c.Subscribe()

	for i := 0; i < 5; i++ {
		c.Upsert(domain.Snippet{ID: "a", Name: "v"})
	}

	// All five mutations collapse into at most one pending ping.
	select {
	case <-ch:
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-ch:
		t.Fatal("notifications should coalesce into one ping")
	default:
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Upsert(domain.Snippet{ID: string(rune('a' + n))})
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Snapshot()
			_ = c.Count()
		}()
	}
	wg.Wait()

	if got := c.Count(); got != 8 {
		t.Errorf("Count() = %v, want 8", got)
	}
}
