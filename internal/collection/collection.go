package collection

import (
	"sync"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
)

// Collection is the shared snapshot of the active folder's snippets.
//
// It is owned by the persistence layer: only store action methods mutate it,
// everything else reads copies and reacts to change notifications. Mutations
// bump a revision counter and ping subscribers through cap-1 channels, so a
// slow reader coalesces bursts instead of backing up the writer.
type Collection struct {
	mu       sync.RWMutex
	folder   string
	order    []string                  // load order, keeps equal-timestamp sorting deterministic
	snippets map[string]domain.Snippet // ID -> Snippet
	revision uint64
	lastLoad time.Time
	subs     []chan struct{}
}

// New creates an empty collection with no active folder.
func New() *Collection {
	return &Collection{
		snippets: make(map[string]domain.Snippet),
	}
}

// Subscribe returns a channel that receives a ping after every mutation.
// The channel has capacity one and pings are dropped when it is full;
// subscribers treat a ping as "something changed, take a fresh snapshot".
// Subscriptions live for the process lifetime.
func (c *Collection) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// SetFolder records the active folder identity. Clearing the folder (empty
// path) also drops the working set, there is nothing to show without one.
func (c *Collection) SetFolder(path string) {
	path = domain.CleanFolderPath(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.folder == path {
		return
	}
	c.folder = path
	// The old folder's snippets must never leak into the new one; the
	// working set stays empty until the next load lands.
	c.order = nil
	c.snippets = make(map[string]domain.Snippet)
	c.bumpLocked()
}

// Folder returns the active folder path, empty when none is set.
func (c *Collection) Folder() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.folder
}

// Replace swaps in a freshly loaded snippet set, keeping the given order.
func (c *Collection) Replace(snips []domain.Snippet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = make([]string, 0, len(snips))
	c.snippets = make(map[string]domain.Snippet, len(snips))
	for _, s := range snips {
		if _, dup := c.snippets[s.ID]; dup {
			continue
		}
		c.order = append(c.order, s.ID)
		c.snippets[s.ID] = s
	}
	c.lastLoad = time.Now()
	c.bumpLocked()
}

// Get retrieves a snippet copy by id.
func (c *Collection) Get(id string) (domain.Snippet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.snippets[id]
	return s, ok
}

// Upsert adds a snippet or overwrites an existing one in place.
func (c *Collection) Upsert(s domain.Snippet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.snippets[s.ID]; !exists {
		c.order = append(c.order, s.ID)
	}
	c.snippets[s.ID] = s
	c.bumpLocked()
}

// Remove drops the given ids. Unknown ids are ignored.
func (c *Collection) Remove(ids ...string) {
	if len(ids) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	for _, id := range ids {
		if _, ok := c.snippets[id]; !ok {
			continue
		}
		delete(c.snippets, id)
		removed = true
	}
	if !removed {
		return
	}

	kept := c.order[:0]
	for _, id := range c.order {
		if _, ok := c.snippets[id]; ok {
			kept = append(kept, id)
		}
	}
	c.order = kept
	c.bumpLocked()
}

// Snapshot returns a copy of every snippet in load order.
func (c *Collection) Snapshot() []domain.Snippet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Snippet, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.snippets[id])
	}
	return out
}

// Count returns the number of snippets, trashed included.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.snippets)
}

// TrashedCount returns how many snippets currently sit in the trash.
func (c *Collection) TrashedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, s := range c.snippets {
		if s.Trashed() {
			n++
		}
	}
	return n
}

// Revision returns the mutation counter. Readers compare revisions to skip
// recomputing derived views when nothing changed.
func (c *Collection) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.revision
}

// LastLoad returns when Replace last ran, zero before the first load.
func (c *Collection) LastLoad() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastLoad
}

// bumpLocked advances the revision and pings subscribers. Callers hold mu;
// the sends are non-blocking so holding the lock here cannot deadlock.
func (c *Collection) bumpLocked() {
	c.revision++
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
