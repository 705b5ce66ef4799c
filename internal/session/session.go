// Package session implements the reactive core of the snippet manager: the
// state cells the UI mirrors (folder, open snippet, search mode, keyword,
// selection), the effect graph that keeps them consistent, the debounced
// write-back of edits and the confirmation-gated trash lifecycle.
//
// The session never mutates the snippet collection directly. It reads
// snapshots, issues intent through the Store interface and observes the
// result on the next change notification.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// Store is the action layer the session drives. Implemented by the file
// store; tests swap in fakes.
type Store interface {
	CreateSnippet(ctx context.Context, meta domain.Snippet, initialContent string) error
	UpdateSnippetContent(ctx context.Context, id, content string) error
	UpdateSnippet(ctx context.Context, id string, field domain.Field, value string) error
	MoveSnippetsToTrash(ctx context.Context, ids []string, restoring bool) error
	DeleteSnippetForever(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) error
	ReadSnippetContent(ctx context.Context, id string) (string, error)
	SetFolder(path string)
	LoadFolder(ctx context.Context, path string) error
	NewSnippetID() string
}

// Hooks let the embedder observe session signals without the session
// knowing anything about the transport. Nil hooks are skipped. Hooks are
// invoked on their own goroutine and must not assume any ordering.
type Hooks struct {
	// FocusSearch fires when the search input should take focus.
	FocusSearch func()

	// FolderOpened fires when a folder becomes active; drives history.
	FolderOpened func(path string)
}

// Config carries the tunables the session needs.
type Config struct {
	// DebounceWindow is the coalescing window for edit write-back.
	DebounceWindow time.Duration

	// Languages validates language updates.
	Languages *domain.Catalog
}

// Session holds the live session state. All state access goes through mu;
// effect bodies run with mu held and push I/O onto goroutines that re-enter
// through guarded completion methods.
type Session struct {
	log   logger.Logger
	store Store
	col   *collection.Collection
	langs *domain.Catalog
	hooks Hooks

	mu      sync.Mutex
	runCtx  context.Context
	cells   [cellCount]uint64
	effects []*effect

	folder   string
	openID   string
	mode     domain.SearchMode
	keyword  string
	selected map[string]struct{}
	focusSeq uint64
	revision uint64

	content   string
	contentID string
	fetchGen  uint64
	editSeq   uint64

	lastWriteErr error

	pendingConfirm map[string]struct{}

	contentWriter *writer
	nameWriter    *writer

	colCh <-chan struct{}
}

// New wires a session against its collaborators. Call Start before use.
func New(cfg Config, store Store, col *collection.Collection, hooks Hooks, log logger.Logger) *Session {
	s := &Session{
		log:            log,
		store:          store,
		col:            col,
		langs:          cfg.Languages,
		hooks:          hooks,
		runCtx:         context.Background(),
		mode:           domain.ModeInactive,
		selected:       make(map[string]struct{}),
		pendingConfirm: make(map[string]struct{}),
		colCh:          col.Subscribe(),
	}

	s.contentWriter = newWriter("content", cfg.DebounceWindow, s.persistContent, log, s.noteWriteError)
	s.nameWriter = newWriter("name", cfg.DebounceWindow, s.persistName, log, s.noteWriteError)

	s.registerEffects()

	// Cells start one version ahead of every effect's zero high-water mark
	// so the first run in Start sees all of them as fresh.
	for i := range s.cells {
		s.cells[i] = 1
	}

	return s
}

// Start runs the initial effect pass and begins draining collection
// notifications. The context bounds every asynchronous operation the
// session spawns; cancelling it stops the session.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.runCtx = ctx
	s.runEffectsLocked()
	s.mu.Unlock()

	go s.loop(ctx)
}

// Close flushes pending debounced edits so a graceful shutdown does not
// drop the user's last keystrokes. The run context is already cancelled
// on the quit path, so the final writes get their own short deadline.
func (s *Session) Close() {
	flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.mu.Lock()
	s.runCtx = flushCtx
	s.mu.Unlock()

	s.contentWriter.Flush()
	s.nameWriter.Flush()
}

func (s *Session) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.colCh:
			s.mu.Lock()
			s.bumpLocked(cellCollection)
			s.runEffectsLocked()
			s.mu.Unlock()
		}
	}
}

// ─────────────────────────────────────────────────────────────────
// Navigation and search state
// ─────────────────────────────────────────────────────────────────

// SetNav applies externally-owned navigation parameters: the folder path
// and the optional open snippet id. Unchanged values do not re-trigger
// their effects.
func (s *Session) SetNav(folder, snippet string) {
	folder = domain.CleanFolderPath(folder)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if folder != s.folder {
		s.folder = folder
		s.bumpLocked(cellFolder)
		changed = true
	}
	if snippet != s.openID {
		s.openID = snippet
		s.bumpLocked(cellOpenID)
		changed = true
	}
	if changed {
		s.runEffectsLocked()
	}
}

// SetMode switches the search session mode. Modes are mutually exclusive;
// selecting the same mode again is not a transition and does nothing.
func (s *Session) SetMode(mode domain.SearchMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.mode {
		return nil
	}
	s.mode = mode
	s.bumpLocked(cellMode)
	s.runEffectsLocked()
	return nil
}

// SetKeyword updates the search keyword. Meaningful in search mode only;
// the filtered list recomputes on the next read.
func (s *Session) SetKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keyword == s.keyword {
		return
	}
	s.keyword = keyword
	s.bumpLocked(cellKeyword)
	s.runEffectsLocked()
}

// ─────────────────────────────────────────────────────────────────
// Derived views
// ─────────────────────────────────────────────────────────────────

// Visible computes the ordered list for the current mode and keyword.
func (s *Session) Visible() []domain.Snippet {
	s.mu.Lock()
	mode, kw := s.mode, s.keyword
	s.mu.Unlock()

	return domain.VisibleSnippets(s.col.Snapshot(), mode, kw)
}

// Content returns the open-document buffer and the id it belongs to.
// The id can lag behind the navigation state while a fetch is in flight.
func (s *Session) Content() (id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.contentID, s.content
}

// View is the observable session state handed to the presentation layer.
type View struct {
	Folder       string            `json:"folder"`
	OpenID       string            `json:"openId,omitempty"`
	Mode         domain.SearchMode `json:"mode"`
	Keyword      string            `json:"keyword"`
	FocusSeq     uint64            `json:"focusSeq"`
	Revision     uint64            `json:"revision"`
	LastWriteErr string            `json:"lastWriteError,omitempty"`
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Folder:   s.folder,
		OpenID:   s.openID,
		Mode:     s.mode,
		Keyword:  s.keyword,
		FocusSeq: s.focusSeq,
		Revision: s.revision + s.col.Revision(),
	}
	if s.lastWriteErr != nil {
		v.LastWriteErr = s.lastWriteErr.Error()
	}
	return v
}

// Folder returns the active folder navigation parameter.
func (s *Session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.folder
}

// OpenID returns the open snippet navigation parameter.
func (s *Session) OpenID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.openID
}

// Mode returns the current search mode.
func (s *Session) Mode() domain.SearchMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mode
}

// Keyword returns the current search keyword.
func (s *Session) Keyword() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keyword
}

// ─────────────────────────────────────────────────────────────────
// Edits
// ─────────────────────────────────────────────────────────────────

// EditContent replaces the open-document buffer and schedules a debounced
// write targeting the snippet open right now, not whichever one is open
// when the window fires.
func (s *Session) EditContent(text string) {
	s.mu.Lock()
	id := s.openID
	if id == "" {
		s.mu.Unlock()
		s.log.Debug("content edit with no open snippet, ignored")
		return
	}
	s.content = text
	s.contentID = id
	s.editSeq++
	s.revision++
	s.mu.Unlock()

	s.contentWriter.Schedule(id, text)
}

// EditName schedules a debounced rename of the open snippet.
func (s *Session) EditName(name string) {
	s.mu.Lock()
	id := s.openID
	s.mu.Unlock()

	if id == "" {
		s.log.Debug("name edit with no open snippet, ignored")
		return
	}
	if current, ok := s.col.Get(id); ok {
		s.nameWriter.setConfirmed(id, current.Name)
	}
	s.nameWriter.Schedule(id, name)
}

// UpdateField applies an immediate (not debounced) attribute update:
// language and export prefix changes come from pickers, not keystrokes.
func (s *Session) UpdateField(ctx context.Context, id string, field domain.Field, value string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if field == domain.FieldLanguage {
		if !s.langs.Has(value) {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, value)
		}
		value = s.langs.Canonical(value)
	}

	if _, ok := s.col.Get(id); !ok {
		s.log.Warn("field update on unknown snippet, ignored",
			logger.String("snippet", id),
			logger.String("field", string(field)))
		return nil
	}

	if err := s.store.UpdateSnippet(ctx, id, field, value); err != nil {
		return fmt.Errorf("update %s: %w", field, err)
	}
	return nil
}

// CreateSnippet persists a fresh snippet and opens it.
func (s *Session) CreateSnippet(ctx context.Context, name string) (domain.Snippet, error) {
	if name == "" {
		name = "Untitled"
	}

	now := time.Now()
	meta := domain.Snippet{
		ID:        s.store.NewSnippetID(),
		Name:      name,
		Language:  domain.DefaultLanguageID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateSnippet(ctx, meta, ""); err != nil {
		return domain.Snippet{}, fmt.Errorf("create snippet: %w", err)
	}

	s.mu.Lock()
	s.openID = meta.ID
	s.bumpLocked(cellOpenID)
	s.runEffectsLocked()
	s.mu.Unlock()

	return meta, nil
}

// ─────────────────────────────────────────────────────────────────
// Internal plumbing
// ─────────────────────────────────────────────────────────────────

func (s *Session) bumpLocked(c cell) {
	s.cells[c]++
	s.revision++
}

func (s *Session) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.runCtx
}

func (s *Session) persistContent(id, value string) error {
	return s.store.UpdateSnippetContent(s.runContext(), id, value)
}

func (s *Session) persistName(id, value string) error {
	return s.store.UpdateSnippet(s.runContext(), id, domain.FieldName, value)
}

func (s *Session) noteWriteError(err error) {
	s.mu.Lock()
	s.lastWriteErr = err
	s.revision++
	s.mu.Unlock()
}
