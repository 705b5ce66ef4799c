package session

import (
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// cell names a tracked piece of session state. Effects declare which cells
// they depend on and re-run only when one of those advances.
type cell int

const (
	cellFolder cell = iota
	cellOpenID
	cellMode
	cellKeyword
	cellCollection

	cellCount
)

// effect is one node of the reactive graph: a body plus the high-water
// versions of its dependencies as of its last run.
type effect struct {
	name string
	deps []cell
	seen [cellCount]uint64
	fn   func()
}

// maxEffectPasses bounds the settle loop. The keyword reset is the only
// effect that writes a cell, so the graph settles in two passes.
const maxEffectPasses = 4

// runEffectsLocked drives the graph to a fixpoint. Callers hold s.mu;
// effect bodies must not block and push I/O onto goroutines.
func (s *Session) runEffectsLocked() {
	for pass := 0; pass < maxEffectPasses; pass++ {
		ran := false
		for _, e := range s.effects {
			due := false
			for _, d := range e.deps {
				if s.cells[d] > e.seen[d] {
					due = true
					break
				}
			}
			if !due {
				continue
			}
			for _, d := range e.deps {
				e.seen[d] = s.cells[d]
			}
			e.fn()
			ran = true
		}
		if !ran {
			return
		}
	}
	s.log.Warn("effect graph did not settle", logger.Int("passes", maxEffectPasses))
}

func (s *Session) registerEffects() {
	s.effects = []*effect{
		{name: "focus-search", deps: []cell{cellMode}, fn: s.effectFocusSearch},
		{name: "reset-keyword", deps: []cell{cellMode}, fn: s.effectResetKeyword},
		{name: "propagate-folder", deps: []cell{cellFolder}, fn: s.effectPropagateFolder},
		{name: "load-folder", deps: []cell{cellFolder}, fn: s.effectLoadFolder},
		{name: "fetch-content", deps: []cell{cellOpenID}, fn: s.effectFetchContent},
		{name: "clear-selection", deps: []cell{cellOpenID, cellMode}, fn: s.effectClearSelection},
	}
}

// effectFocusSearch requests search-input focus whenever a search session
// becomes active.
func (s *Session) effectFocusSearch() {
	if s.mode == domain.ModeInactive {
		return
	}
	s.focusSeq++
	if h := s.hooks.FocusSearch; h != nil {
		go h()
	}
}

// effectResetKeyword clears the keyword on every mode transition so a new
// search session never starts pre-filtered by the previous one.
func (s *Session) effectResetKeyword() {
	if s.keyword == "" {
		return
	}
	s.keyword = ""
	s.bumpLocked(cellKeyword)
}

// effectPropagateFolder points the store at the active folder. This is a
// memory-only retarget; loading happens in effectLoadFolder.
func (s *Session) effectPropagateFolder() {
	s.store.SetFolder(s.folder)
}

// effectLoadFolder reloads the working set from disk when the folder
// changes. The load runs asynchronously; results land in the collection
// and come back as a collection-cell bump.
func (s *Session) effectLoadFolder() {
	folder := s.folder
	if folder == "" {
		return
	}
	ctx := s.runCtx

	go func() {
		if err := s.store.LoadFolder(ctx, folder); err != nil {
			s.log.Error("folder load failed",
				logger.String("folder", folder),
				logger.Error(err))
		}
	}()

	if h := s.hooks.FolderOpened; h != nil {
		go h(folder)
	}
}

// effectFetchContent loads the open snippet's content into the buffer.
// Every launch takes a generation ticket; a completion whose generation or
// snippet id is no longer current is discarded, so a slow fetch can never
// clobber the buffer of a snippet opened later.
func (s *Session) effectFetchContent() {
	id := s.openID
	if id == "" {
		// Closing the document leaves the buffer as-is.
		return
	}

	s.fetchGen++
	gen := s.fetchGen
	edits := s.editSeq
	ctx := s.runCtx

	go func() {
		text, err := s.store.ReadSnippetContent(ctx, id)
		s.completeFetch(id, gen, edits, text, err)
	}()
}

func (s *Session) completeFetch(id string, gen, edits uint64, text string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.fetchGen || id != s.openID {
		s.log.Debug("discarding superseded content fetch",
			logger.String("snippet", id),
			logger.Uint64("generation", gen))
		return
	}
	if edits != s.editSeq {
		// The user typed while the fetch was in flight; their buffer is
		// newer than the disk state this fetch read.
		s.log.Debug("discarding content fetch overtaken by local edits",
			logger.String("snippet", id))
		return
	}
	if err != nil {
		s.log.Error("content fetch failed",
			logger.String("snippet", id),
			logger.Error(err))
		return
	}

	s.content = text
	s.contentID = id
	s.revision++

	// Record the loaded value so saving without changes issues no write.
	s.contentWriter.setConfirmed(id, text)
}

// effectClearSelection drops the explicit multi-select whenever the open
// snippet or the mode changes; the old selection belongs to the old view.
func (s *Session) effectClearSelection() {
	if len(s.selected) == 0 {
		return
	}
	s.selected = make(map[string]struct{})
	s.revision++
}
