package session

import (
	"sort"

	"github.com/lucifer1004/dropcode/internal/domain"
)

// ToggleSelect flips a snippet's membership in the explicit multi-select.
// Toggling twice restores the original state.
func (s *Session) ToggleSelect(id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
	s.revision++
}

// Selected returns the explicit selection in stable order.
func (s *Session) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedLocked()
}

func (s *Session) selectedLocked() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsHighlighted reports whether a row renders highlighted: it is either
// the open snippet or explicitly selected.
func (s *Session) IsHighlighted(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.openID {
		return true
	}
	_, ok := s.selected[id]
	return ok
}

// EffectiveSelection is the set bulk operations act on: the explicit
// selection plus the open snippet, but the open snippet only counts when
// it is visible under the current mode and keyword.
func (s *Session) EffectiveSelection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.effectiveSelectionLocked()
}

func (s *Session) effectiveSelectionLocked() []string {
	ids := s.selectedLocked()

	open := s.openID
	if open == "" {
		return ids
	}
	if _, ok := s.selected[open]; ok {
		return ids
	}

	visible := domain.VisibleSnippets(s.col.Snapshot(), s.mode, s.keyword)
	if domain.ContainsSnippet(visible, open) {
		ids = append(ids, open)
	}
	return ids
}

func (s *Session) clearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == 0 {
		return
	}
	s.selected = make(map[string]struct{})
	s.revision++
}
