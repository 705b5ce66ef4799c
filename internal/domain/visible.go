package domain

import (
	"sort"
	"strings"
)

// VisibleSnippets computes the ordered list the sidebar shows for a given
// mode and keyword. Pure function over its inputs: it never mutates the
// input slice and is cheap enough to recompute on every keystroke.
//
// A snippet passes when its trash state matches the mode (trashed iff the
// mode is the trash view) and, for a non-empty keyword, its name contains
// the keyword case-insensitively.
//
// Ordering: trashed snippets by deletion time descending (most recently
// trashed first), active snippets by creation time descending (newest
// first). Equal timestamps keep their input order.
func VisibleSnippets(all []Snippet, mode SearchMode, keyword string) []Snippet {
	wantTrashed := mode == ModeTrash
	kw := strings.ToLower(keyword)

	out := make([]Snippet, 0, len(all))
	for _, s := range all {
		if s.Trashed() != wantTrashed {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(s.Name), kw) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DeletedAt != nil && b.DeletedAt != nil {
			return a.DeletedAt.After(*b.DeletedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return out
}

// ContainsSnippet reports whether the list holds a snippet with the given id.
// Used to decide whether the open document joins the effective selection.
func ContainsSnippet(list []Snippet, id string) bool {
	if id == "" {
		return false
	}
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}
