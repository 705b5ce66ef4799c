package domain

import "time"

// Snippet represents one text snippet of the working set.
//
// It is NOT tied to the on-disk layout, the HTTP surface or any external
// source; every input (folder index, session edits) is merged into this
// structure. The content body is deliberately absent: it is streamed
// separately and only the currently open document keeps an in-memory buffer.
//
// A Snippet is uniquely identified by its ID.
type Snippet struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (ULID).
	ID string `json:"id"`

	// ─────────────────────────────
	// Descriptive attributes
	// ─────────────────────────────

	// Name is the user-visible title. Searched case-insensitively.
	Name string `json:"name"`

	// Language is the catalog id of the snippet's language.
	// Example: "go", "typescript". Defaults to plaintext.
	Language string `json:"language,omitempty"`

	// ExportPrefix, when non-empty, opts the snippet into the external
	// editor-snippet export (VS Code prefix trigger).
	ExportPrefix string `json:"exportPrefix,omitempty"`

	// ─────────────────────────────
	// Timestamps
	// ─────────────────────────────

	// CreatedAt is set once at creation. Drives the active list order.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is bumped on any mutation.
	UpdatedAt time.Time `json:"updatedAt"`

	// ─────────────────────────────
	// Lifecycle & cleanup
	// ─────────────────────────────

	// DeletedAt marks the snippet as trashed when present. It is only
	// ever cleared by an explicit restore, never by other mutations.
	// Trashed snippets stay on disk until purged.
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Trashed reports whether the snippet currently sits in the trash.
func (s *Snippet) Trashed() bool {
	return s.DeletedAt != nil
}

// Field names an updatable snippet attribute.
type Field string

const (
	FieldName         Field = "name"
	FieldLanguage     Field = "language"
	FieldExportPrefix Field = "exportPrefix"
)

// Valid reports whether f is one of the updatable fields.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldLanguage, FieldExportPrefix:
		return true
	}
	return false
}

// SearchMode selects which slice of the collection the session is looking at.
// Modes are mutually exclusive: entering one leaves the others.
type SearchMode string

const (
	// ModeInactive shows the plain active list, no keyword filtering.
	ModeInactive SearchMode = "inactive"

	// ModeSearch filters active snippets by the session keyword.
	ModeSearch SearchMode = "search"

	// ModeTrash shows trashed snippets only.
	ModeTrash SearchMode = "trash"
)

// Valid reports whether m is a known search mode.
func (m SearchMode) Valid() bool {
	switch m {
	case ModeInactive, ModeSearch, ModeTrash:
		return true
	}
	return false
}

// ParseSearchMode maps the wire value to a SearchMode. The empty string is
// the inactive mode so navigation channels can omit it entirely.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch s {
	case "", string(ModeInactive):
		return ModeInactive, true
	case string(ModeSearch):
		return ModeSearch, true
	case string(ModeTrash):
		return ModeTrash, true
	}
	return ModeInactive, false
}
