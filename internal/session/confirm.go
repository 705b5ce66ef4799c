package session

import "fmt"

// Confirmer answers a destructive-action prompt. Implementations may block
// while the user decides; the session never holds its state lock across a
// Confirm call.
type Confirmer interface {
	Confirm(p Prompt) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(p Prompt) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(p Prompt) bool { return f(p) }

// PromptAction identifies which lifecycle transition a prompt guards.
type PromptAction string

const (
	PromptTrash      PromptAction = "trash"
	PromptRestore    PromptAction = "restore"
	PromptPurge      PromptAction = "purge"
	PromptEmptyTrash PromptAction = "empty-trash"
)

// Prompt carries the copy for a confirmation dialog. Snippet is the
// display name for single-target prompts; Count covers bulk prompts.
type Prompt struct {
	Action  PromptAction `json:"action"`
	Snippet string       `json:"snippet,omitempty"`
	Count   int          `json:"count"`
}

// Message renders the user-facing prompt text.
func (p Prompt) Message() string {
	switch p.Action {
	case PromptTrash:
		if p.Count > 1 {
			return fmt.Sprintf("Move %d snippets to trash?", p.Count)
		}
		return fmt.Sprintf("Move %q to trash?", p.Snippet)
	case PromptRestore:
		if p.Count > 1 {
			return fmt.Sprintf("Restore %d snippets from trash?", p.Count)
		}
		return fmt.Sprintf("Restore %q from trash?", p.Snippet)
	case PromptPurge:
		return fmt.Sprintf("Permanently delete %q? This cannot be undone.", p.Snippet)
	case PromptEmptyTrash:
		return fmt.Sprintf("Permanently delete %d trashed snippets? This cannot be undone.", p.Count)
	default:
		return "Are you sure?"
	}
}
