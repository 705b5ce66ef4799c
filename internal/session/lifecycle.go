package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

var (
	// ErrConfirmationPending rejects a lifecycle call while another prompt
	// for the same snippet is still waiting on an answer.
	ErrConfirmationPending = errors.New("confirmation already pending for this snippet")

	// ErrUnknownMode rejects a search mode outside the known set.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrUnknownField rejects an update to an attribute that does not exist.
	ErrUnknownField = errors.New("unknown snippet field")

	// ErrUnknownLanguage rejects a language id missing from the catalog.
	ErrUnknownLanguage = errors.New("unknown language")
)

// ToggleTrash moves an active snippet to trash or restores a trashed one,
// after confirmation. A declined prompt and a stale id both end silently;
// only persistence failures surface as errors.
func (s *Session) ToggleTrash(ctx context.Context, id string, confirm Confirmer) error {
	snip, ok := s.col.Get(id)
	if !ok {
		s.log.Warn("trash toggle on unknown snippet, ignored", logger.String("snippet", id))
		return nil
	}

	if err := s.beginConfirm(id); err != nil {
		return err
	}
	defer s.endConfirm(id)

	restoring := snip.Trashed()
	action := PromptTrash
	if restoring {
		action = PromptRestore
	}

	if !confirm.Confirm(Prompt{Action: action, Snippet: snip.Name, Count: 1}) {
		s.log.Debug("trash toggle declined",
			logger.String("snippet", id),
			logger.Bool("restoring", restoring))
		return nil
	}

	if err := s.store.MoveSnippetsToTrash(ctx, []string{id}, restoring); err != nil {
		return fmt.Errorf("toggle trash: %w", err)
	}
	return nil
}

// BulkToggleTrash applies one trash-or-restore transition to the whole
// effective selection. The direction comes from the mode: in trash view
// everything restores, otherwise everything trashes. On success the
// explicit selection is cleared.
func (s *Session) BulkToggleTrash(ctx context.Context, confirm Confirmer) error {
	s.mu.Lock()
	ids := s.effectiveSelectionLocked()
	restoring := s.mode == domain.ModeTrash
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := s.beginConfirm(ids...); err != nil {
		return err
	}
	defer s.endConfirm(ids...)

	action := PromptTrash
	if restoring {
		action = PromptRestore
	}
	prompt := Prompt{Action: action, Count: len(ids)}
	if len(ids) == 1 {
		if snip, ok := s.col.Get(ids[0]); ok {
			prompt.Snippet = snip.Name
		}
	}

	if !confirm.Confirm(prompt) {
		s.log.Debug("bulk trash toggle declined",
			logger.Int("count", len(ids)),
			logger.Bool("restoring", restoring))
		return nil
	}

	if err := s.store.MoveSnippetsToTrash(ctx, ids, restoring); err != nil {
		return fmt.Errorf("bulk toggle trash: %w", err)
	}

	s.clearSelection()
	return nil
}

// Purge permanently removes a single trashed snippet after confirmation.
// Active snippets cannot be purged; they go through trash first.
func (s *Session) Purge(ctx context.Context, id string, confirm Confirmer) error {
	snip, ok := s.col.Get(id)
	if !ok {
		s.log.Warn("purge of unknown snippet, ignored", logger.String("snippet", id))
		return nil
	}
	if !snip.Trashed() {
		s.log.Warn("purge of active snippet, ignored",
			logger.String("snippet", id),
			logger.String("name", snip.Name))
		return nil
	}

	if err := s.beginConfirm(id); err != nil {
		return err
	}
	defer s.endConfirm(id)

	if !confirm.Confirm(Prompt{Action: PromptPurge, Snippet: snip.Name, Count: 1}) {
		s.log.Debug("purge declined", logger.String("snippet", id))
		return nil
	}

	if err := s.store.DeleteSnippetForever(ctx, id); err != nil {
		return fmt.Errorf("purge snippet: %w", err)
	}
	return nil
}

// EmptyTrash permanently removes every trashed snippet after a single
// confirmation. With an empty trash it is a no-op and asks nothing.
func (s *Session) EmptyTrash(ctx context.Context, confirm Confirmer) error {
	var ids []string
	for _, snip := range s.col.Snapshot() {
		if snip.Trashed() {
			ids = append(ids, snip.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.beginConfirm(ids...); err != nil {
		return err
	}
	defer s.endConfirm(ids...)

	if !confirm.Confirm(Prompt{Action: PromptEmptyTrash, Count: len(ids)}) {
		s.log.Debug("empty trash declined", logger.Int("count", len(ids)))
		return nil
	}

	if err := s.store.EmptyTrash(ctx); err != nil {
		return fmt.Errorf("empty trash: %w", err)
	}
	return nil
}

// beginConfirm reserves the given snippets for one in-flight prompt. It
// is all-or-nothing: if any snippet already has a prompt pending, nothing
// is reserved.
func (s *Session) beginConfirm(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, busy := s.pendingConfirm[id]; busy {
			return fmt.Errorf("%w: %s", ErrConfirmationPending, id)
		}
	}
	for _, id := range ids {
		s.pendingConfirm[id] = struct{}{}
	}
	return nil
}

func (s *Session) endConfirm(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.pendingConfirm, id)
	}
}
