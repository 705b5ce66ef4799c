package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucifer1004/dropcode/internal/domain"
)

// DefaultSessionTTL caps how long a saved session stays restorable. A
// month-old navigation state is noise, not continuity.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionState is the navigation state saved across daemon restarts.
type SessionState struct {
	Folder    string            `json:"folder"`
	SnippetID string            `json:"snippetId,omitempty"`
	Mode      domain.SearchMode `json:"mode"`
	SavedAt   time.Time         `json:"savedAt"`
}

// SaveSession persists the navigation state for the next start.
func (s *Store) SaveSession(ctx context.Context, state SessionState) error {
	if !s.Enabled() {
		return nil
	}

	state.SavedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := s.client.Set(ctx, KeySession, data, DefaultSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

// LoadSession returns the saved navigation state, if any.
func (s *Store) LoadSession(ctx context.Context) (SessionState, bool, error) {
	if !s.Enabled() {
		return SessionState{}, false, nil
	}

	data, err := s.client.Get(ctx, KeySession).Bytes()
	if errors.Is(err, redis.Nil) {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, fmt.Errorf("failed to load session state: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return SessionState{}, false, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return state, true, nil
}
