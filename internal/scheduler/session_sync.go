package scheduler

import (
	"context"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/session"
	redisstore "github.com/lucifer1004/dropcode/internal/store/redis"
)

// DefaultSaveInterval is how often the navigation state is persisted.
const DefaultSaveInterval = 30 * time.Second

// sessionVault is the slice of the history store the syncer needs.
type sessionVault interface {
	SaveSession(ctx context.Context, state redisstore.SessionState) error
	LoadSession(ctx context.Context) (redisstore.SessionState, bool, error)
}

// SessionSyncer restores the last navigation state on startup and keeps
// persisting it while the daemon runs, so closing and reopening lands
// the user where they left off.
type SessionSyncer struct {
	vault    sessionVault
	session  *session.Session
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSessionSyncer creates a new session syncer.
func NewSessionSyncer(vault sessionVault, sess *session.Session, log logger.Logger) *SessionSyncer {
	return &SessionSyncer{
		vault:    vault,
		session:  sess,
		logger:   log,
		interval: DefaultSaveInterval,
		stopCh:   make(chan struct{}),
	}
}

// Start restores the saved state and begins the periodic save loop.
func (ss *SessionSyncer) Start(ctx context.Context) error {
	if err := ss.Restore(ctx); err != nil {
		ss.logger.Warn("session restore failed", logger.Error(err))
	}

	go ss.run(ctx)
	return nil
}

// Stop persists one final time and stops the loop.
func (ss *SessionSyncer) Stop() {
	close(ss.stopCh)

	saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ss.save(saveCtx)
}

// Restore applies the saved navigation state. An explicitly configured
// folder wins over the saved one, and a folder that vanished since the
// last run is skipped rather than restored broken.
func (ss *SessionSyncer) Restore(ctx context.Context) error {
	if ss.session.Folder() != "" {
		ss.logger.Debug("folder already open, skipping session restore")
		return nil
	}

	state, ok, err := ss.vault.LoadSession(ctx)
	if err != nil {
		return err
	}
	if !ok || state.Folder == "" {
		return nil
	}

	if status := domain.CheckFolder(state.Folder); status != domain.FolderOK {
		ss.logger.Warn("saved folder no longer usable, skipping restore",
			logger.String("folder", state.Folder),
			logger.String("status", status.String()))
		return nil
	}

	ss.session.SetNav(state.Folder, state.SnippetID)
	if state.Mode.Valid() {
		if err := ss.session.SetMode(state.Mode); err != nil {
			return err
		}
	}

	ss.logger.Info("session restored",
		logger.String("folder", state.Folder),
		logger.String("snippet", state.SnippetID),
		logger.String("mode", string(state.Mode)))
	return nil
}

func (ss *SessionSyncer) run(ctx context.Context) {
	ticker := time.NewTicker(ss.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ss.save(ctx)
		case <-ss.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (ss *SessionSyncer) save(ctx context.Context) {
	view := ss.session.Snapshot()
	if view.Folder == "" {
		return
	}

	state := redisstore.SessionState{
		Folder:    view.Folder,
		SnippetID: view.OpenID,
		Mode:      view.Mode,
	}
	if err := ss.vault.SaveSession(ctx, state); err != nil {
		ss.logger.Warn("session save failed", logger.Error(err))
	}
}
