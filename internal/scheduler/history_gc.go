package scheduler

import (
	"context"
	"time"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
	redisstore "github.com/lucifer1004/dropcode/internal/store/redis"
)

// HistoryPruner drops folders from the recent-folders history once they
// stop existing on disk. Deleted vaults should not haunt the folder
// picker forever.
type HistoryPruner struct {
	history  *redisstore.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewHistoryPruner creates a new history pruner.
func NewHistoryPruner(history *redisstore.Store, log logger.Logger, interval time.Duration) *HistoryPruner {
	return &HistoryPruner{
		history:  history,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic prune.
func (hp *HistoryPruner) Start(ctx context.Context) error {
	if !hp.history.Enabled() {
		hp.logger.Debug("history disabled, pruner idle")
		return nil
	}

	if err := hp.Prune(ctx); err != nil {
		hp.logger.Warn("initial history prune failed", logger.Error(err))
	}

	ticker := time.NewTicker(hp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := hp.Prune(ctx); err != nil {
					hp.logger.Error("history prune failed", logger.Error(err))
				}
			case <-hp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner.
func (hp *HistoryPruner) Stop() {
	close(hp.stopCh)
}

// Prune removes history entries whose folders are gone.
func (hp *HistoryPruner) Prune(ctx context.Context) error {
	paths, err := hp.history.AllFolders(ctx)
	if err != nil {
		return err
	}

	dead := deadFolders(paths)
	if len(dead) == 0 {
		hp.logger.Debug("no history entries to prune")
		return nil
	}

	if err := hp.history.RemoveFolders(ctx, dead...); err != nil {
		return err
	}

	hp.logger.Info("pruned folder history",
		logger.Int("removed", len(dead)),
		logger.Strings("folders", dead))
	return nil
}

// deadFolders keeps the paths that no longer point at a directory.
// Unwritable folders stay in the history; they still exist and may be
// remounted writable later.
func deadFolders(paths []string) []string {
	var dead []string
	for _, path := range paths {
		switch domain.CheckFolder(path) {
		case domain.FolderMissing, domain.FolderNotDir:
			dead = append(dead, path)
		}
	}
	return dead
}
