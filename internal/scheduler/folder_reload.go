// Package scheduler holds the daemon's background loops: folder watching
// and reloading, debounced VS Code export, session persistence and folder
// history pruning. Every loop follows the same shape: immediate run on
// start, then a select over its triggers until Stop or context cancel.
package scheduler

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/store/file"
)

// FolderReloader keeps the collection in step with the folder on disk:
// it re-reads the folder on a timer, on demand, and (when watching is
// enabled) shortly after the files change underneath us.
type FolderReloader struct {
	store         *file.Store
	col           *collection.Collection
	logger        logger.Logger
	interval      time.Duration
	settle        time.Duration
	watch         bool
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewFolderReloader creates a new folder reloader. The manual trigger
// channel is shared with the HTTP reload endpoint.
func NewFolderReloader(
	store *file.Store,
	col *collection.Collection,
	log logger.Logger,
	interval time.Duration,
	settle time.Duration,
	watch bool,
	manualTrigger chan struct{},
) *FolderReloader {
	return &FolderReloader{
		store:         store,
		col:           col,
		logger:        log,
		interval:      interval,
		settle:        settle,
		watch:         watch,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the reload loop.
func (fr *FolderReloader) Start(ctx context.Context) error {
	var watcher *fsnotify.Watcher
	if fr.watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			// The daemon still works without the watcher; periodic and
			// manual reloads cover the gap.
			fr.logger.Warn("folder watcher unavailable, falling back to periodic reload",
				logger.Error(err))
		} else {
			watcher = w
		}
	}

	go fr.run(ctx, watcher)
	return nil
}

// Stop stops the reloader.
func (fr *FolderReloader) Stop() {
	close(fr.stopCh)
}

func (fr *FolderReloader) run(ctx context.Context, watcher *fsnotify.Watcher) {
	ticker := time.NewTicker(fr.interval)
	defer ticker.Stop()

	if watcher != nil {
		defer func() {
			if err := watcher.Close(); err != nil {
				fr.logger.Warn("closing folder watcher", logger.Error(err))
			}
		}()
	}

	// Events settle before triggering a reload so a burst of writes (our
	// own atomic renames included) folds into a single pass.
	settle := time.NewTimer(time.Hour)
	settle.Stop()
	defer settle.Stop()

	colCh := fr.col.Subscribe()
	watched := ""
	if watcher != nil {
		watched = fr.retargetWatch(watcher, watched)
	}

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	for {
		select {
		case <-ticker.C:
			fr.reload(ctx)

		case <-fr.manualTrigger:
			fr.logger.Info("manual folder reload triggered")
			fr.reload(ctx)

		case <-colCh:
			// The active folder may have changed; follow it.
			if watcher != nil {
				watched = fr.retargetWatch(watcher, watched)
			}

		case ev := <-events:
			if ev.Op == fsnotify.Chmod {
				continue
			}
			settle.Reset(fr.settle)

		case err := <-watchErrs:
			if err != nil {
				fr.logger.Warn("folder watcher error", logger.Error(err))
			}

		case <-settle.C:
			fr.logger.Debug("folder changed on disk, reloading")
			fr.reload(ctx)

		case <-fr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Reload re-reads the active folder. With no folder selected it is a
// no-op.
func (fr *FolderReloader) Reload(ctx context.Context) error {
	folder := fr.store.Folder()
	if folder == "" {
		return nil
	}
	return fr.store.LoadFolder(ctx, folder)
}

func (fr *FolderReloader) reload(ctx context.Context) {
	if err := fr.Reload(ctx); err != nil {
		fr.logger.Error("folder reload failed", logger.Error(err))
	}
}

// retargetWatch points the watcher at the active folder, returning the
// path now being watched.
func (fr *FolderReloader) retargetWatch(watcher *fsnotify.Watcher, watched string) string {
	folder := fr.store.Folder()
	if folder == watched {
		return watched
	}

	if watched != "" {
		if err := watcher.Remove(watched); err != nil {
			fr.logger.Debug("removing folder watch",
				logger.String("folder", watched),
				logger.Error(err))
		}
	}
	if folder == "" {
		return ""
	}
	if err := watcher.Add(folder); err != nil {
		fr.logger.Warn("watching folder failed",
			logger.String("folder", folder),
			logger.Error(err))
		return ""
	}

	fr.logger.Debug("watching folder", logger.String("folder", folder))
	return folder
}
