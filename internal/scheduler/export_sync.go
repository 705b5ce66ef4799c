package scheduler

import (
	"context"
	"time"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/export/vscode"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// ExportSyncer follows collection changes and regenerates the VS Code
// snippets file once the changes quiet down. Edits arrive in bursts;
// the debounce keeps the export from rewriting the file per keystroke.
type ExportSyncer struct {
	syncer   *vscode.Syncer
	col      *collection.Collection
	logger   logger.Logger
	debounce time.Duration
	stopCh   chan struct{}
}

// NewExportSyncer creates a new export syncer.
func NewExportSyncer(
	syncer *vscode.Syncer,
	col *collection.Collection,
	log logger.Logger,
	debounce time.Duration,
) *ExportSyncer {
	return &ExportSyncer{
		syncer:   syncer,
		col:      col,
		logger:   log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}
}

// Start syncs once and then begins following collection changes. With
// exporting disabled the loop never starts.
func (es *ExportSyncer) Start(ctx context.Context) error {
	if !es.syncer.Enabled() {
		es.logger.Debug("vscode export disabled, syncer idle")
		return nil
	}

	if err := es.syncer.Sync(ctx); err != nil {
		es.logger.Warn("initial vscode export failed", logger.Error(err))
	}

	go es.run(ctx)
	return nil
}

// Stop stops the syncer.
func (es *ExportSyncer) Stop() {
	close(es.stopCh)
}

func (es *ExportSyncer) run(ctx context.Context) {
	colCh := es.col.Subscribe()

	quiet := time.NewTimer(time.Hour)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-colCh:
			quiet.Reset(es.debounce)

		case <-quiet.C:
			if err := es.syncer.Sync(ctx); err != nil {
				es.logger.Error("vscode export failed", logger.Error(err))
			}

		case <-es.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
