// Package app assembles the daemon: config, logger, stores, the reactive
// session, the schedulers and the HTTP surface, in that order, and tears
// them down in reverse.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/config"
	"github.com/lucifer1004/dropcode/internal/export/vscode"
	"github.com/lucifer1004/dropcode/internal/httpserver"
	"github.com/lucifer1004/dropcode/internal/httpserver/deps"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/redis"
	"github.com/lucifer1004/dropcode/internal/scheduler"
	"github.com/lucifer1004/dropcode/internal/session"
	"github.com/lucifer1004/dropcode/internal/sources/languages"
	filestore "github.com/lucifer1004/dropcode/internal/store/file"
	redisstore "github.com/lucifer1004/dropcode/internal/store/redis"
	"github.com/lucifer1004/dropcode/internal/utils"
	"github.com/lucifer1004/dropcode/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client

	session       *session.Session
	folderReload  *scheduler.FolderReloader
	exportSync    *scheduler.ExportSyncer
	sessionSync   *scheduler.SessionSyncer
	historyPruner *scheduler.HistoryPruner
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	catalog, err := languages.BuildCatalog(cfg.LanguagesFile, loggerClient.Named("languages"))
	if err != nil {
		return nil, fmt.Errorf("language catalog: %w", err)
	}

	col := collection.New()
	store := filestore.New(col, loggerClient.Named("store"))

	// Redis is the optional history backend. A desktop daemon must come
	// up with or without it, so a failed connect only disables history.
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redis.Connect(redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient.Named("redis"))
		if err != nil {
			loggerClient.Warn("redis unavailable, folder history disabled", logger.Error(err))
			redisClient = nil
		}
	} else {
		loggerClient.Info("redis not configured, folder history disabled")
	}
	history := redisstore.NewStore(redisClient)

	hooks := session.Hooks{
		FolderOpened: func(path string) {
			if !history.Enabled() {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := history.TouchFolder(ctx, path, time.Now(), cfg.HistoryLimit); err != nil {
				loggerClient.Warn("recording folder visit failed",
					logger.String("folder", path),
					logger.Error(err))
			}
		},
	}

	sess := session.New(session.Config{
		DebounceWindow: cfg.DebounceWindow,
		Languages:      catalog,
	}, store, col, hooks, loggerClient.Named("session"))

	reloadTrigger := make(chan struct{}, 1)
	folderReload := scheduler.NewFolderReloader(
		store, col, loggerClient.Named("reload"),
		cfg.ReloadInterval, cfg.WatchSettle, cfg.WatchFolder, reloadTrigger,
	)

	exportSync := scheduler.NewExportSyncer(
		vscode.New(cfg.VSCodeSnippetFile, col, store, catalog, loggerClient.Named("vscode")),
		col, loggerClient.Named("vscode"), cfg.ExportDebounce,
	)

	sessionSync := scheduler.NewSessionSyncer(history, sess, loggerClient.Named("session-sync"))
	historyPruner := scheduler.NewHistoryPruner(history, loggerClient.Named("history-gc"), cfg.HistoryGCInterval)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		Session:         sess,
		Collection:      col,
		Store:           store,
		Contents:        store,
		History:         history,
		Catalog:         catalog,
		RedisClient:     redisClient,
		HistoryLimit:    cfg.HistoryLimit,
		EnableClipboard: cfg.EnableClipboard,
		ExportFile:      cfg.VSCodeSnippetFile,
		ReloadTrigger:   reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient.Named("http"), d)

	return &App{
		cfg:           cfg,
		logger:        loggerClient,
		server:        server,
		redisClient:   redisClient,
		session:       sess,
		folderReload:  folderReload,
		exportSync:    exportSync,
		sessionSync:   sessionSync,
		historyPruner: historyPruner,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("starting dropcode",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("built", version.BuildDate),
		logger.String("go", version.GoVersion),
		logger.String("addr", a.cfg.ListenAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.session.Start(ctx)

	// An explicitly configured folder opens first; otherwise the session
	// syncer restores wherever the user left off.
	if a.cfg.Folder != "" {
		a.session.SetNav(a.cfg.Folder, "")
	}
	if err := a.sessionSync.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session syncer: %w", err)
	}

	if err := a.folderReload.Start(ctx); err != nil {
		return fmt.Errorf("failed to start folder reloader: %w", err)
	}
	a.logger.Info("folder reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Bool("watch", a.cfg.WatchFolder))

	if err := a.exportSync.Start(ctx); err != nil {
		return fmt.Errorf("failed to start export syncer: %w", err)
	}

	if err := a.historyPruner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start history pruner: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.folderReload.Stop()
	a.exportSync.Stop()
	a.historyPruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Flush pending debounced edits before the final session save so a
	// quit right after typing loses nothing.
	a.session.Close()
	a.sessionSync.Stop()

	if a.redisClient != nil {
		utils.Close(a.redisClient)
		a.logger.Info("redis closed")
	}

	a.logger.Info("dropcode stopped cleanly")
	return nil
}
