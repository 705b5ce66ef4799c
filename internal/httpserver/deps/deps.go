package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
	"github.com/lucifer1004/dropcode/internal/session"
	redisstore "github.com/lucifer1004/dropcode/internal/store/redis"
)

// ContentReader serves snippet bodies straight from the store, bypassing
// the session buffer. Handlers use it for snippets that are not open.
type ContentReader interface {
	ReadSnippetContent(ctx context.Context, id string) (string, error)
}

// FolderChecker reports whether the active folder is still usable.
type FolderChecker interface {
	Folder() string
	CheckFolder() domain.FolderStatus
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to reach the API (loopback by default)
	TrustProxy   bool     // true if running behind a trusted reverse proxy

	Session    *session.Session       // reactive session core
	Collection *collection.Collection // shared in-memory working set
	Store      FolderChecker          // folder-level store health
	Contents   ContentReader          // direct content reads
	History    *redisstore.Store      // folder history, nil-safe when redis is absent
	Catalog    *domain.Catalog        // language catalog

	RedisClient     *redis.Client // raw client for health probes, may be nil
	HistoryLimit    int           // recent folder entries kept
	EnableClipboard bool          // expose the copy-to-clipboard route
	ExportFile      string        // VS Code export target, empty = disabled
	ReloadTrigger   chan struct{} // channel to trigger a manual folder reload
}
