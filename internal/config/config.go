package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:8090"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Folder            string        // initial snippet folder (empty = restore last session from history)
	LanguagesFile     string        // path to a languages.yaml override (optional, empty = built-in catalog)
	VSCodeSnippetFile string        // target .code-snippets file (optional, empty = export disabled)
	DebounceWindow    time.Duration // edit write-back coalescing window (default: 250ms)
	WatchFolder       bool          // watch the active folder for external changes
	WatchSettle       time.Duration // quiet period after a watch event before reloading (default: 500ms)
	ReloadInterval    time.Duration // periodic folder resync interval (default: 5m)
	ExportDebounce    time.Duration // quiet period before rewriting the VS Code snippet file (default: 2s)
	HistoryLimit      int           // recent folder entries kept (default: 20)
	HistoryGCInterval time.Duration // prune interval for history entries whose folder is gone (default: 12h)
	EnableClipboard   bool          // expose the copy-to-clipboard endpoint

	// Redis (optional, empty addr = folder history kept in memory only)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 15s)
	RedisRetryInterval  time.Duration // initial wait between retries (ex: 1s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts     []string // optional, restrict access to specific Host headers
	AllowedCIDRS     []string // restrict access to specific IPs/CIDRs (default: loopback only)
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	RateBurst        int      // token bucket burst per client
	RateRefillPerMin int      // token refill per client per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("DROPCODE_LISTEN_ADDR", "127.0.0.1:8090"),
		ShutdownTimeout: mustDuration("DROPCODE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("DROPCODE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DROPCODE_PRETTY_LOG", true),

		// Session
		Folder:            getenv("DROPCODE_FOLDER", ""), // Optional, empty = restore last session
		LanguagesFile:     getenv("DROPCODE_LANGUAGES_FILE", ""),
		VSCodeSnippetFile: getenv("DROPCODE_VSCODE_SNIPPET_FILE", ""), // Optional, empty = export disabled
		DebounceWindow:    mustDuration("DROPCODE_DEBOUNCE_WINDOW", 250*time.Millisecond),
		WatchFolder:       mustBool("DROPCODE_WATCH_FOLDER", true),
		WatchSettle:       mustDuration("DROPCODE_WATCH_SETTLE", 500*time.Millisecond),
		ReloadInterval:    mustDuration("DROPCODE_RELOAD_INTERVAL", 5*time.Minute),
		ExportDebounce:    mustDuration("DROPCODE_EXPORT_DEBOUNCE", 2*time.Second),
		HistoryLimit:      getenvInt("DROPCODE_HISTORY_LIMIT", 20),
		HistoryGCInterval: mustDuration("DROPCODE_HISTORY_GC_INTERVAL", 12*time.Hour),
		EnableClipboard:   mustBool("DROPCODE_ENABLE_CLIPBOARD", true),

		// Redis settings
		RedisAddr:           getenv("DROPCODE_REDIS_ADDR", ""), // Optional, empty = history in memory only
		RedisUser:           getenv("DROPCODE_REDIS_USERNAME", ""),
		RedisPassword:       getenv("DROPCODE_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("DROPCODE_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 15*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 1*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions: a session daemon is loopback-only unless told otherwise.
		AllowedHosts:     splitAndTrim(getenv("DROPCODE_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     splitAndTrim(getenv("DROPCODE_ALLOWED_CIDRS", "127.0.0.0/8, ::1/128")),
		TrustProxy:       mustBool("DROPCODE_TRUST_PROXY", false),
		RateBurst:        getenvInt("DROPCODE_RATE_BURST", 30),
		RateRefillPerMin: getenvInt("DROPCODE_RATE_REFILL_PER_MIN", 300),
	}

	// A zero or negative window would turn every keystroke into a disk write.
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = 250 * time.Millisecond
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
