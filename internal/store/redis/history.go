// Package redis mirrors session metadata into redis: which folders were
// opened when and how often, plus the last navigation state. Everything
// here is best-effort; a nil *Store disables the mirror entirely and all
// operations become no-ops.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store handles redis operations for folder history and session restore.
type Store struct {
	client *redis.Client
}

// NewStore wraps a connected client. Passing the result around as a nil
// *Store is the supported way to run without redis.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Enabled reports whether a backend is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Client exposes the underlying connection for health checks.
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// FolderVisit is one entry of the recent-folders list.
type FolderVisit struct {
	Path         string    `json:"path"`
	LastOpenedAt time.Time `json:"lastOpenedAt"`
	Opens        int64     `json:"opens"`
}

// TouchFolder records a folder activation: bumps its recency score,
// increments its open counter and trims the history to the given limit.
func (s *Store) TouchFolder(ctx context.Context, path string, at time.Time, limit int) error {
	if !s.Enabled() || path == "" {
		return nil
	}

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, KeyRecentFolders, redis.Z{Score: float64(at.UnixMilli()), Member: path})
	pipe.HIncrBy(ctx, KeyFolderOpens, path, 1)
	if limit > 0 {
		pipe.ZRemRangeByRank(ctx, KeyRecentFolders, 0, int64(-(limit + 1)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record folder visit: %w", err)
	}
	return nil
}

// RecentFolders returns up to n entries, most recently opened first.
func (s *Store) RecentFolders(ctx context.Context, n int) ([]FolderVisit, error) {
	if !s.Enabled() || n <= 0 {
		return nil, nil
	}

	entries, err := s.client.ZRevRangeWithScores(ctx, KeyRecentFolders, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read folder history: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	opens, err := s.client.HGetAll(ctx, KeyFolderOpens).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read folder counters: %w", err)
	}

	visits := make([]FolderVisit, 0, len(entries))
	for _, entry := range entries {
		path, ok := entry.Member.(string)
		if !ok {
			continue
		}
		visit := FolderVisit{
			Path:         path,
			LastOpenedAt: time.UnixMilli(int64(entry.Score)),
		}
		if raw, ok := opens[path]; ok {
			if count, err := strconv.ParseInt(raw, 10, 64); err == nil {
				visit.Opens = count
			}
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// RemoveFolders drops entries from the history, counters included.
func (s *Store) RemoveFolders(ctx context.Context, paths ...string) error {
	if !s.Enabled() || len(paths) == 0 {
		return nil
	}

	members := make([]interface{}, len(paths))
	for i, p := range paths {
		members[i] = p
	}

	pipe := s.client.Pipeline()
	pipe.ZRem(ctx, KeyRecentFolders, members...)
	pipe.HDel(ctx, KeyFolderOpens, paths...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to prune folder history: %w", err)
	}
	return nil
}

// AllFolders lists every path the history knows, oldest first. The
// history pruner walks this to find folders that no longer exist.
func (s *Store) AllFolders(ctx context.Context) ([]string, error) {
	if !s.Enabled() {
		return nil, nil
	}

	paths, err := s.client.ZRange(ctx, KeyRecentFolders, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder history: %w", err)
	}
	return paths, nil
}
