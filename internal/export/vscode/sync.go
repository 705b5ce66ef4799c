// Package vscode exports snippets into a VS Code .code-snippets file.
// Only active snippets with an export prefix participate. Entries the
// file holds that were not written by us survive a sync untouched, so
// pointing the export at a hand-maintained snippets file is safe.
package vscode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// ContentReader supplies snippet bodies for export.
type ContentReader interface {
	ReadSnippetContent(ctx context.Context, id string) (string, error)
}

// Entry is one snippet in the VS Code file. ManagedBy carries our
// snippet id so stale entries can be swept on the next sync; VS Code
// ignores the extra field.
type Entry struct {
	Prefix      string   `json:"prefix"`
	Body        []string `json:"body"`
	Scope       string   `json:"scope,omitempty"`
	Description string   `json:"description,omitempty"`
	ManagedBy   string   `json:"__dropcode,omitempty"`
}

// Syncer regenerates the export file from the current collection.
type Syncer struct {
	path     string
	col      *collection.Collection
	contents ContentReader
	catalog  *domain.Catalog
	log      logger.Logger
}

// New wires a syncer. An empty path disables exporting.
func New(path string, col *collection.Collection, contents ContentReader, catalog *domain.Catalog, log logger.Logger) *Syncer {
	return &Syncer{
		path:     path,
		col:      col,
		contents: contents,
		catalog:  catalog,
		log:      log,
	}
}

// Enabled reports whether a target file is configured.
func (s *Syncer) Enabled() bool {
	return s != nil && s.path != ""
}

// Sync writes every exportable snippet into the target file, keeping
// foreign entries and dropping our stale ones.
func (s *Syncer) Sync(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	foreign, err := readForeignEntries(s.path)
	if err != nil {
		return err
	}

	out := make(map[string]json.RawMessage, len(foreign))
	for key, raw := range foreign {
		out[key] = raw
	}

	managed := 0
	for _, snip := range s.col.Snapshot() {
		if snip.Trashed() || snip.ExportPrefix == "" {
			continue
		}

		content, err := s.contents.ReadSnippetContent(ctx, snip.ID)
		if err != nil {
			return fmt.Errorf("read content of %s: %w", snip.ID, err)
		}

		entry := Entry{
			Prefix:      snip.ExportPrefix,
			Body:        strings.Split(content, "\n"),
			Scope:       s.catalog.ScopeFor(snip.Language),
			Description: snip.Name,
			ManagedBy:   snip.ID,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode entry for %s: %w", snip.ID, err)
		}

		out[entryKey(out, snip)] = data
		managed++
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	payload = append(payload, '\n')
	if err := atomic.WriteFile(s.path, bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	s.log.Debug("vscode snippets synced",
		logger.String("file", s.path),
		logger.Int("managed", managed),
		logger.Int("foreign", len(foreign)))
	return nil
}

// entryKey derives the file key for a snippet, dodging collisions with
// entries already placed.
func entryKey(out map[string]json.RawMessage, snip domain.Snippet) string {
	key := snip.Name
	if key == "" {
		key = snip.ID
	}
	if _, taken := out[key]; !taken {
		return key
	}

	suffix := snip.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s (%s)", key, suffix)
}

// readForeignEntries parses the existing file and keeps only entries we
// do not manage. VS Code snippet files may carry comments and trailing
// commas, so the raw bytes go through hujson before decoding.
func readForeignEntries(path string) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(std, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	foreign := make(map[string]json.RawMessage, len(entries))
	for key, entry := range entries {
		var probe struct {
			ManagedBy string `json:"__dropcode"`
		}
		if err := json.Unmarshal(entry, &probe); err == nil && probe.ManagedBy != "" {
			continue
		}
		foreign[key] = entry
	}
	return foreign, nil
}
