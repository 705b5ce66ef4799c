// Package file persists a snippet folder on disk: one snippets.json with
// the metadata of every snippet, plus one content file per snippet named
// by its id. All writes go through atomic rename so a crash can never
// leave a half-written vault behind.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"

	"github.com/lucifer1004/dropcode/internal/collection"
	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// MetaFile is the metadata index inside a snippet folder.
const MetaFile = "snippets.json"

var (
	// ErrNoFolder rejects persistence calls before a folder is selected.
	ErrNoFolder = errors.New("no snippet folder selected")

	// ErrUnknownSnippet rejects writes to a snippet the folder does not hold.
	ErrUnknownSnippet = errors.New("unknown snippet")

	// ErrBadSnippetID rejects ids that cannot serve as plain file names.
	ErrBadSnippetID = errors.New("invalid snippet id")
)

// Store is the disk-backed snippet store. It keeps the collection as the
// in-memory mirror of the folder: every successful write lands on disk
// first and is then reflected into the collection.
type Store struct {
	log logger.Logger
	col *collection.Collection

	mu     sync.Mutex
	folder string
}

// New wires a store against the shared collection.
func New(col *collection.Collection, log logger.Logger) *Store {
	return &Store{log: log, col: col}
}

// NewSnippetID mints a sortable unique id that doubles as the content
// file name.
func (s *Store) NewSnippetID() string {
	return ulid.Make().String()
}

// SetFolder retargets the store without touching the disk. The working
// set empties until the next LoadFolder.
func (s *Store) SetFolder(path string) {
	path = domain.CleanFolderPath(path)

	s.mu.Lock()
	s.folder = path
	s.mu.Unlock()

	s.col.SetFolder(path)
}

// Folder returns the active folder path, empty when none is selected.
func (s *Store) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.folder
}

// CheckFolder probes whether the active folder is still present and
// writable. Readiness checks call this; a vault on removable or network
// storage can vanish while the daemon runs.
func (s *Store) CheckFolder() domain.FolderStatus {
	return domain.CheckFolder(s.Folder())
}

// LoadFolder reads the metadata index of the given folder and swaps it
// into the collection. A folder without an index loads as empty; that is
// what a fresh vault looks like.
func (s *Store) LoadFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = domain.CleanFolderPath(path)
	if path == "" {
		return ErrNoFolder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status := domain.CheckFolder(path); status != domain.FolderOK {
		return fmt.Errorf("folder %s: %s", path, status)
	}

	metas, err := readMeta(path)
	if err != nil {
		return err
	}

	s.folder = path
	s.col.SetFolder(path)
	s.col.Replace(metas)

	s.log.Debug("folder loaded",
		logger.String("folder", path),
		logger.Int("snippets", len(metas)))
	return nil
}

// CreateSnippet writes the initial content file and appends the snippet
// to the metadata index.
func (s *Store) CreateSnippet(ctx context.Context, meta domain.Snippet, initialContent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !safeID(meta.ID) {
		return fmt.Errorf("%w: %q", ErrBadSnippetID, meta.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}

	if err := atomic.WriteFile(filepath.Join(folder, meta.ID), strings.NewReader(initialContent)); err != nil {
		return fmt.Errorf("write snippet content: %w", err)
	}

	metas := append(s.col.Snapshot(), meta)
	if err := writeMeta(folder, metas); err != nil {
		return err
	}

	s.col.Upsert(meta)
	return nil
}

// UpdateSnippetContent replaces a snippet's body and touches its
// modification time.
func (s *Store) UpdateSnippetContent(ctx context.Context, id, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !safeID(id) {
		return fmt.Errorf("%w: %q", ErrBadSnippetID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}
	snip, ok := s.col.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSnippet, id)
	}

	if err := atomic.WriteFile(filepath.Join(folder, id), strings.NewReader(content)); err != nil {
		return fmt.Errorf("write snippet content: %w", err)
	}

	snip.UpdatedAt = time.Now()
	if err := s.writeMetaWithLocked(folder, snip); err != nil {
		return err
	}

	s.col.Upsert(snip)
	return nil
}

// UpdateSnippet applies a single attribute update.
func (s *Store) UpdateSnippet(ctx context.Context, id string, field domain.Field, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}
	snip, ok := s.col.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSnippet, id)
	}

	switch field {
	case domain.FieldName:
		snip.Name = value
	case domain.FieldLanguage:
		snip.Language = value
	case domain.FieldExportPrefix:
		snip.ExportPrefix = value
	default:
		return fmt.Errorf("unknown snippet field %q", field)
	}
	snip.UpdatedAt = time.Now()

	if err := s.writeMetaWithLocked(folder, snip); err != nil {
		return err
	}

	s.col.Upsert(snip)
	return nil
}

// MoveSnippetsToTrash stamps or clears deletedAt on every listed snippet.
// Ids the folder no longer holds are skipped; the rest still transition.
func (s *Store) MoveSnippetsToTrash(ctx context.Context, ids []string, restoring bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	now := time.Now()
	metas := s.col.Snapshot()
	var changed []domain.Snippet
	for i := range metas {
		if _, ok := wanted[metas[i].ID]; !ok {
			continue
		}
		if restoring {
			metas[i].DeletedAt = nil
		} else {
			at := now
			metas[i].DeletedAt = &at
		}
		metas[i].UpdatedAt = now
		changed = append(changed, metas[i])
	}
	if len(changed) == 0 {
		return nil
	}

	if err := writeMeta(folder, metas); err != nil {
		return err
	}

	for _, snip := range changed {
		s.col.Upsert(snip)
	}
	return nil
}

// DeleteSnippetForever drops a snippet from the index and removes its
// content file. Deleting a snippet that is already gone is a no-op.
func (s *Store) DeleteSnippetForever(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !safeID(id) {
		return fmt.Errorf("%w: %q", ErrBadSnippetID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}

	metas := s.col.Snapshot()
	keep := metas[:0]
	found := false
	for _, snip := range metas {
		if snip.ID == id {
			found = true
			continue
		}
		keep = append(keep, snip)
	}

	if found {
		if err := writeMeta(folder, keep); err != nil {
			return err
		}
	}
	if err := removeContent(folder, id); err != nil {
		return err
	}

	s.col.Remove(id)
	return nil
}

// EmptyTrash drops every trashed snippet and its content file.
func (s *Store) EmptyTrash(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	folder := s.folder
	if folder == "" {
		return ErrNoFolder
	}

	metas := s.col.Snapshot()
	keep := metas[:0]
	var dead []string
	for _, snip := range metas {
		if snip.Trashed() {
			dead = append(dead, snip.ID)
			continue
		}
		keep = append(keep, snip)
	}
	if len(dead) == 0 {
		return nil
	}

	if err := writeMeta(folder, keep); err != nil {
		return err
	}
	for _, id := range dead {
		if err := removeContent(folder, id); err != nil {
			return err
		}
	}

	s.col.Remove(dead...)
	return nil
}

// ReadSnippetContent returns a snippet's body. An index entry without a
// content file reads as empty rather than failing.
func (s *Store) ReadSnippetContent(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !safeID(id) {
		return "", fmt.Errorf("%w: %q", ErrBadSnippetID, id)
	}

	s.mu.Lock()
	folder := s.folder
	s.mu.Unlock()

	if folder == "" {
		return "", ErrNoFolder
	}

	raw, err := os.ReadFile(filepath.Join(folder, id))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read snippet content: %w", err)
	}
	return string(raw), nil
}

// writeMetaWithLocked persists the index with one entry replaced.
func (s *Store) writeMetaWithLocked(folder string, snip domain.Snippet) error {
	metas := s.col.Snapshot()
	for i := range metas {
		if metas[i].ID == snip.ID {
			metas[i] = snip
			break
		}
	}
	return writeMeta(folder, metas)
}

func readMeta(folder string) ([]domain.Snippet, error) {
	raw, err := os.ReadFile(filepath.Join(folder, MetaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MetaFile, err)
	}

	var metas []domain.Snippet
	if err := json.Unmarshal(raw, &metas); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetaFile, err)
	}
	return metas, nil
}

func writeMeta(folder string, metas []domain.Snippet) error {
	if metas == nil {
		metas = []domain.Snippet{}
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", MetaFile, err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(filepath.Join(folder, MetaFile), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", MetaFile, err)
	}
	return nil
}

func removeContent(folder, id string) error {
	err := os.Remove(filepath.Join(folder, id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snippet content: %w", err)
	}
	return nil
}

// safeID accepts only ids that resolve to a plain file inside the folder.
func safeID(id string) bool {
	if id == "" || id == "." || id == ".." || id == MetaFile {
		return false
	}
	return filepath.Base(id) == id && !strings.ContainsAny(id, `/\`)
}
