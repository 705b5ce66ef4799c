package domain

import (
	"os"
	"path/filepath"
)

// FolderStatus classifies whether a snippet folder is usable.
type FolderStatus int

const (
	FolderOK FolderStatus = iota
	FolderMissing
	FolderNotDir
	FolderNotWritable
)

// String returns the wire name for a folder status.
func (fs FolderStatus) String() string {
	switch fs {
	case FolderOK:
		return "ok"
	case FolderMissing:
		return "missing"
	case FolderNotDir:
		return "not-a-directory"
	case FolderNotWritable:
		return "not-writable"
	default:
		return "unknown"
	}
}

// CheckFolder inspects a folder path and reports whether snippets can live
// there. Writability is probed with a throwaway file because permission bits
// alone lie on some filesystems (network mounts, read-only overlays).
func CheckFolder(path string) FolderStatus {
	if path == "" {
		return FolderMissing
	}

	fi, err := os.Stat(path)
	if err != nil {
		return FolderMissing
	}
	if !fi.IsDir() {
		return FolderNotDir
	}

	probe, err := os.CreateTemp(path, ".dropcode-probe-*")
	if err != nil {
		return FolderNotWritable
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return FolderOK
}

// CleanFolderPath normalizes a folder path for use as an identity: history
// entries and the navigation channel must agree on one spelling.
func CleanFolderPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
