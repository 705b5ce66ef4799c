package scheduler

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeadFolders(t *testing.T) {
	live := t.TempDir()

	missing := filepath.Join(t.TempDir(), "deleted-vault")

	asFile := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(asFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	dead := deadFolders([]string{live, missing, asFile})

	if len(dead) != 2 {
		t.Fatalf("deadFolders = %v, want the missing path and the file", dead)
	}
	for _, path := range dead {
		if path == live {
			t.Fatalf("live folder %s flagged as dead", live)
		}
	}
}

func TestDeadFoldersEmptyHistory(t *testing.T) {
	if dead := deadFolders(nil); len(dead) != 0 {
		t.Fatalf("deadFolders(nil) = %v, want none", dead)
	}
}
