package languages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

func TestBuildCatalogDefaultsOnly(t *testing.T) {
	catalog, err := BuildCatalog("", logger.Nop())
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}

	for _, id := range []string{domain.DefaultLanguageID, "go", "typescript"} {
		if !catalog.Has(id) {
			t.Errorf("default catalog is missing %q", id)
		}
	}
}

func TestBuildCatalogMergesFile(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "languages.yaml")

	yamlContent := `---
languages:
  - id: go
    name: Golang
  - id: zig
    name: Zig
    extensions: [.zig]
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	catalog, err := BuildCatalog(yamlPath, logger.Nop())
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}

	golang, ok := catalog.Resolve("go")
	if !ok || golang.Name != "Golang" {
		t.Errorf("go entry = %+v, want overridden name Golang", golang)
	}
	if !catalog.Has("zig") {
		t.Error("custom zig entry missing from catalog")
	}
	if !catalog.Has(domain.DefaultLanguageID) {
		t.Error("defaults were lost in the merge")
	}
}

func TestBuildCatalogRejectsAliasCollision(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "languages.yaml")

	yamlContent := `---
languages:
  - id: mylang
    aliases: [go]
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	if _, err := BuildCatalog(yamlPath, logger.Nop()); err == nil {
		t.Error("BuildCatalog() with colliding alias should return error")
	}
}
