package languages

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "languages.yaml")

	yamlContent := `---
languages:
  - id: zig
    name: Zig
    extensions: [.zig]
  - id: nim
    aliases: [nimlang]
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(config.Languages) != 2 {
		t.Fatalf("Load() returned %d languages, want 2", len(config.Languages))
	}
	if config.Languages[0].ID != "zig" || config.Languages[0].Name != "Zig" {
		t.Errorf("first entry = %+v, want zig/Zig", config.Languages[0])
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/languages.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadBadYaml(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "languages.yaml")

	if err := os.WriteFile(yamlPath, []byte("languages: {not a list"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Error("Load() with malformed yaml should return error")
	}
}
