package languages

// Config represents the top-level structure of languages.yaml.
type Config struct {
	Languages []Entry `yaml:"languages"`
}

// Entry describes one language in the catalog file.
type Entry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name,omitempty"`
	Aliases    []string `yaml:"aliases,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	// Scope overrides the VS Code language scope; defaults to the id.
	Scope string `yaml:"scope,omitempty"`
}
