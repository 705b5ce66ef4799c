package domain

import (
	"fmt"
	"strings"
)

// DefaultLanguageID is assigned to snippets created without an explicit
// language and used as the fallback whenever a stored id no longer resolves.
const DefaultLanguageID = "plaintext"

// Language describes one entry of the language catalog.
type Language struct {
	// ID is the canonical catalog identifier. Example: "typescript"
	ID string

	// Name is the display label. Example: "TypeScript"
	Name string

	// Aliases are alternate ids accepted on input. Example: ["ts"]
	Aliases []string

	// Extensions are file extensions associated with the language,
	// first one preferred. Example: [".ts"]
	Extensions []string

	// Scope is the editor language identifier used when exporting
	// snippets. Empty means same as ID.
	Scope string
}

// Catalog is an immutable lookup over the known languages. Ids and aliases
// resolve case-insensitively.
type Catalog struct {
	langs []Language
	byKey map[string]int
}

// NewCatalog builds a Catalog, rejecting duplicate ids and alias collisions
// so a broken override file fails loudly at startup instead of resolving
// snippets to the wrong language later.
func NewCatalog(langs []Language) (*Catalog, error) {
	c := &Catalog{
		langs: make([]Language, len(langs)),
		byKey: make(map[string]int, len(langs)*2),
	}
	copy(c.langs, langs)

	for i, l := range c.langs {
		id := strings.ToLower(strings.TrimSpace(l.ID))
		if id == "" {
			return nil, fmt.Errorf("language at index %d has an empty id", i)
		}
		if _, dup := c.byKey[id]; dup {
			return nil, fmt.Errorf("duplicate language id %q", id)
		}
		c.byKey[id] = i

		for _, a := range l.Aliases {
			alias := strings.ToLower(strings.TrimSpace(a))
			if alias == "" {
				continue
			}
			if prev, dup := c.byKey[alias]; dup {
				return nil, fmt.Errorf("alias %q of %q collides with %q", alias, id, c.langs[prev].ID)
			}
			c.byKey[alias] = i
		}
	}

	if _, ok := c.byKey[DefaultLanguageID]; !ok {
		return nil, fmt.Errorf("catalog must contain the %q language", DefaultLanguageID)
	}

	return c, nil
}

// Resolve maps an id or alias to its Language.
func (c *Catalog) Resolve(id string) (Language, bool) {
	i, ok := c.byKey[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Language{}, false
	}
	return c.langs[i], true
}

// Has reports whether id (or an alias of it) is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.Resolve(id)
	return ok
}

// Canonical returns the canonical id for an id or alias, falling back to
// the default language when nothing resolves.
func (c *Catalog) Canonical(id string) string {
	if l, ok := c.Resolve(id); ok {
		return l.ID
	}
	return DefaultLanguageID
}

// ScopeFor returns the editor scope used when exporting a snippet of the
// given language.
func (c *Catalog) ScopeFor(id string) string {
	l, ok := c.Resolve(id)
	if !ok {
		return DefaultLanguageID
	}
	if l.Scope != "" {
		return l.Scope
	}
	return l.ID
}

// All returns the catalog entries in declaration order.
func (c *Catalog) All() []Language {
	out := make([]Language, len(c.langs))
	copy(out, c.langs)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.langs)
}

// DefaultLanguages is the built-in catalog used when no override file is
// configured.
func DefaultLanguages() []Language {
	return []Language{
		{ID: "plaintext", Name: "Plain Text", Aliases: []string{"text", "txt"}, Extensions: []string{".txt"}},
		{ID: "bash", Name: "Bash", Aliases: []string{"sh", "shell"}, Extensions: []string{".sh"}, Scope: "shellscript"},
		{ID: "c", Name: "C", Extensions: []string{".c", ".h"}},
		{ID: "cpp", Name: "C++", Aliases: []string{"c++"}, Extensions: []string{".cpp", ".hpp"}},
		{ID: "csharp", Name: "C#", Aliases: []string{"cs"}, Extensions: []string{".cs"}},
		{ID: "css", Name: "CSS", Extensions: []string{".css"}},
		{ID: "dart", Name: "Dart", Extensions: []string{".dart"}},
		{ID: "diff", Name: "Diff", Aliases: []string{"patch"}, Extensions: []string{".diff", ".patch"}},
		{ID: "dockerfile", Name: "Dockerfile", Aliases: []string{"docker"}, Extensions: []string{".dockerfile"}},
		{ID: "go", Name: "Go", Aliases: []string{"golang"}, Extensions: []string{".go"}},
		{ID: "graphql", Name: "GraphQL", Aliases: []string{"gql"}, Extensions: []string{".graphql"}},
		{ID: "html", Name: "HTML", Extensions: []string{".html", ".htm"}},
		{ID: "java", Name: "Java", Extensions: []string{".java"}},
		{ID: "javascript", Name: "JavaScript", Aliases: []string{"js"}, Extensions: []string{".js", ".mjs"}},
		{ID: "json", Name: "JSON", Extensions: []string{".json"}},
		{ID: "jsx", Name: "JSX", Extensions: []string{".jsx"}, Scope: "javascriptreact"},
		{ID: "kotlin", Name: "Kotlin", Aliases: []string{"kt"}, Extensions: []string{".kt"}},
		{ID: "lua", Name: "Lua", Extensions: []string{".lua"}},
		{ID: "markdown", Name: "Markdown", Aliases: []string{"md"}, Extensions: []string{".md"}},
		{ID: "php", Name: "PHP", Extensions: []string{".php"}},
		{ID: "python", Name: "Python", Aliases: []string{"py"}, Extensions: []string{".py"}},
		{ID: "ruby", Name: "Ruby", Aliases: []string{"rb"}, Extensions: []string{".rb"}},
		{ID: "rust", Name: "Rust", Aliases: []string{"rs"}, Extensions: []string{".rs"}},
		{ID: "scss", Name: "SCSS", Extensions: []string{".scss"}},
		{ID: "sql", Name: "SQL", Extensions: []string{".sql"}},
		{ID: "swift", Name: "Swift", Extensions: []string{".swift"}},
		{ID: "toml", Name: "TOML", Extensions: []string{".toml"}},
		{ID: "tsx", Name: "TSX", Extensions: []string{".tsx"}, Scope: "typescriptreact"},
		{ID: "typescript", Name: "TypeScript", Aliases: []string{"ts"}, Extensions: []string{".ts"}},
		{ID: "xml", Name: "XML", Extensions: []string{".xml"}},
		{ID: "yaml", Name: "YAML", Aliases: []string{"yml"}, Extensions: []string{".yaml", ".yml"}},
		{ID: "zig", Name: "Zig", Extensions: []string{".zig"}},
	}
}
