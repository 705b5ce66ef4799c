package languages

import (
	"strings"

	"github.com/lucifer1004/dropcode/internal/domain"
)

// Mapper converts file entries to domain.Language values.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapLanguages normalizes the parsed entries. Entries without an id are
// skipped; ids and aliases are lowercased and trimmed.
func (m *Mapper) MapLanguages(config Config) []domain.Language {
	langs := make([]domain.Language, 0, len(config.Languages))
	for _, entry := range config.Languages {
		id := strings.ToLower(strings.TrimSpace(entry.ID))
		if id == "" {
			continue
		}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = id
		}

		var aliases []string
		for _, alias := range entry.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" || alias == id {
				continue
			}
			aliases = append(aliases, alias)
		}

		var exts []string
		for _, ext := range entry.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}

		langs = append(langs, domain.Language{
			ID:         id,
			Name:       name,
			Aliases:    aliases,
			Extensions: exts,
			Scope:      strings.TrimSpace(entry.Scope),
		})
	}
	return langs
}

// Merge lays override entries over a base list: same id replaces in
// place, new ids append in file order.
func (m *Mapper) Merge(base, overrides []domain.Language) []domain.Language {
	merged := make([]domain.Language, len(base))
	copy(merged, base)

	index := make(map[string]int, len(merged))
	for i, lang := range merged {
		index[lang.ID] = i
	}

	for _, lang := range overrides {
		if i, ok := index[lang.ID]; ok {
			merged[i] = lang
			continue
		}
		index[lang.ID] = len(merged)
		merged = append(merged, lang)
	}
	return merged
}
