package languages

import (
	"fmt"

	"github.com/lucifer1004/dropcode/internal/domain"
	"github.com/lucifer1004/dropcode/internal/logger"
)

// BuildCatalog assembles the language catalog. Without a file path the
// built-in defaults stand alone; with one, the file's entries override
// and extend them.
func BuildCatalog(filePath string, log logger.Logger) (*domain.Catalog, error) {
	base := domain.DefaultLanguages()

	if filePath == "" {
		return domain.NewCatalog(base)
	}

	config, err := NewLoader(filePath).Load()
	if err != nil {
		return nil, err
	}

	mapper := NewMapper()
	custom := mapper.MapLanguages(config)
	merged := mapper.Merge(base, custom)

	catalog, err := domain.NewCatalog(merged)
	if err != nil {
		return nil, fmt.Errorf("invalid languages file %s: %w", filePath, err)
	}

	log.Info("language catalog loaded",
		logger.String("file", filePath),
		logger.Int("custom", len(custom)),
		logger.Int("total", catalog.Len()))
	return catalog, nil
}
