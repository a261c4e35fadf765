package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/minthub/mintassist/internal/catalog"
	"github.com/minthub/mintassist/internal/knowledge"
	"github.com/minthub/mintassist/internal/model"
)

// Load result labels reported to metrics
const (
	loadOK       = "ok"
	loadFallback = "fallback"
	loadError    = "error"
)

// LoadKnowledge returns the configured knowledge base. An empty source
// selects the embedded base. A source that cannot be loaded or decoded
// degrades to an empty base, which makes every answer a fallback, unless
// cfg.Required asks for an error instead.
func LoadKnowledge(ctx context.Context, f *Fetcher, cfg model.KnowledgeConfig, logger *zap.Logger) (*knowledge.Base, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Source == "" {
		base, err := knowledge.Default()
		if err != nil {
			return nil, loadError, fmt.Errorf("embedded knowledge base: %w", err)
		}
		return base, loadOK, nil
	}

	base, err := loadKnowledgeSource(ctx, f, cfg)
	if err != nil {
		if cfg.Required {
			return nil, loadError, err
		}
		logger.Warn("knowledge base unavailable, answering with fallbacks only",
			zap.String("source", cfg.Source), zap.Error(err))
		return knowledge.Empty(), loadFallback, nil
	}

	if dead := base.Dead(); len(dead) > 0 {
		logger.Warn("knowledge base has entries without keywords",
			zap.String("source", cfg.Source), zap.Ints("indices", dead))
	}
	logger.Info("knowledge base loaded",
		zap.String("source", cfg.Source), zap.Int("entries", base.Len()))

	return base, loadOK, nil
}

func loadKnowledgeSource(ctx context.Context, f *Fetcher, cfg model.KnowledgeConfig) (*knowledge.Base, error) {
	result, err := f.FetchWithRetry(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	format := cfg.Format
	if format == "" {
		format = knowledge.FormatFromPath(cfg.Source)
	}

	base, err := knowledge.Decode(result.Data, format)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return base, nil
}

// LoadCatalog returns the configured catalog. An empty source, or one that
// cannot be loaded, yields the sample files.
func LoadCatalog(ctx context.Context, f *Fetcher, cfg model.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Source == "" {
		return catalog.New(catalog.SampleFiles()), loadOK
	}

	records, err := loadCatalogSource(ctx, f, cfg)
	if err != nil {
		logger.Warn("catalog unavailable, using sample files",
			zap.String("source", cfg.Source), zap.Error(err))
		return catalog.New(catalog.SampleFiles()), loadFallback
	}

	logger.Info("catalog loaded", zap.String("source", cfg.Source), zap.Int("files", len(records)))
	return catalog.New(records), loadOK
}

func loadCatalogSource(ctx context.Context, f *Fetcher, cfg model.CatalogConfig) ([]model.FileRecord, error) {
	result, err := f.FetchWithRetry(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	format := cfg.Format
	if format == "" {
		format = catalog.FormatFromPath(cfg.Source)
	}

	records, err := catalog.Decode(result.Data, format, result.Source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return records, nil
}
