// Package pipeline wires sources, the assistant, the catalog and output
// rendering into the flows the CLI runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minthub/mintassist/internal/assistant"
	"github.com/minthub/mintassist/internal/cache"
	"github.com/minthub/mintassist/internal/catalog"
	"github.com/minthub/mintassist/internal/knowledge"
	"github.com/minthub/mintassist/internal/metrics"
	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/worker"
)

// ErrNotWatchable is returned when the knowledge source is not a local file
var ErrNotWatchable = errors.New("knowledge source is not a local file")

// Pipeline holds the loaded state of one mintassist process
type Pipeline struct {
	config    *model.Config
	fetcher   *Fetcher
	assistant *assistant.Assistant
	catalog   *catalog.Catalog
	renderer  *Renderer
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPipeline loads the knowledge base and the catalog concurrently and
// builds the assistant. It fails only when the knowledge base is required
// and unavailable.
func NewPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := metrics.New()
	fetcher := NewFetcher(cfg.HTTP,
		WithCache(cache.New(cfg.Cache)),
		WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
		WithFetchLogger(logger),
	)

	var (
		kb  *knowledge.Base
		cat *catalog.Catalog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		base, result, err := LoadKnowledge(gctx, fetcher, cfg.Knowledge, logger)
		m.SourceLoaded("knowledge", result)
		if err != nil {
			return err
		}
		kb = base
		return nil
	})
	g.Go(func() error {
		c, result := LoadCatalog(gctx, fetcher, cfg.Catalog, logger)
		m.SourceLoaded("catalog", result)
		cat = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := []assistant.Option{
		assistant.WithRecorder(m),
		assistant.WithLogger(logger),
	}
	if cfg.Assistant.Seed != 0 {
		opts = append(opts, assistant.WithSeed(cfg.Assistant.Seed))
	}
	if cfg.Assistant.ThinkingMax > 0 {
		opts = append(opts, assistant.WithPacer(
			assistant.NewRandomDelay(cfg.Assistant.ThinkingMin, cfg.Assistant.ThinkingMax)))
	}

	return &Pipeline{
		config:    cfg,
		fetcher:   fetcher,
		assistant: assistant.New(kb, opts...),
		catalog:   cat,
		renderer:  NewRenderer(cfg.Output.Verbose),
		metrics:   m,
		logger:    logger,
	}, nil
}

// Ask answers one message, honoring the configured pacing
func (p *Pipeline) Ask(ctx context.Context, message string) (model.ChosenResponse, error) {
	return p.assistant.Ask(ctx, message)
}

// Batch answers questions concurrently and returns results in input order
func (p *Pipeline) Batch(ctx context.Context, questions []string, concurrency int) []*worker.AskResult {
	if concurrency <= 0 {
		concurrency = p.config.Concurrency.Workers
	}
	return worker.NewBatchProcessor(p, concurrency).ProcessQuestions(ctx, questions)
}

// WatchKnowledge swaps in a new knowledge base whenever the local source
// file changes. It blocks until ctx is done.
func (p *Pipeline) WatchKnowledge(ctx context.Context) error {
	src := p.config.Knowledge.Source
	if src == "" || isRemote(src) {
		return ErrNotWatchable
	}

	return knowledge.Watch(ctx, src, p.config.Knowledge.Format, p.logger, func(b *knowledge.Base) {
		p.assistant.SetKnowledgeBase(b)
		p.metrics.SourceLoaded("knowledge", loadOK)
	})
}

// FlushMetrics writes the textfile export when one is configured
func (p *Pipeline) FlushMetrics() error {
	if p.config.Metrics.Textfile == "" {
		return nil
	}
	if err := p.metrics.WriteTextfile(p.config.Metrics.Textfile); err != nil {
		return fmt.Errorf("flush metrics: %w", err)
	}
	return nil
}

// Assistant returns the assistant
func (p *Pipeline) Assistant() *assistant.Assistant { return p.assistant }

// Catalog returns the file catalog
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Renderer returns the output renderer
func (p *Pipeline) Renderer() *Renderer { return p.renderer }

// Metrics returns the metrics registry owner
func (p *Pipeline) Metrics() *metrics.Metrics { return p.metrics }
