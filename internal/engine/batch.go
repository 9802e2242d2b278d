package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/model"
)

// BatchProcessor resolves multiple independent queries concurrently.
// Queries share no mutable state, so the only coordination is the
// concurrency limit.
type BatchProcessor struct {
	// engine resolves individual queries.
	engine *Engine

	// concurrency is the maximum number of concurrent resolutions.
	concurrency int

	// logger for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithConcurrency sets the maximum number of concurrent resolutions.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBatchProcessor creates a BatchProcessor around an Engine.
func NewBatchProcessor(engine *Engine, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		engine:      engine,
		concurrency: config.DefaultBatchSize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(bp)
	}

	return bp
}

// ResolveAll resolves every query and returns resolutions in input order.
// Individual query failures become NotFound resolutions; the error return
// indicates cancellation only.
func (bp *BatchProcessor) ResolveAll(ctx context.Context, queries []string) ([]*model.Resolution, error) {
	bp.logger.Info("starting batch resolution",
		"queries", len(queries),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Pre-allocated and indexed by input position, so no mutex is needed:
	// each goroutine writes its own slot.
	results := make([]*model.Resolution, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, query := range queries {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			res, err := bp.engine.Resolve(ctx, query)
			if err != nil {
				// Empty queries and cancellations; record a NotFound so
				// output positions still line up with input.
				bp.logger.Warn("resolution failed", "query", query, "error", err)
				res = model.NewNotFoundResolution(query)
			}
			results[i] = res
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch resolution complete",
		"queries", len(queries),
		"elapsed", time.Since(start),
	)

	return results, err
}
