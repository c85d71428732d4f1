package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/couchcryptid/weather-data-qc/internal/observability"
)

// Extractor loads the raw observation series.
type Extractor interface {
	Extract(ctx context.Context) (domain.Series, error)
}

// Transformer runs the quality-control checks over a series.
type Transformer interface {
	Transform(ctx context.Context, series domain.Series) (domain.Result, error)
}

// Loader persists or publishes a finished result.
type Loader interface {
	Load(ctx context.Context, res domain.Result) error
}

// Pipeline orchestrates a single extract-check-load pass.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loaders     []Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline. Loaders run in the order given.
func New(e Extractor, t Transformer, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run extracts the series, applies every check and hands the result to each
// loader. Any failure ends the run; there are no retries.
func (p *Pipeline) Run(ctx context.Context) (domain.Result, error) {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	res, err := p.run(ctx)
	if err != nil {
		p.metrics.Runs.WithLabelValues("error").Inc()
		return domain.Result{}, err
	}
	p.metrics.Runs.WithLabelValues("success").Inc()
	return res, nil
}

func (p *Pipeline) run(ctx context.Context) (domain.Result, error) {
	series, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("extract: %w", err)
	}
	p.metrics.ObservationsLoaded.Add(float64(series.Len()))

	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}

	res, err := p.transformer.Transform(ctx, series)
	if err != nil {
		return domain.Result{}, fmt.Errorf("transform: %w", err)
	}

	for _, l := range p.loaders {
		if err := l.Load(ctx, res); err != nil {
			return domain.Result{}, fmt.Errorf("load: %w", err)
		}
	}

	corrections := 0
	for _, row := range res.Ledger.Matrix() {
		corrections += row.Total()
	}
	p.logger.Info("pipeline finished",
		"days", res.Series.Len(),
		"corrections", corrections,
		"processed_at", res.ProcessedAt,
	)
	return res, nil
}
