package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/couchcryptid/weather-data-qc/internal/observability"
)

// QCTransformer implements Transformer by running domain.Stages in order,
// logging a summary and recording metrics after each one.
type QCTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a QCTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *QCTransformer {
	return &QCTransformer{logger: logger, metrics: metrics}
}

func (t *QCTransformer) Transform(ctx context.Context, series domain.Series) (domain.Result, error) {
	clock := domain.Clock()
	ledger := domain.NewLedger()
	t.describe("raw data", series)

	for _, st := range domain.Stages() {
		if err := ctx.Err(); err != nil {
			return domain.Result{}, err
		}

		start := clock.Now()
		series, ledger = st.Apply(series, ledger)
		t.metrics.StageDuration.WithLabelValues(st.Check.String()).Observe(clock.Since(start).Seconds())

		row := ledger.Row(st.Check)
		for _, v := range domain.Variables {
			t.metrics.Corrections.WithLabelValues(st.Check.String(), v.String()).Add(float64(row[v]))
		}
		t.logger.Info("check complete",
			"check", st.Check.String(),
			"precip", row[domain.Precip],
			"max_temp", row[domain.MaxTemp],
			"min_temp", row[domain.MinTemp],
			"wind_speed", row[domain.WindSpeed],
			"total", row.Total(),
		)
		t.describe(st.Check.String(), series)
	}

	return domain.Result{Series: series, Ledger: ledger, ProcessedAt: clock.Now()}, nil
}

func (t *QCTransformer) describe(after string, series domain.Series) {
	if !t.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, s := range domain.Describe(series) {
		t.logger.Debug("series summary",
			"after", after,
			"variable", s.Variable.String(),
			"count", s.Count,
			"mean", s.Mean,
			"std", s.Std,
			"min", s.Min,
			"q1", s.Q1,
			"median", s.Median,
			"q3", s.Q3,
			"max", s.Max,
		)
	}
}
