package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/couchcryptid/weather-data-qc/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMessageWriter struct {
	batches [][]kafkago.Message
	err     error
}

func (m *mockMessageWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, msgs)
	return nil
}

func (m *mockMessageWriter) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResult(days int) domain.Result {
	res := domain.Result{ProcessedAt: time.Date(2024, 4, 27, 6, 0, 0, 0, time.UTC)}
	for d := 1; d <= days; d++ {
		res.Series.Observations = append(res.Series.Observations, domain.Observation{
			Date:    time.Date(1950, 1, d, 0, 0, 0, 0, time.UTC),
			Precip:  domain.Of(float64(d)),
			MaxTemp: domain.Of(20),
			MinTemp: domain.Of(10),
		})
	}
	return res
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	obs := domain.Observation{
		Date:      time.Date(1950, 1, 3, 0, 0, 0, 0, time.UTC),
		Precip:    domain.Of(5),
		WindSpeed: domain.Of(4),
	}

	msg, err := serializeToMessage(obs, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("1950-01-03"), msg.Key)
	assert.JSONEq(t, `{"date":"1950-01-03T00:00:00Z","precip":5,"max_temp":null,"min_temp":null,"wind_speed":4}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "date", msg.Headers[0].Key)
	assert.Equal(t, []byte("1950-01-03"), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
	assert.Equal(t, "missing", msg.Headers[2].Key)
	assert.Equal(t, []byte("2"), msg.Headers[2].Value)
}

func TestWriter_LoadBatches(t *testing.T) {
	mw := &mockMessageWriter{}
	metrics := observability.NewMetricsForTesting()
	w := &Writer{writer: mw, batchSize: 2, logger: discardLogger(), metrics: metrics}

	require.NoError(t, w.Load(context.Background(), testResult(5)))

	require.Len(t, mw.batches, 3)
	assert.Len(t, mw.batches[0], 2)
	assert.Len(t, mw.batches[2], 1)
	assert.Equal(t, []byte("1950-01-05"), mw.batches[2][0].Key)
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.MessagesProduced))
}

func TestWriter_LoadError(t *testing.T) {
	mw := &mockMessageWriter{err: errors.New("broker unavailable")}
	w := &Writer{writer: mw, batchSize: 10, logger: discardLogger(), metrics: observability.NewMetricsForTesting()}

	err := w.Load(context.Background(), testResult(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish observations")
}

func TestWriter_LoadEmptySeries(t *testing.T) {
	mw := &mockMessageWriter{}
	w := &Writer{writer: mw, batchSize: 10, logger: discardLogger(), metrics: observability.NewMetricsForTesting()}

	require.NoError(t, w.Load(context.Background(), domain.Result{}))
	assert.Empty(t, mw.batches)
}
