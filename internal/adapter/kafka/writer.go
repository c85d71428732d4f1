package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/config"
	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/couchcryptid/weather-data-qc/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes cleaned observations to a Kafka topic, one message per day.
// It implements pipeline.Loader.
type Writer struct {
	writer    messageWriter
	batchSize int
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, batchSize: cfg.KafkaBatchSize, logger: logger, metrics: metrics}
}

// Load serializes every observation and publishes them in batches. Messages
// are keyed by date so a re-run overwrites the same keys on compacted topics.
func (w *Writer) Load(ctx context.Context, res domain.Result) error {
	obs := res.Series.Observations
	for start := 0; start < len(obs); start += w.batchSize {
		end := min(start+w.batchSize, len(obs))
		msgs := make([]kafkago.Message, 0, end-start)
		for i := start; i < end; i++ {
			msg, err := serializeToMessage(obs[i], res.ProcessedAt)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish observations: %w", err)
		}
		w.metrics.MessagesProduced.Add(float64(len(msgs)))
	}
	w.logger.Info("observations published", "count", len(obs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message.
func serializeToMessage(obs domain.Observation, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	date := obs.Date.Format(time.DateOnly)
	return kafkago.Message{
		Key:   []byte(date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "date", Value: []byte(date)},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
			{Key: "missing", Value: []byte(strconv.Itoa(obs.MissingCount()))},
		},
	}, nil
}
