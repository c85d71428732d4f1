// Command qc runs the daily quality-control checks once over an observation
// file and writes the cleaned series and the correction summary.
//
// Usage:
//
//	go run ./cmd/qc -in DataQualityChecking.txt -out Checked-data.txt -summary Fail-checks-summary.txt
//
// Flags override QC_INPUT, QC_OUTPUT and QC_SUMMARY. When KAFKA_ENABLED is
// true the cleaned observations are also published to KAFKA_TOPIC.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	kafkaadapter "github.com/couchcryptid/weather-data-qc/internal/adapter/kafka"
	"github.com/couchcryptid/weather-data-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-data-qc/internal/config"
	"github.com/couchcryptid/weather-data-qc/internal/observability"
	"github.com/couchcryptid/weather-data-qc/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	flag.StringVar(&cfg.InputPath, "in", cfg.InputPath, "raw observation file")
	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "cleaned data output file")
	flag.StringVar(&cfg.SummaryPath, "summary", cfg.SummaryPath, "correction summary output file")
	flag.StringVar(&cfg.MetricsTextfile, "metrics-textfile", cfg.MetricsTextfile, "write Prometheus metrics to this file after the run")
	flag.Parse()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loaders := []pipeline.Loader{
		textfile.NewWriter(cfg.OutputPath, cfg.SummaryPath, logger),
	}

	var producer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		producer = kafkaadapter.NewWriter(cfg, logger, metrics)
		loaders = append(loaders, producer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(
		textfile.NewReader(cfg.InputPath, logger),
		pipeline.NewTransformer(logger, metrics),
		loaders,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, runErr := p.Run(ctx)

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("quality control failed", "error", runErr)
		return 1
	}

	logger.Info("quality control complete",
		"observations", res.Series.Len(),
		"output", cfg.OutputPath,
		"summary", cfg.SummaryPath,
	)
	return 0
}
