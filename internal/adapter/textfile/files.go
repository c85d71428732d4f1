package textfile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
)

// Reader loads a raw observation file.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the given path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

func (r *Reader) Extract(_ context.Context) (domain.Series, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.Series{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	series, err := ParseSeries(f)
	if err != nil {
		return domain.Series{}, fmt.Errorf("%s: %w", r.path, err)
	}
	r.logger.Info("series loaded", "path", r.path, "days", series.Len())
	return series, nil
}

// Writer persists the cleaned series and the correction summary.
// It implements pipeline.Loader.
type Writer struct {
	dataPath    string
	summaryPath string
	logger      *slog.Logger
}

// NewWriter creates a Writer for the two output files.
func NewWriter(dataPath, summaryPath string, logger *slog.Logger) *Writer {
	return &Writer{dataPath: dataPath, summaryPath: summaryPath, logger: logger}
}

// Load refuses results whose ledger is missing a check's row, so a partial
// run never produces a summary that looks complete.
func (w *Writer) Load(_ context.Context, res domain.Result) error {
	for _, c := range domain.Checks {
		if !res.Ledger.Recorded(c) {
			return fmt.Errorf("%w: %s row not recorded", ErrIncompleteLedger, c)
		}
	}
	if err := writeFile(w.dataPath, func(out io.Writer) error { return WriteSeries(out, res.Series) }); err != nil {
		return fmt.Errorf("write cleaned data: %w", err)
	}
	if err := writeFile(w.summaryPath, func(out io.Writer) error { return WriteSummary(out, res.Ledger) }); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	w.logger.Info("outputs written", "data", w.dataPath, "summary", w.summaryPath)
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
