package textfile

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseSeries(t *testing.T) {
	input := "# station 042\n" +
		"1950-01-01 -999 10 20 3\n" +
		"\n" +
		"1950/01/02\t30  5 -40 12\n" +
		"19500103 5 30 0 NaN\n"

	series, err := ParseSeries(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())

	first := series.Observations[0]
	assert.Equal(t, time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	p, ok := first.Precip.Get()
	assert.True(t, ok, "sentinel is kept until the No Data check")
	assert.Equal(t, domain.NoDataValue, p)

	assert.Equal(t, time.Date(1950, 1, 2, 0, 0, 0, 0, time.UTC), series.Observations[1].Date)
	assert.Equal(t, -40.0, series.Observations[1].MinTemp.Float())
	assert.True(t, series.Observations[2].WindSpeed.IsMissing())
}

func TestParseSeries_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    error
		message string
	}{
		{"too few columns", "1950-01-01 1 2 3\n", ErrMalformedRow, "line 1"},
		{"too many columns", "1950-01-01 1 2 3 4 5\n", ErrMalformedRow, "expected 5 columns, got 6"},
		{"bad date", "Jan-1 1 2 3 4\n", ErrMalformedRow, `date "Jan-1"`},
		{"bad number", "1950-01-01 1 x 3 4\n", ErrMalformedRow, "Max Temp"},
		{"hex float", "1950-01-01 0x1p4 2 3 4\n", ErrMalformedRow, `Precip "0x1p4"`},
		{"signed hex float", "1950-01-01 1 2 -0X1p2 4\n", ErrMalformedRow, "Min Temp"},
		{"digit separators", "1950-01-01 1 2 3 0x_1\n", ErrMalformedRow, "Wind Speed"},
		{"duplicate date", "1950-01-01 1 2 3 4\n1950-01-01 1 2 3 4\n", ErrDateOrder, "line 2"},
		{"backwards date", "1950-01-02 1 2 3 4\n1950-01-01 1 2 3 4\n", ErrDateOrder, "1950-01-01 after 1950-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeries(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseSeries_NumberForms(t *testing.T) {
	series, err := ParseSeries(strings.NewReader("1950-01-01 1.5e1 +2 -Inf nan\n"))
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())

	obs := series.Observations[0]
	f, ok := obs.Precip.Get()
	require.True(t, ok)
	assert.InDelta(t, 15.0, f, 1e-9)
	f, ok = obs.MaxTemp.Get()
	require.True(t, ok)
	assert.InDelta(t, 2.0, f, 1e-9)
	f, ok = obs.MinTemp.Get()
	require.True(t, ok)
	assert.True(t, math.IsInf(f, -1), "infinities stay present for the gross error check")
	assert.True(t, obs.WindSpeed.IsMissing())
}

func TestWriteSeries(t *testing.T) {
	series := domain.Series{Observations: []domain.Observation{
		{Date: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), Precip: domain.Missing(), MaxTemp: domain.Of(20), MinTemp: domain.Of(10), WindSpeed: domain.Of(3)},
		{Date: time.Date(1950, 1, 2, 0, 0, 0, 0, time.UTC), Precip: domain.Of(0.4), MaxTemp: domain.Of(-5), MinTemp: domain.Missing(), WindSpeed: domain.Of(12.25)},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, series))

	want := "1950-01-01 NaN 20 10 3\n" +
		"1950-01-02 0.4 -5 NaN 12.25\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("cleaned data mismatch (-want +got):\n%s", diff)
	}

	// The cleaned file is itself valid input.
	back, err := ParseSeries(&buf)
	require.NoError(t, err)
	assert.Equal(t, series, back)
}

func TestWriteSummary(t *testing.T) {
	ledger := domain.NewLedger().
		Record(domain.CheckRangeFail, domain.Counts{0, 4, 4, 0}).
		Record(domain.CheckSwapped, domain.Counts{0, 3, 3, 0}).
		Record(domain.CheckNoData, domain.Counts{2, 3, 1, 2}).
		Record(domain.CheckGrossError, domain.Counts{2, 1, 2, 2})

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, ledger))

	want := "\tPrecip\tMax Temp\tMin Temp\tWind Speed\n" +
		"No Data\t2\t3\t1\t2\n" +
		"Gross Error\t2\t1\t2\t2\n" +
		"Swapped\t0\t3\t3\t0\n" +
		"Range Fail\t0\t4\t4\t0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	back, err := ParseSummary(&buf)
	require.NoError(t, err)
	assert.Equal(t, ledger.Matrix(), back.Matrix())
}

func TestParseSummary_WrongRowOrder(t *testing.T) {
	input := "\tPrecip\tMax Temp\tMin Temp\tWind Speed\n" +
		"Gross Error\t2\t1\t2\t2\n"
	_, err := ParseSummary(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestReaderWriter_MockFile(t *testing.T) {
	path := filepath.Join("..", "..", "..", "data", "mock", "DataQualityChecking.txt")
	series, err := NewReader(path, discardLogger()).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 14, series.Len())

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "out", "Checked-data.txt")
	summaryPath := filepath.Join(dir, "out", "Fail-checks-summary.txt")

	res := domain.RunChecks(series, domain.NewLedger())
	require.NoError(t, NewWriter(dataPath, summaryPath, discardLogger()).Load(context.Background(), res))

	data, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	assert.Equal(t, 14, strings.Count(string(data), "\n"), "one row per input day")

	summary, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(summary), "\tPrecip\t"))
}

func TestWriter_RejectsIncompleteLedger(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "Checked-data.txt")
	series := domain.Series{Observations: []domain.Observation{{Date: time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)}}}
	series, ledger := domain.RemoveNoData(series, domain.NewLedger())

	err := NewWriter(dataPath, filepath.Join(dir, "summary.txt"), discardLogger()).
		Load(context.Background(), domain.Result{Series: series, Ledger: ledger})
	require.ErrorIs(t, err, ErrIncompleteLedger)
	assert.Contains(t, err.Error(), "Gross Error")

	_, statErr := os.Stat(dataPath)
	assert.True(t, os.IsNotExist(statErr), "nothing written for a partial run")
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.txt"), discardLogger()).Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
}
