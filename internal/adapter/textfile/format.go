package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/domain"
)

// MissingMarker is written in place of a missing reading.
const MissingMarker = "NaN"

// WriteSeries writes one space-separated row per day in the input layout.
func WriteSeries(w io.Writer, series domain.Series) error {
	bw := bufio.NewWriter(w)
	for i := range series.Observations {
		obs := &series.Observations[i]
		bw.WriteString(obs.Date.Format(time.DateOnly))
		for _, v := range domain.Variables {
			bw.WriteByte(' ')
			bw.WriteString(FormatValue(obs.Get(v)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// FormatValue renders a reading with the shortest exact representation.
func FormatValue(v domain.Value) string {
	f, ok := v.Get()
	if !ok {
		return MissingMarker
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteSummary writes the ledger as a tab-separated table: a header of
// variable names, then one row per check in pipeline order.
func WriteSummary(w io.Writer, ledger domain.Ledger) error {
	bw := bufio.NewWriter(w)

	header := make([]string, 0, 1+domain.NumVariables)
	header = append(header, "")
	for _, v := range domain.Variables {
		header = append(header, v.String())
	}
	bw.WriteString(strings.Join(header, "\t"))
	bw.WriteByte('\n')

	for _, c := range domain.Checks {
		row := ledger.Row(c)
		bw.WriteString(c.String())
		for _, v := range domain.Variables {
			bw.WriteByte('\t')
			bw.WriteString(strconv.Itoa(row[v]))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ParseSummary reads a table written by WriteSummary back into a ledger.
func ParseSummary(r io.Reader) (domain.Ledger, error) {
	ledger := domain.NewLedger()
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return ledger, err
		}
		return ledger, errors.New("summary is empty")
	}
	if got := strings.Split(sc.Text(), "\t"); len(got) != 1+domain.NumVariables {
		return ledger, fmt.Errorf("%w: summary header has %d columns", ErrMalformedRow, len(got))
	}

	for _, c := range domain.Checks {
		if !sc.Scan() {
			return ledger, fmt.Errorf("summary missing row %q", c)
		}
		cells := strings.Split(sc.Text(), "\t")
		if len(cells) != 1+domain.NumVariables || cells[0] != c.String() {
			return ledger, fmt.Errorf("%w: expected row %q, got %q", ErrMalformedRow, c, sc.Text())
		}
		var row domain.Counts
		for i := range row {
			n, err := strconv.Atoi(cells[i+1])
			if err != nil {
				return ledger, fmt.Errorf("%w: row %q: %w", ErrMalformedRow, c, err)
			}
			row[i] = n
		}
		ledger = ledger.Record(c, row)
	}
	return ledger, sc.Err()
}
