// Package textfile reads raw daily observation logs and writes the cleaned
// series and correction summary as plain text.
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

var (
	// ErrMalformedRow is returned for rows with the wrong column count or an
	// unparseable date or number.
	ErrMalformedRow = errors.New("malformed row")

	// ErrDateOrder is returned when a date repeats or goes backwards.
	ErrDateOrder = errors.New("dates must be unique and increasing")

	// ErrIncompleteLedger is returned by Writer when a check never ran.
	ErrIncompleteLedger = errors.New("incomplete ledger")
)

// numColumns is date plus one column per variable.
const numColumns = 1 + domain.NumVariables

// dateLayouts are tried in order.
var dateLayouts = []string{time.DateOnly, "2006/01/02", "20060102"}

// ParseSeries reads whitespace-delimited rows of
// "date precip maxtemp mintemp windspeed". Blank lines and lines starting
// with '#' are skipped. Sentinel values are kept as-is.
func ParseSeries(r io.Reader) (domain.Series, error) {
	var series domain.Series
	var last time.Time

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		obs, err := parseRow(strings.Fields(text))
		if err != nil {
			return domain.Series{}, fmt.Errorf("line %d: %w", line, err)
		}
		if len(series.Observations) > 0 && !obs.Date.After(last) {
			return domain.Series{}, fmt.Errorf("line %d: %s after %s: %w",
				line, obs.Date.Format(time.DateOnly), last.Format(time.DateOnly), ErrDateOrder)
		}
		last = obs.Date
		series.Observations = append(series.Observations, obs)
	}
	if err := sc.Err(); err != nil {
		return domain.Series{}, fmt.Errorf("read series: %w", err)
	}
	return series, nil
}

func parseRow(fields []string) (domain.Observation, error) {
	if len(fields) != numColumns {
		return domain.Observation{}, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedRow, numColumns, len(fields))
	}

	date, err := parseDate(fields[0])
	if err != nil {
		return domain.Observation{}, err
	}

	obs := domain.Observation{Date: date}
	for i, v := range domain.Variables {
		val, err := parseValue(fields[i+1])
		if err != nil {
			return domain.Observation{}, fmt.Errorf("%w: %s %q", ErrMalformedRow, v, fields[i+1])
		}
		obs.Set(v, val)
	}
	return obs, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedRow, s)
}

// parseValue accepts decimal numbers with an optional exponent, plus "NaN"
// (missing) and "Inf"/"Infinity" in any case. Hexadecimal floats are rejected.
func parseValue(s string) (domain.Value, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return domain.Value{}, fmt.Errorf("hexadecimal value %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Value{}, err
	}
	return domain.Of(f), nil
}
