// Command validate checks a cleaned observation file and its correction
// summary against the guarantees the quality-control checks make: no
// sentinels, every reading in bounds, ordered temperature pairs with a
// plausible spread, and a well-formed summary. When the raw input is also
// given, the checks are re-run over it and both outputs are compared.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -cleaned Checked-data.txt \
//	  -summary Fail-checks-summary.txt \
//	  -raw DataQualityChecking.txt
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-data-qc/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cleanedPath := flag.String("cleaned", "", "path to the cleaned data file")
	summaryPath := flag.String("summary", "", "path to the correction summary")
	rawPath := flag.String("raw", "", "optional path to the raw input for a cross-check")
	flag.Parse()

	if *cleanedPath == "" || *summaryPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*cleanedPath, *summaryPath, *rawPath))
}

func run(cleanedPath, summaryPath, rawPath string) int {
	fmt.Println("=== Weather QC Output Validation ===")
	fmt.Println()

	cleaned, err := loadSeries(cleanedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned file: %v\n", err)
		return 1
	}

	ledger, err := loadSummary(summaryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load summary: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSentinels(cleaned),
		validateBounds(cleaned),
		validateTemperaturePairs(cleaned),
		validateSummaryShape(ledger),
	}

	if rawPath != "" {
		raw, err := loadSeries(rawPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load raw file: %v\n", err)
			return 1
		}
		phases = append(phases, validateRerun(raw, cleaned, ledger))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Observations: %d cleaned, %d readings missing\n", cleaned.Len(), countMissing(cleaned))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadSeries(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Series{}, err
	}
	defer f.Close()
	return textfile.ParseSeries(f)
}

func loadSummary(path string) (domain.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Ledger{}, err
	}
	defer f.Close()
	return textfile.ParseSummary(f)
}

func countMissing(series domain.Series) int {
	n := 0
	for i := range series.Observations {
		n += series.Observations[i].MissingCount()
	}
	return n
}

func day(obs *domain.Observation) string {
	return obs.Date.Format(time.DateOnly)
}

// ── Phases ──

func validateSentinels(series domain.Series) *phase {
	p := &phase{name: "Phase 1: No sentinel values"}
	row := domain.CountSentinels(series)
	for _, v := range domain.Variables {
		if row[v] > 0 {
			p.errorf("%s: %d readings still hold %g", v, row[v], domain.NoDataValue)
		}
	}
	return p
}

func validateBounds(series domain.Series) *phase {
	p := &phase{name: "Phase 2: Readings within plausible bounds"}
	for i := range series.Observations {
		obs := &series.Observations[i]
		for _, v := range domain.Variables {
			f, ok := obs.Get(v).Get()
			if ok && !domain.GrossErrorBounds[v].Contains(f) {
				b := domain.GrossErrorBounds[v]
				p.errorf("%s %s=%g outside [%g, %g]", day(obs), v, f, b.Min, b.Max)
			}
		}
	}
	return p
}

func validateTemperaturePairs(series domain.Series) *phase {
	p := &phase{name: "Phase 3: Temperature pairs ordered and plausible"}
	for i := range series.Observations {
		obs := &series.Observations[i]
		hi, okHi := obs.MaxTemp.Get()
		lo, okLo := obs.MinTemp.Get()
		if !okHi || !okLo {
			continue
		}
		if hi < lo {
			p.errorf("%s max %g below min %g", day(obs), hi, lo)
		}
		if hi-lo > domain.MaxTempSpread {
			p.errorf("%s spread %g exceeds %g", day(obs), hi-lo, domain.MaxTempSpread)
		}
	}
	return p
}

func validateSummaryShape(ledger domain.Ledger) *phase {
	p := &phase{name: "Phase 4: Summary shape"}
	for _, c := range domain.Checks {
		row := ledger.Row(c)
		for _, v := range domain.Variables {
			if row[v] < 0 {
				p.errorf("%s/%s is negative: %d", c, v, row[v])
			}
		}
	}
	for _, c := range []domain.Check{domain.CheckSwapped, domain.CheckRangeFail} {
		row := ledger.Row(c)
		if row[domain.Precip] != 0 || row[domain.WindSpeed] != 0 {
			p.errorf("%s must not count precip or wind speed: %v", c, row)
		}
		if row[domain.MaxTemp] != row[domain.MinTemp] {
			p.errorf("%s temperature counts differ: max=%d min=%d", c, row[domain.MaxTemp], row[domain.MinTemp])
		}
	}
	return p
}

func validateRerun(raw, cleaned domain.Series, ledger domain.Ledger) *phase {
	p := &phase{name: "Phase 5: Outputs reproduce from raw input"}
	res := domain.RunChecks(raw, domain.NewLedger())

	if res.Series.Len() != cleaned.Len() {
		p.errorf("row count: raw has %d, cleaned has %d", res.Series.Len(), cleaned.Len())
		return p
	}
	for i := range res.Series.Observations {
		want, got := &res.Series.Observations[i], &cleaned.Observations[i]
		if !want.Date.Equal(got.Date) {
			p.errorf("row %d: date %s, want %s", i+1, day(got), day(want))
			continue
		}
		for _, v := range domain.Variables {
			if textfile.FormatValue(want.Get(v)) != textfile.FormatValue(got.Get(v)) {
				p.errorf("%s %s=%s, want %s", day(got), v,
					textfile.FormatValue(got.Get(v)), textfile.FormatValue(want.Get(v)))
			}
		}
	}
	for _, c := range domain.Checks {
		if want, got := res.Ledger.Row(c), ledger.Row(c); want != got {
			p.errorf("summary %s: %v, want %v", c, got, want)
		}
	}
	return p
}
