// Command genmock writes a deterministic synthetic observation file with
// injected faults, then runs the quality-control checks over it so the
// expected correction counts can be copied into test assertions.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/synthetic.txt \
//	  -expected-out data/mock/synthetic_checked.txt \
//	  -days 365 -seed 1950
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-data-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/jonboulle/clockwork"
)

// faultKind is a kind of error injected into a generated day.
type faultKind int

const (
	faultNone faultKind = iota
	faultSentinel
	faultGross
	faultSwap
	faultSpread
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the synthetic raw file")
	expectedOut := flag.String("expected-out", "", "optional output path for the cleaned file")
	days := flag.Int("days", 365, "number of consecutive days to generate")
	start := flag.String("start", "1950-01-01", "first date (YYYY-MM-DD)")
	seed := flag.Uint64("seed", 1950, "random seed")
	faultRate := flag.Float64("fault-rate", 0.15, "probability that a day carries an injected fault")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *days <= 0 {
		return fmt.Errorf("-days must be positive")
	}
	if *faultRate < 0 || *faultRate > 1 {
		return fmt.Errorf("-fault-rate must be within [0, 1]")
	}
	first, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	series, injected := generate(rng, first, *days, *faultRate)

	if err := writeSeries(*out, series); err != nil {
		return fmt.Errorf("writing raw file: %w", err)
	}
	log.Printf("wrote %d days: %s", series.Len(), *out)

	// Fixed clock so the generated artefacts are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(first))
	defer domain.SetClock(nil)

	res := domain.RunChecks(series, domain.NewLedger())

	if *expectedOut != "" {
		if err := writeSeries(*expectedOut, res.Series); err != nil {
			return fmt.Errorf("writing cleaned file: %w", err)
		}
		log.Printf("wrote cleaned file: %s", *expectedOut)
	}

	printStats(injected, res.Ledger)
	return nil
}

// generate builds a seasonal series and injects at most one fault per day.
func generate(rng *rand.Rand, first time.Time, days int, faultRate float64) (domain.Series, map[faultKind]int) {
	series := domain.Series{Observations: make([]domain.Observation, 0, days)}
	injected := map[faultKind]int{}

	for d := range days {
		date := first.AddDate(0, 0, d)
		obs := plausibleDay(rng, date)

		kind := faultNone
		if rng.Float64() < faultRate {
			kind = faultKind(1 + rng.IntN(4))
		}
		injectFault(rng, &obs, kind)
		injected[kind]++

		series.Observations = append(series.Observations, obs)
	}
	return series, injected
}

// plausibleDay draws readings that pass every check.
func plausibleDay(rng *rand.Rand, date time.Time) domain.Observation {
	season := math.Cos(2 * math.Pi * float64(date.YearDay()-200) / 365)
	mean := 12 + 10*season

	spread := 4 + rng.Float64()*12
	maxT := clamp(mean+spread/2+rng.NormFloat64()*2, -20, 33)
	minT := clamp(maxT-spread, -24, maxT)

	precip := 0.0
	if rng.Float64() < 0.35 {
		precip = math.Min(rng.ExpFloat64()*4, 24)
	}
	wind := clamp(2.5+rng.NormFloat64()*1.5, 0, 9.5)

	return domain.Observation{
		Date:      date,
		Precip:    domain.Of(round1(precip)),
		MaxTemp:   domain.Of(round1(maxT)),
		MinTemp:   domain.Of(round1(minT)),
		WindSpeed: domain.Of(round1(wind)),
	}
}

func injectFault(rng *rand.Rand, obs *domain.Observation, kind faultKind) {
	switch kind {
	case faultSentinel:
		obs.Set(domain.Variables[rng.IntN(domain.NumVariables)], domain.Of(domain.NoDataValue))
	case faultGross:
		v := domain.Variables[rng.IntN(domain.NumVariables)]
		b := domain.GrossErrorBounds[v]
		if rng.IntN(2) == 0 {
			obs.Set(v, domain.Of(round1(b.Min-1-rng.Float64()*20)))
		} else {
			obs.Set(v, domain.Of(round1(b.Max+1+rng.Float64()*20)))
		}
	case faultSwap:
		obs.MaxTemp, obs.MinTemp = obs.MinTemp, obs.MaxTemp
		if obs.MaxTemp == obs.MinTemp {
			obs.MinTemp = domain.Of(obs.MaxTemp.Float() + 1)
		}
	case faultSpread:
		lo := -20 + rng.Float64()*10
		obs.MinTemp = domain.Of(round1(lo))
		obs.MaxTemp = domain.Of(round1(lo + domain.MaxTempSpread + 1 + rng.Float64()*8))
	}
}

func writeSeries(path string, series domain.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := textfile.WriteSeries(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(injected map[faultKind]int, ledger domain.Ledger) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Injected: sentinel=%d, gross=%d, swap=%d, spread=%d, clean=%d\n",
		injected[faultSentinel], injected[faultGross], injected[faultSwap], injected[faultSpread], injected[faultNone])

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	fmt.Fprintln(w, "\nExpected summary:")
	if err := textfile.WriteSummary(w, ledger); err != nil {
		log.Printf("write summary: %v", err)
	}
}

func clamp(f, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, f))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
