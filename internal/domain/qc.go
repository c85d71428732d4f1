package domain

// NoDataValue is the reserved reading meaning "not recorded".
const NoDataValue = -999.0

// MaxTempSpread is the largest plausible daily max-min temperature spread, in °C.
const MaxTempSpread = 25.0

// Bounds is a closed range of physically plausible readings.
type Bounds struct {
	Min, Max float64
}

// Contains reports whether f lies within [Min, Max].
func (b Bounds) Contains(f float64) bool { return f >= b.Min && f <= b.Max }

// GrossErrorBounds are the plausible ranges used by the gross error check,
// indexed by Variable.
var GrossErrorBounds = [NumVariables]Bounds{
	Precip:    {Min: 0, Max: 25},
	MaxTemp:   {Min: -25, Max: 35},
	MinTemp:   {Min: -25, Max: 35},
	WindSpeed: {Min: 0, Max: 10},
}

// StageFunc is one step of the quality-control pipeline.
type StageFunc func(Series, Ledger) (Series, Ledger)

// Stage pairs a check with the function that performs it.
type Stage struct {
	Check Check
	Apply StageFunc
}

// Stages returns the four checks in the order they must run.
func Stages() []Stage {
	return []Stage{
		{Check: CheckNoData, Apply: RemoveNoData},
		{Check: CheckGrossError, Apply: RemoveGrossErrors},
		{Check: CheckSwapped, Apply: SwapInvertedTemps},
		{Check: CheckRangeFail, Apply: RemoveWideTempRange},
	}
}

// RunChecks applies every stage in order and stamps the result.
func RunChecks(series Series, ledger Ledger) Result {
	for _, st := range Stages() {
		series, ledger = st.Apply(series, ledger)
	}
	return Result{Series: series, Ledger: ledger, ProcessedAt: clock.Now()}
}

// RemoveNoData replaces every NoDataValue with a missing reading. The No Data
// row counts every missing reading after replacement, including ones that
// were already missing on input.
func RemoveNoData(series Series, ledger Ledger) (Series, Ledger) {
	out := series.Clone()
	var row Counts
	for i := range out.Observations {
		obs := &out.Observations[i]
		for _, v := range Variables {
			if f, ok := obs.Get(v).Get(); ok && f == NoDataValue {
				obs.Set(v, Missing())
			}
			if obs.Get(v).IsMissing() {
				row[v]++
			}
		}
	}
	return out, ledger.Record(CheckNoData, row)
}

// CountSentinels returns how many readings still hold NoDataValue.
func CountSentinels(series Series) Counts {
	var row Counts
	for i := range series.Observations {
		for _, v := range Variables {
			if f, ok := series.Observations[i].Get(v).Get(); ok && f == NoDataValue {
				row[v]++
			}
		}
	}
	return row
}

// RemoveGrossErrors discards readings outside GrossErrorBounds. Readings that
// are already missing are not counted.
func RemoveGrossErrors(series Series, ledger Ledger) (Series, Ledger) {
	out := series.Clone()
	var row Counts
	for _, v := range Variables {
		b := GrossErrorBounds[v]
		var below, above int
		for i := range out.Observations {
			f, ok := out.Observations[i].Get(v).Get()
			if !ok {
				continue
			}
			if f < b.Min {
				below++
			}
			if f > b.Max {
				above++
			}
		}
		row[v] = below + above

		for i := range out.Observations {
			obs := &out.Observations[i]
			if f, ok := obs.Get(v).Get(); ok && !b.Contains(f) {
				obs.Set(v, Missing())
			}
		}
	}
	return out, ledger.Record(CheckGrossError, row)
}

// SwapInvertedTemps exchanges max and min temperature on days where the
// minimum exceeds the maximum. Days missing either reading are left alone.
func SwapInvertedTemps(series Series, ledger Ledger) (Series, Ledger) {
	out := series.Clone()
	n := 0
	for i := range out.Observations {
		obs := &out.Observations[i]
		hi, okHi := obs.MaxTemp.Get()
		lo, okLo := obs.MinTemp.Get()
		if !okHi || !okLo || lo <= hi {
			continue
		}
		obs.MaxTemp, obs.MinTemp = obs.MinTemp, obs.MaxTemp
		n++
	}
	return out, ledger.Record(CheckSwapped, Counts{Precip: 0, MaxTemp: n, MinTemp: n, WindSpeed: 0})
}

// RemoveWideTempRange discards both temperatures on days whose spread exceeds
// MaxTempSpread.
func RemoveWideTempRange(series Series, ledger Ledger) (Series, Ledger) {
	out := series.Clone()
	n := 0
	for i := range out.Observations {
		obs := &out.Observations[i]
		hi, okHi := obs.MaxTemp.Get()
		lo, okLo := obs.MinTemp.Get()
		if !okHi || !okLo || hi-lo <= MaxTempSpread {
			continue
		}
		obs.MaxTemp = Missing()
		obs.MinTemp = Missing()
		n++
	}
	return out, ledger.Record(CheckRangeFail, Counts{Precip: 0, MaxTemp: n, MinTemp: n, WindSpeed: 0})
}
