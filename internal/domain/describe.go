package domain

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary holds descriptive statistics for the present readings of one variable.
// Fields other than Count are NaN when Count is zero.
type Summary struct {
	Variable Variable
	Count    int
	Mean     float64
	Std      float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
}

// Describe summarizes every variable of the series in report order.
func Describe(series Series) []Summary {
	out := make([]Summary, 0, NumVariables)
	for _, v := range Variables {
		out = append(out, describeColumn(v, series.Column(v)))
	}
	return out
}

func describeColumn(v Variable, data stats.Float64Data) Summary {
	nan := math.NaN()
	s := Summary{Variable: v, Count: len(data), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(data) == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	if len(data) > 1 {
		s.Std, _ = stats.StandardDeviationSample(data)
	}
	// Quartile needs at least two points to split the data.
	if q, err := stats.Quartile(data); err == nil && len(data) > 1 {
		s.Q1, s.Q3 = q.Q1, q.Q3
	}
	return s
}
