package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Value is an optional reading. The zero Value is missing.
type Value struct {
	v     float64
	valid bool
}

// Missing returns a missing Value.
func Missing() Value { return Value{} }

// Of wraps a reading. NaN is treated as missing.
func Of(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{v: f, valid: true}
}

// Get returns the reading and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.valid }

// IsMissing reports whether no reading is held.
func (v Value) IsMissing() bool { return !v.valid }

// Float returns the reading, or NaN when missing.
func (v Value) Float() float64 {
	if !v.valid {
		return math.NaN()
	}
	return v.v
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		*v = Value{}
		return nil
	}
	*v = Of(*f)
	return nil
}

// Variable identifies one of the four observed quantities. The declaration
// order is the column order of every report.
type Variable int

const (
	Precip Variable = iota
	MaxTemp
	MinTemp
	WindSpeed

	NumVariables = 4
)

// Variables lists every variable in report order.
var Variables = [NumVariables]Variable{Precip, MaxTemp, MinTemp, WindSpeed}

func (v Variable) String() string {
	switch v {
	case Precip:
		return "Precip"
	case MaxTemp:
		return "Max Temp"
	case MinTemp:
		return "Min Temp"
	case WindSpeed:
		return "Wind Speed"
	default:
		return "unknown"
	}
}

// Observation is one calendar day of readings.
//   - Precip: millimetres
//   - MaxTemp, MinTemp: degrees Celsius
//   - WindSpeed: metres per second
type Observation struct {
	Date      time.Time `json:"date"`
	Precip    Value     `json:"precip"`
	MaxTemp   Value     `json:"max_temp"`
	MinTemp   Value     `json:"min_temp"`
	WindSpeed Value     `json:"wind_speed"`
}

// Get returns the reading for a variable.
func (o *Observation) Get(v Variable) Value {
	switch v {
	case Precip:
		return o.Precip
	case MaxTemp:
		return o.MaxTemp
	case MinTemp:
		return o.MinTemp
	case WindSpeed:
		return o.WindSpeed
	default:
		return Missing()
	}
}

// Set replaces the reading for a variable.
func (o *Observation) Set(v Variable, val Value) {
	switch v {
	case Precip:
		o.Precip = val
	case MaxTemp:
		o.MaxTemp = val
	case MinTemp:
		o.MinTemp = val
	case WindSpeed:
		o.WindSpeed = val
	}
}

// MissingCount returns how many of the four readings are missing.
func (o *Observation) MissingCount() int {
	n := 0
	for _, v := range Variables {
		if o.Get(v).IsMissing() {
			n++
		}
	}
	return n
}

// Series is a daily record ordered by strictly increasing date.
type Series struct {
	Observations []Observation `json:"observations"`
}

// Len returns the number of days in the series.
func (s Series) Len() int { return len(s.Observations) }

// Clone returns a copy that shares no backing storage with s.
func (s Series) Clone() Series {
	if s.Observations == nil {
		return Series{}
	}
	obs := make([]Observation, len(s.Observations))
	copy(obs, s.Observations)
	return Series{Observations: obs}
}

// Column returns the present readings of one variable in date order.
func (s Series) Column(v Variable) []float64 {
	out := make([]float64, 0, len(s.Observations))
	for i := range s.Observations {
		if f, ok := s.Observations[i].Get(v).Get(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Result is the terminal state of a pipeline run.
type Result struct {
	Series      Series
	Ledger      Ledger
	ProcessedAt time.Time
}
