package domain

// Check identifies a quality-control stage. The declaration order is both the
// pipeline order and the row order of the correction summary.
type Check int

const (
	CheckNoData Check = iota
	CheckGrossError
	CheckSwapped
	CheckRangeFail

	NumChecks = 4
)

// Checks lists every check in pipeline order.
var Checks = [NumChecks]Check{CheckNoData, CheckGrossError, CheckSwapped, CheckRangeFail}

func (c Check) String() string {
	switch c {
	case CheckNoData:
		return "No Data"
	case CheckGrossError:
		return "Gross Error"
	case CheckSwapped:
		return "Swapped"
	case CheckRangeFail:
		return "Range Fail"
	default:
		return "unknown"
	}
}

// Counts is one ledger row, indexed by Variable.
type Counts [NumVariables]int

// Total returns the sum across variables.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Ledger tallies the values each check corrected or removed, per variable.
// It is a plain value: copying a Ledger copies its counts.
type Ledger struct {
	counts   [NumChecks]Counts
	recorded [NumChecks]bool
}

// NewLedger returns an all-zero ledger.
func NewLedger() Ledger { return Ledger{} }

// Record writes the row owned by check. Stages call it once.
func (l Ledger) Record(check Check, row Counts) Ledger {
	l.counts[check] = row
	l.recorded[check] = true
	return l
}

// Row returns the counts recorded for a check.
func (l Ledger) Row(check Check) Counts { return l.counts[check] }

// Get returns a single cell.
func (l Ledger) Get(check Check, v Variable) int { return l.counts[check][v] }

// Recorded reports whether the check has written its row.
func (l Ledger) Recorded(check Check) bool { return l.recorded[check] }

// Matrix returns every row in check order.
func (l Ledger) Matrix() [NumChecks]Counts { return l.counts }
