// Package domain models daily hydrometeorological observations and the
// quality-control checks applied to them.
//
// # Data Source
//
// Records come from a station's daily log: one line per day with
// precipitation (mm), maximum and minimum air temperature (°C) and mean wind
// speed (m/s). Days where an instrument recorded nothing carry the sentinel
// -999 in that column.
//
// # Missing Readings
//
// A reading is a [Value]: either present or missing. Missing readings never
// satisfy a comparison, so a day with a missing temperature is never flagged
// by the swap or range checks. Sentinels stay present until [RemoveNoData]
// converts them.
//
// # Checks
//
// The pipeline runs four checks in a fixed order (see [Stages]):
//
//	1. No Data      -999 -> missing; row counts every missing reading afterwards
//	2. Gross Error  readings outside the plausible range -> missing
//	                  Precip [0, 25] mm    Max/Min Temp [-25, 35] °C    Wind [0, 10] m/s
//	3. Swapped      min > max -> values exchanged
//	4. Range Fail   max - min > 25 °C -> both temperatures missing
//
// Each check is a function (Series, Ledger) -> (Series, Ledger) that copies
// the series before changing it and writes only its own [Ledger] row.
//
// The No Data row deliberately includes readings that were missing before
// the sentinel was replaced, whereas the later rows count only what their own
// check changed. Downstream reports depend on this.
package domain
