// Package aggregate computes summary tables over derived records.
//
// All functions are pure: they read the input slice and return new values.
// Sums keep full precision; rounding is a presentation step
// (model.SummaryRow.Rounded).
package aggregate

import (
	"sort"

	"github.com/okian/runstats/internal/domain/model"
)

// MinutesPerHour converts summed moving minutes to hours.
const MinutesPerHour = 60.0

// Summarize returns the overall summary of records. An empty input yields a
// zero row.
func Summarize(records []model.DerivedRecord) model.SummaryRow {
	var acc accumulator
	for i := range records {
		acc.add(&records[i])
	}
	return acc.row()
}

// SummarizeByYear groups records by year, ascending. Records without a
// year are left out of this table.
func SummarizeByYear(records []model.DerivedRecord) []model.YearSummary {
	groups := make(map[int]*accumulator)
	for i := range records {
		r := &records[i]
		if !r.HasYear() {
			continue
		}
		acc, ok := groups[r.Year]
		if !ok {
			acc = &accumulator{}
			groups[r.Year] = acc
		}
		acc.add(r)
	}

	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]model.YearSummary, len(years))
	for i, y := range years {
		out[i] = model.YearSummary{Year: y, SummaryRow: groups[y].row()}
	}
	return out
}

type accumulator struct {
	count     int
	distance  float64
	movingMin float64
	gain      float64
}

func (a *accumulator) add(r *model.DerivedRecord) {
	a.count++
	a.distance += r.DistanceMi
	a.movingMin += r.MovingTimeMin
	a.gain += r.ElevationGainFt
}

func (a *accumulator) row() model.SummaryRow {
	return model.SummaryRow{
		ActivityCount:        a.count,
		TotalDistanceMi:      a.distance,
		TotalMovingTimeHr:    a.movingMin / MinutesPerHour,
		TotalElevationGainFt: a.gain,
	}
}
