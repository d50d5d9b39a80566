package service

import (
	"math"
	"strconv"

	"github.com/okian/runstats/internal/domain/model"
)

// checkFinite rejects a report whose sums, statistics or bucket edges
// overflowed. Such values cannot be encoded as JSON.
func checkFinite(r *model.Report) error {
	if field := summaryOverflow("overall", r.Overall); field != "" {
		return &NumericOverflowError{Field: field}
	}
	for _, y := range r.Yearly {
		if field := summaryOverflow("yearly."+strconv.Itoa(y.Year), y.SummaryRow); field != "" {
			return &NumericOverflowError{Field: field}
		}
	}
	for _, c := range r.Describe {
		for _, v := range []struct {
			name  string
			value float64
		}{
			{"mean", c.Mean}, {"std", c.Std}, {"min", c.Min}, {"p25", c.P25},
			{"p50", c.P50}, {"p75", c.P75}, {"max", c.Max},
		} {
			if !finite(v.value) {
				return &NumericOverflowError{Field: "describe." + c.Column + "." + v.name}
			}
		}
	}
	for name, d := range map[string]model.Distribution{
		"distance": r.Distributions.Distance,
		"pace":     r.Distributions.Pace,
	} {
		for _, b := range d.Buckets {
			if b.Range != nil && (!finite(b.Range.Lower) || !finite(b.Range.Upper)) {
				return &NumericOverflowError{Field: "distributions." + name}
			}
		}
	}
	return nil
}

func summaryOverflow(prefix string, row model.SummaryRow) string {
	switch {
	case !finite(row.TotalDistanceMi):
		return prefix + ".distance_mi"
	case !finite(row.TotalMovingTimeHr):
		return prefix + ".moving_time_hr"
	case !finite(row.TotalElevationGainFt):
		return prefix + ".elevation_gain_ft"
	default:
		return ""
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
