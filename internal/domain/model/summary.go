package model

import "math"

// SummaryRow aggregates a set of derived records: a count plus sums.
type SummaryRow struct {
	ActivityCount        int     `json:"activities"`
	TotalDistanceMi      float64 `json:"distance_mi"`
	TotalMovingTimeHr    float64 `json:"moving_time_hr"`
	TotalElevationGainFt float64 `json:"elevation_gain_ft"`
}

// Rounded returns a copy with every sum rounded to two decimals for
// presentation.
func (s SummaryRow) Rounded() SummaryRow {
	return SummaryRow{
		ActivityCount:        s.ActivityCount,
		TotalDistanceMi:      Round2(s.TotalDistanceMi),
		TotalMovingTimeHr:    Round2(s.TotalMovingTimeHr),
		TotalElevationGainFt: Round2(s.TotalElevationGainFt),
	}
}

// YearSummary is a SummaryRow for a single calendar year.
type YearSummary struct {
	Year int `json:"year"`
	SummaryRow
}

// ColumnStats describes the finite values of one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Round2 rounds v to two decimal places. Non-finite values, and values so
// large that scaling would overflow, are returned unchanged.
func Round2(v float64) float64 {
	scaled := v * 100
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / 100
}
