package model

import "math"

// Table is an ordered, presentation-ready view of records.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// DerivedTable renders records in DerivedColumns order. Absent year and
// month and non-finite pace become nil cells.
func DerivedTable(records []DerivedRecord) Table {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = r.Values()
	}
	return Table{Columns: append([]string(nil), DerivedColumns...), Rows: rows}
}

// Values returns the record's cells in DerivedColumns order.
func (r DerivedRecord) Values() []any {
	var year, month any
	if r.HasYear() {
		year = r.Year
	}
	if r.HasMonth() {
		month = r.Month.String()
	}
	return []any{
		r.Date,
		year,
		month,
		r.Name,
		r.Type,
		r.Description,
		r.ElapsedTimeMin,
		r.MovingTimeMin,
		r.DistanceMi,
		r.ElevationGainFt,
		r.ElevationLossFt,
		finiteOrNil(r.PaceMinPerMi),
		r.DistanceBracket,
	}
}

func finiteOrNil(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
