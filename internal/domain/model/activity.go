// Package model contains domain models passed between pipeline stages.
package model

// Source column names as they appear in an activity export.
const (
	SourceDate          = "Activity Date"
	SourceName          = "Activity Name"
	SourceType          = "Activity Type"
	SourceDescription   = "Activity Description"
	SourceElapsedTime   = "Elapsed Time"
	SourceMovingTime    = "Moving Time"
	SourceDistance      = "Distance"
	SourceElevationGain = "Elevation Gain"
	SourceElevationLoss = "Elevation Loss"
)

// Canonical column names used after cleaning.
const (
	ColumnDate            = "Date"
	ColumnYear            = "Year"
	ColumnMonth           = "Month"
	ColumnName            = "Name"
	ColumnType            = "Type"
	ColumnDescription     = "Description"
	ColumnElapsedTime     = "Elapsed Time"
	ColumnMovingTime      = "Moving Time"
	ColumnDistance        = "Distance"
	ColumnElevationGain   = "Elevation Gain"
	ColumnElevationLoss   = "Elevation Loss"
	ColumnPace            = "Pace"
	ColumnDistanceBracket = "Distance Bracket"
)

// RequiredColumns lists the source columns every export must carry, in
// projection order.
var RequiredColumns = []string{
	SourceDate,
	SourceName,
	SourceType,
	SourceDescription,
	SourceElapsedTime,
	SourceMovingTime,
	SourceDistance,
	SourceElevationGain,
	SourceElevationLoss,
}

// CanonicalName maps a required source column to its cleaned name. Columns
// without an entry keep their source name.
func CanonicalName(source string) string {
	switch source {
	case SourceDate:
		return ColumnDate
	case SourceName:
		return ColumnName
	case SourceType:
		return ColumnType
	case SourceDescription:
		return ColumnDescription
	default:
		return source
	}
}

// CleanedColumns is the column order of an ActivityRecord.
var CleanedColumns = []string{
	ColumnDate,
	ColumnName,
	ColumnType,
	ColumnDescription,
	ColumnElapsedTime,
	ColumnMovingTime,
	ColumnDistance,
	ColumnElevationGain,
	ColumnElevationLoss,
}

// DerivedColumns is the column order of any exported or rendered view of
// derived records: Date, Year and Month first, then the remaining fields in
// their pre-existing order.
var DerivedColumns = []string{
	ColumnDate,
	ColumnYear,
	ColumnMonth,
	ColumnName,
	ColumnType,
	ColumnDescription,
	ColumnElapsedTime,
	ColumnMovingTime,
	ColumnDistance,
	ColumnElevationGain,
	ColumnElevationLoss,
	ColumnPace,
	ColumnDistanceBracket,
}

// RawRecord is one row of the ingested dataset keyed by source column name.
// Cell values are strings, numbers or nil.
type RawRecord map[string]any

// ActivityRecord is a cleaned row with units converted.
type ActivityRecord struct {
	Date            string  `json:"date"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	ElapsedTimeMin  float64 `json:"elapsed_time_min"`
	MovingTimeMin   float64 `json:"moving_time_min"`
	DistanceMi      float64 `json:"distance_mi"`
	ElevationGainFt float64 `json:"elevation_gain_ft"`
	// ElevationLossFt is carried in the export's original unit; only the
	// gain is converted.
	ElevationLossFt float64 `json:"elevation_loss_ft"`
}

// DerivedRecord is an ActivityRecord plus the fields computed from it.
// Year and Month are zero when absent.
type DerivedRecord struct {
	ActivityRecord
	PaceMinPerMi    float64 `json:"-"`
	Year            int     `json:"-"`
	Month           Month   `json:"-"`
	DistanceBracket string  `json:"-"`
}

// HasYear reports whether a supported year was found in the date.
func (r DerivedRecord) HasYear() bool { return r.Year != 0 }

// HasMonth reports whether a month abbreviation was found in the date.
func (r DerivedRecord) HasMonth() bool { return r.Month.Valid() }
