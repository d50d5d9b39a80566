// Package cleaning projects the required export columns, renames them to
// canonical names and converts units.
package cleaning

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/runstats/internal/domain/model"
)

// Unit conversion factors. The distance factor is a fixed approximation and
// must not be replaced by a more precise one.
const (
	KilometersToMiles = 0.621
	SecondsPerMinute  = 60.0
	MetersToFeet      = 3.28
)

// Result is the output of Clean.
type Result struct {
	Records []model.ActivityRecord
	// Dropped holds the indexes of input rows that lacked a required cell
	// entirely.
	Dropped []int
}

// Clean converts raw rows into activity records. Rows are processed in
// order; a non-numeric value in a numeric column aborts the whole operation
// with a *ConversionError and no records are returned.
func Clean(rows []model.RawRecord) (Result, error) {
	res := Result{Records: make([]model.ActivityRecord, 0, len(rows))}
	for i, row := range rows {
		if !hasRequired(row) {
			res.Dropped = append(res.Dropped, i)
			continue
		}
		rec, err := cleanRow(i, row)
		if err != nil {
			return Result{}, err
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func hasRequired(row model.RawRecord) bool {
	for _, c := range model.RequiredColumns {
		if _, ok := row[c]; !ok {
			return false
		}
	}
	return true
}

// numericColumns pairs each numeric source column with its unit factor.
var numericColumns = []struct {
	name   string
	factor float64
}{
	{model.SourceElapsedTime, 1 / SecondsPerMinute},
	{model.SourceMovingTime, 1 / SecondsPerMinute},
	{model.SourceDistance, KilometersToMiles},
	{model.SourceElevationGain, MetersToFeet},
	{model.SourceElevationLoss, 1},
}

func cleanRow(index int, row model.RawRecord) (model.ActivityRecord, error) {
	var nums [5]float64
	for i, col := range numericColumns {
		v, ok := number(row[col.name])
		if !ok {
			return model.ActivityRecord{}, &ConversionError{Column: col.name, Row: index, Value: row[col.name]}
		}
		// A finite cell can still overflow once converted.
		if converted := convert(v, col.factor); !isFinite(converted) {
			return model.ActivityRecord{}, &ConversionError{Column: col.name, Row: index, Value: row[col.name]}
		}
		nums[i] = v
	}

	return model.ActivityRecord{
		Date:            text(row[model.SourceDate]),
		Name:            text(row[model.SourceName]),
		Type:            text(row[model.SourceType]),
		Description:     text(row[model.SourceDescription]),
		ElapsedTimeMin:  nums[0] / SecondsPerMinute,
		MovingTimeMin:   nums[1] / SecondsPerMinute,
		DistanceMi:      nums[2] * KilometersToMiles,
		ElevationGainFt: nums[3] * MetersToFeet,
		ElevationLossFt: nums[4],
	}, nil
}

func convert(v, factor float64) float64 {
	if factor == 1 {
		return v
	}
	return v * factor
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// number accepts finite numbers and strings that parse as finite numbers.
func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !isFinite(f) {
		return 0, false
	}
	return f, true
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
