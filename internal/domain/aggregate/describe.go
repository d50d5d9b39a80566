package aggregate

import (
	"math"
	"sort"

	"github.com/okian/runstats/internal/domain/model"
)

type numericColumn struct {
	name  string
	value func(*model.DerivedRecord) float64
}

var describedColumns = []numericColumn{
	{model.ColumnElapsedTime, func(r *model.DerivedRecord) float64 { return r.ElapsedTimeMin }},
	{model.ColumnMovingTime, func(r *model.DerivedRecord) float64 { return r.MovingTimeMin }},
	{model.ColumnDistance, func(r *model.DerivedRecord) float64 { return r.DistanceMi }},
	{model.ColumnElevationGain, func(r *model.DerivedRecord) float64 { return r.ElevationGainFt }},
	{model.ColumnElevationLoss, func(r *model.DerivedRecord) float64 { return r.ElevationLossFt }},
	{model.ColumnPace, func(r *model.DerivedRecord) float64 { return r.PaceMinPerMi }},
}

// Describe returns count, mean, sample standard deviation, min, quartiles
// and max for each numeric derived column. Only finite values take part;
// a column with no finite values reports zeros, and Std is 0 below two
// values.
func Describe(records []model.DerivedRecord) []model.ColumnStats {
	out := make([]model.ColumnStats, len(describedColumns))
	values := make([]float64, 0, len(records))
	for i, col := range describedColumns {
		values = values[:0]
		for j := range records {
			v := col.value(&records[j])
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		out[i] = describe(col.name, values)
	}
	return out
}

func describe(name string, values []float64) model.ColumnStats {
	stats := model.ColumnStats{Column: name, Count: len(values)}
	if len(values) == 0 {
		return stats
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	if len(sorted) > 1 {
		var ss float64
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		stats.Std = math.Sqrt(ss / float64(len(sorted)-1))
	}

	stats.Mean = mean
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.P25 = quantile(sorted, 0.25)
	stats.P50 = quantile(sorted, 0.5)
	stats.P75 = quantile(sorted, 0.75)
	return stats
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
