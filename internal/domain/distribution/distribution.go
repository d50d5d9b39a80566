// Package distribution builds chart-ready distributions from derived
// records: distance and pace histograms, monthly counts and distance
// bracket counts.
package distribution

import "github.com/okian/runstats/internal/domain/model"

// Chart labels.
const (
	labelRunCount = "Number of runs"

	distanceTitle  = "Number of runs at each distance"
	distanceXLabel = "Distance (miles)"
	paceTitle      = "Number of runs at each pace"
	paceXLabel     = "Pace (min/mile)"
	monthTitle     = "Number of runs per month"
	monthXLabel    = "Month"
	bracketTitle   = "Runs by distance"
	bracketXLabel  = "Distance (miles)"
)

// Builder produces distributions. It holds only read-only configuration
// and is safe for concurrent use.
type Builder struct {
	maxBins int
}

// New creates a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{maxBins: DefaultMaxBins}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Distance returns the histogram of distances in miles.
func (b *Builder) Distance(records []model.DerivedRecord) model.Distribution {
	values := make([]float64, len(records))
	for i := range records {
		values[i] = records[i].DistanceMi
	}
	buckets, undefined := Histogram(values, b.maxBins)
	return model.Distribution{
		Kind:      model.KindNumeric,
		Title:     distanceTitle,
		XLabel:    distanceXLabel,
		YLabel:    labelRunCount,
		Buckets:   buckets,
		Undefined: undefined,
	}
}

// Pace returns the histogram of pace in minutes per mile. Non-finite paces
// from zero-distance activities are reported in Undefined.
func (b *Builder) Pace(records []model.DerivedRecord) model.Distribution {
	values := make([]float64, len(records))
	for i := range records {
		values[i] = records[i].PaceMinPerMi
	}
	buckets, undefined := Histogram(values, b.maxBins)
	return model.Distribution{
		Kind:      model.KindNumeric,
		Title:     paceTitle,
		XLabel:    paceXLabel,
		YLabel:    labelRunCount,
		Buckets:   buckets,
		Undefined: undefined,
	}
}

// Monthly returns exactly twelve buckets in calendar order. Records without
// a month are not counted.
func (b *Builder) Monthly(records []model.DerivedRecord) model.Distribution {
	buckets := make([]model.Bucket, len(model.MonthAbbreviations))
	for i, abbr := range model.MonthAbbreviations {
		buckets[i].Label = abbr
	}
	for i := range records {
		if m := records[i].Month; m.Valid() {
			buckets[m-1].Count++
		}
	}
	return model.Distribution{
		Kind:    model.KindCategoricalOrdered,
		Title:   monthTitle,
		XLabel:  monthXLabel,
		YLabel:  labelRunCount,
		Buckets: buckets,
	}
}

// Brackets returns the counts per distance bracket in ascending bracket
// order.
func (b *Builder) Brackets(records []model.DerivedRecord) model.Distribution {
	index := make(map[string]int, len(model.BracketLabels))
	buckets := make([]model.Bucket, len(model.BracketLabels))
	for i, label := range model.BracketLabels {
		buckets[i].Label = label
		index[label] = i
	}
	for i := range records {
		if idx, ok := index[records[i].DistanceBracket]; ok {
			buckets[idx].Count++
		}
	}
	return model.Distribution{
		Kind:    model.KindCategoricalUnordered,
		Title:   bracketTitle,
		XLabel:  bracketXLabel,
		YLabel:  labelRunCount,
		Buckets: buckets,
	}
}

// All builds the four distributions of a report.
func (b *Builder) All(records []model.DerivedRecord) model.Distributions {
	return model.Distributions{
		Distance: b.Distance(records),
		Pace:     b.Pace(records),
		Month:    b.Monthly(records),
		Bracket:  b.Brackets(records),
	}
}
