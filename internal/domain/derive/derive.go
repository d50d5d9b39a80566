// Package derive computes the per-activity fields that depend on cleaned
// values: pace, calendar year, month and distance bracket.
package derive

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/runstats/internal/domain/model"
)

// structuredLayouts are the date layouts tried in DateModeStructured.
var structuredLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// Deriver turns cleaned records into derived records. It holds only
// read-only configuration and is safe for concurrent use.
type Deriver struct {
	years     []int
	yearTexts []string
	mode      DateMode
}

// New creates a Deriver with the default year list in scan mode.
func New(opts ...Option) *Deriver {
	d := &Deriver{
		years: sortedCopy(DefaultSupportedYears),
		mode:  DateModeScan,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.yearTexts = make([]string, len(d.years))
	for i, y := range d.years {
		d.yearTexts[i] = strconv.Itoa(y)
	}
	return d
}

// SupportedYears returns a copy of the supported year list.
func (d *Deriver) SupportedYears() []int {
	return append([]int(nil), d.years...)
}

// Derive returns a new slice with one DerivedRecord per input record, in
// input order. The input is not modified.
func (d *Deriver) Derive(records []model.ActivityRecord) []model.DerivedRecord {
	out := make([]model.DerivedRecord, len(records))
	for i, r := range records {
		year, month := d.calendar(r.Date)
		out[i] = model.DerivedRecord{
			ActivityRecord:  r,
			PaceMinPerMi:    Pace(r.MovingTimeMin, r.DistanceMi),
			Year:            year,
			Month:           month,
			DistanceBracket: Bracket(r.DistanceMi),
		}
	}
	return out
}

func (d *Deriver) calendar(date string) (int, model.Month) {
	if d.mode == DateModeStructured {
		if t, ok := parseDate(date); ok {
			year := t.Year()
			if !slices.Contains(d.years, year) {
				year = 0
			}
			return year, model.Month(t.Month())
		}
	}
	return d.Year(date), Month(date)
}

// Year returns the first supported year whose four digits occur in date,
// scanning the list in ascending order, or 0 when none does.
func (d *Deriver) Year(date string) int {
	for i, y := range d.yearTexts {
		if strings.Contains(date, y) {
			return d.years[i]
		}
	}
	return 0
}

// Month returns the first month, in calendar order, whose abbreviation
// occurs in date, or 0 when none does.
func Month(date string) model.Month {
	for i, abbr := range model.MonthAbbreviations {
		if strings.Contains(date, abbr) {
			return model.Month(i + 1)
		}
	}
	return 0
}

// Pace returns minutes per mile. A zero distance yields +Inf, or NaN when
// the moving time is also zero; the value is never coerced.
func Pace(movingTimeMin, distanceMi float64) float64 {
	return movingTimeMin / distanceMi
}

// Bracket places a distance in miles into one of the fixed brackets. The
// first boundary is exclusive at 2; the others are inclusive at 4, 6 and 8.
func Bracket(distanceMi float64) string {
	switch {
	case distanceMi < 2:
		return model.BracketUnder2
	case distanceMi <= 4:
		return model.Bracket2To4
	case distanceMi <= 6:
		return model.Bracket4To6
	case distanceMi <= 8:
		return model.Bracket6To8
	default:
		return model.BracketOver8
	}
}

func parseDate(date string) (time.Time, bool) {
	s := strings.TrimSpace(date)
	for _, layout := range structuredLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sortedCopy(years []int) []int {
	out := append([]int(nil), years...)
	slices.Sort(out)
	return out
}
