package sampledata

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/runstats/internal/domain/model"
)

// ErrMismatch is wrapped by every verification failure.
var ErrMismatch = errors.New("report mismatch")

// summaryTolerance absorbs rounding of per-row conversions.
const summaryTolerance = 0.011

// Verify checks that report is consistent with the activities it was built
// from. Every generated year must be a supported year of the service.
func Verify(report *model.Report, activities []Activity) error {
	if report == nil {
		return fmt.Errorf("%w: no report", ErrMismatch)
	}

	want := Expected(activities)
	got := report.Overall

	if got.ActivityCount != want.ActivityCount {
		return fmt.Errorf("%w: activities %d, want %d", ErrMismatch, got.ActivityCount, want.ActivityCount)
	}
	if report.Rows != len(activities) {
		return fmt.Errorf("%w: rows %d, want %d", ErrMismatch, report.Rows, len(activities))
	}
	if err := near("distance", got.TotalDistanceMi, want.TotalDistanceMi); err != nil {
		return err
	}
	if err := near("moving time", got.TotalMovingTimeHr, want.TotalMovingTimeHr); err != nil {
		return err
	}
	if err := near("elevation gain", got.TotalElevationGainFt, want.TotalElevationGainFt); err != nil {
		return err
	}

	yearly := 0
	for _, y := range report.Yearly {
		yearly += y.ActivityCount
	}
	if yearly != want.ActivityCount {
		return fmt.Errorf("%w: yearly counts sum to %d, want %d", ErrMismatch, yearly, want.ActivityCount)
	}

	if total := report.Distributions.Month.Total(); total != want.ActivityCount {
		return fmt.Errorf("%w: month buckets sum to %d, want %d", ErrMismatch, total, want.ActivityCount)
	}
	if total := report.Distributions.Bracket.Total(); total != want.ActivityCount {
		return fmt.Errorf("%w: bracket buckets sum to %d, want %d", ErrMismatch, total, want.ActivityCount)
	}

	pace := report.Distributions.Pace
	if pace.Total()+pace.Undefined != want.ActivityCount {
		return fmt.Errorf("%w: pace buckets %d + undefined %d, want %d",
			ErrMismatch, pace.Total(), pace.Undefined, want.ActivityCount)
	}
	return nil
}

func near(what string, got, want float64) error {
	tolerance := math.Max(summaryTolerance, math.Abs(want)*1e-9)
	if math.Abs(got-want) > tolerance {
		return fmt.Errorf("%w: %s %.2f, want %.2f", ErrMismatch, what, got, want)
	}
	return nil
}
