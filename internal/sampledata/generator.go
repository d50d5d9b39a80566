// Package sampledata generates synthetic activity exports and checks the
// reports the service returns for them.
package sampledata

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runstats/internal/domain/aggregate"
	"github.com/okian/runstats/internal/domain/cleaning"
	"github.com/okian/runstats/internal/domain/derive"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
)

// DateLayout is the date format of generated activities.
const DateLayout = "Jan 2, 2006, 3:04:05 PM"

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	runKindCount       = 6
)

// Distance ranges in kilometers per run kind.
const (
	recoveryMinKm   = 3.0
	recoveryRangeKm = 3.0
	easyMinKm       = 6.0
	easyRangeKm     = 4.0
	tempoMinKm      = 8.0
	tempoRangeKm    = 6.0
	longMinKm       = 16.0
	longRangeKm     = 16.0
	shortMinKm      = 1.0
	shortRangeKm    = 2.0
)

// Pace and elevation ranges.
const (
	paceMinSecPerKm   = 270.0
	paceRangeSecPerKm = 150.0
	maxPauseSec       = 600
	maxGainM          = 300.0
	lossJitter        = 0.2
	firstHour         = 5
	hourRange         = 16
)

// Kinds of run the generator draws from.
const (
	caseRecoveryRun = 0
	caseEasyRun     = 1
	caseTempoRun    = 2
	caseLongRun     = 3
	caseRace        = 4
	caseShortRun    = 5
)

var raceDistancesKm = []float64{5, 10, 21.1, 42.2}

// Header is the column order of generated exports. The trailing second
// Distance column (meters) mirrors real exports.
var Header = []string{
	"Activity ID",
	model.SourceDate,
	model.SourceName,
	model.SourceType,
	model.SourceDescription,
	model.SourceElapsedTime,
	model.SourceMovingTime,
	model.SourceDistance,
	model.SourceElevationGain,
	model.SourceElevationLoss,
	model.SourceDistance,
}

// Generator produces synthetic activities.
type Generator struct {
	years          []int
	treadmillEvery int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithYears sets the years activity dates are drawn from.
func WithYears(years []int) GeneratorOption {
	return func(g *Generator) {
		if len(years) > 0 {
			g.years = years
		}
	}
}

// WithTreadmillEvery makes every n-th activity a zero distance treadmill run.
func WithTreadmillEvery(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 0 {
			g.treadmillEvery = n
		}
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{years: derive.DefaultSupportedYears}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n).
func getRandomInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Generate creates n activities.
func (g *Generator) Generate(ctx context.Context, n int) []Activity {
	logger.Get().Info(ctx, "generating activities", logger.Int("count", n))

	activities := make([]Activity, n)
	for i := 0; i < n; i++ {
		treadmill := g.treadmillEvery > 0 && (i+1)%g.treadmillEvery == 0
		activities[i] = g.generateActivity(treadmill)
	}

	logger.Get().Info(ctx, "generated activities", logger.Int("count", len(activities)))
	return activities
}

func (g *Generator) generateActivity(treadmill bool) Activity {
	when := g.randomTime()

	distance := 0.0
	if !treadmill {
		distance = round(generateDistance(), 2)
	}

	pace := paceMinSecPerKm + getRandomFloat()*paceRangeSecPerKm
	km := distance
	if treadmill {
		km = easyMinKm
	}
	moving := int(math.Round(km * pace))
	elapsed := moving + getRandomInt(maxPauseSec)

	gain := 0.0
	loss := 0.0
	if !treadmill {
		gain = round(getRandomFloat()*maxGainM, 1)
		loss = round(gain*(1-lossJitter+2*lossJitter*getRandomFloat()), 1)
	}

	name := timeOfDay(when.Hour()) + " Run"
	description := ""
	if treadmill {
		name = "Treadmill Run"
		description = "indoor"
	}

	return Activity{
		ID:             uuid.NewString(),
		Date:           when.Format(DateLayout),
		Name:           name,
		Type:           "Run",
		Description:    description,
		ElapsedTimeSec: elapsed,
		MovingTimeSec:  moving,
		DistanceKm:     distance,
		ElevationGainM: gain,
		ElevationLossM: loss,
	}
}

func (g *Generator) randomTime() time.Time {
	year := g.years[getRandomInt(len(g.years))]
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := start.AddDate(1, 0, 0).Sub(start).Hours() / 24
	day := getRandomInt(int(days))
	hour := firstHour + getRandomInt(hourRange)
	minute := getRandomInt(60)
	second := getRandomInt(60)
	return start.AddDate(0, 0, day).Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second,
	)
}

// generateDistance draws a distance in kilometers for a random kind of run.
func generateDistance() float64 {
	switch getRandomInt(runKindCount) {
	case caseRecoveryRun:
		return recoveryMinKm + getRandomFloat()*recoveryRangeKm
	case caseEasyRun:
		return easyMinKm + getRandomFloat()*easyRangeKm
	case caseTempoRun:
		return tempoMinKm + getRandomFloat()*tempoRangeKm
	case caseLongRun:
		return longMinKm + getRandomFloat()*longRangeKm
	case caseRace:
		return raceDistancesKm[getRandomInt(len(raceDistancesKm))]
	case caseShortRun:
		return shortMinKm + getRandomFloat()*shortRangeKm
	default:
		return easyMinKm
	}
}

func timeOfDay(hour int) string {
	switch {
	case hour < 12:
		return "Morning"
	case hour < 14:
		return "Lunch"
	case hour < 18:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// WriteCSV writes activities as an export with Header.
func WriteCSV(w io.Writer, activities []Activity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, a := range activities {
		if err := cw.Write(a.record()); err != nil {
			return fmt.Errorf("failed to write activity %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func (a Activity) record() []string {
	return []string{
		a.ID,
		a.Date,
		a.Name,
		a.Type,
		a.Description,
		strconv.Itoa(a.ElapsedTimeSec),
		strconv.Itoa(a.MovingTimeSec),
		formatFloat(a.DistanceKm),
		formatFloat(a.ElevationGainM),
		formatFloat(a.ElevationLossM),
		formatFloat(round(a.DistanceKm*1000, 1)),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Expected returns the overall summary the pipeline should report for
// activities, rounded for presentation.
func Expected(activities []Activity) model.SummaryRow {
	var row model.SummaryRow
	for _, a := range activities {
		row.ActivityCount++
		row.TotalDistanceMi += a.DistanceKm * cleaning.KilometersToMiles
		row.TotalMovingTimeHr += float64(a.MovingTimeSec) / cleaning.SecondsPerMinute / aggregate.MinutesPerHour
		row.TotalElevationGainFt += a.ElevationGainM * cleaning.MetersToFeet
	}
	return row.Rounded()
}
