package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	service "github.com/okian/runstats/internal/app"
	"github.com/okian/runstats/internal/adapters/ingest"
	"github.com/okian/runstats/internal/domain/cleaning"
	"github.com/okian/runstats/internal/domain/derive"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/internal/domain/schema"
	"github.com/okian/runstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const header = "Activity Date,Activity Name,Activity Type,Activity Description," +
	"Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n"

func csvOf(lines ...string) *strings.Reader {
	return strings.NewReader(header + strings.Join(lines, "\n") + "\n")
}

func TestService_ProcessCSV(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When processing two January 2023 runs", func() {
			report, err := svc.ProcessCSV(ctx, csvOf(
				"Jan 5 2023,Morning Run,Run,,1900,1800,10,100,90",
				"Jan 20 2023,Easy Run,Run,legs,1300,1200,4,20,20",
			))

			Convey("Then the report summarizes both rows", func() {
				So(err, ShouldBeNil)
				So(report.ID, ShouldNotBeEmpty)
				So(report.Rows, ShouldEqual, 2)
				So(report.Dropped, ShouldEqual, 0)
				So(report.Overall.ActivityCount, ShouldEqual, 2)
				So(report.Overall.TotalDistanceMi, ShouldEqual, 8.69)
				So(report.Overall.TotalMovingTimeHr, ShouldEqual, 0.83)
				So(report.Overall.TotalElevationGainFt, ShouldEqual, 393.6)
			})

			Convey("And the yearly summary has a single 2023 row", func() {
				So(report.Yearly, ShouldHaveLength, 1)
				So(report.Yearly[0].Year, ShouldEqual, 2023)
				So(report.Yearly[0].ActivityCount, ShouldEqual, 2)
			})

			Convey("And the monthly distribution counts January only", func() {
				month := report.Distributions.Month
				So(month.Labels(), ShouldResemble, model.MonthAbbreviations[:])
				So(month.Count("Jan"), ShouldEqual, 2)
				So(month.Total(), ShouldEqual, 2)
			})

			Convey("And brackets cover every row", func() {
				So(report.Distributions.Bracket.Total(), ShouldEqual, 2)
				So(report.Distributions.Bracket.Count("6-8"), ShouldEqual, 1)
				So(report.Distributions.Bracket.Count("2-4"), ShouldEqual, 1)
			})

			Convey("And the table starts with Date, Year and Month", func() {
				So(report.Table.Columns[:3], ShouldResemble, []string{"Date", "Year", "Month"})
				So(report.Table.Rows, ShouldHaveLength, 2)
				So(report.Table.Rows[0][1], ShouldEqual, 2023)
				So(report.Table.Rows[0][2], ShouldEqual, "Jan")
			})

			Convey("And the longest activity comes first", func() {
				So(report.Longest.Rows, ShouldHaveLength, 2)
				So(report.Longest.Rows[0][3], ShouldEqual, "Morning Run")
			})
		})

		Convey("When a row has zero distance", func() {
			report, err := svc.ProcessCSV(ctx, csvOf(
				"Mar 1 2024,Treadmill,Run,,600,600,0,0,0",
				"Mar 2 2024,Road,Run,,1800,1800,10,0,0",
			))

			Convey("Then the pace is counted as undefined and kept in the table", func() {
				So(err, ShouldBeNil)
				So(report.Distributions.Pace.Undefined, ShouldEqual, 1)
				So(report.Distributions.Pace.Total(), ShouldEqual, 1)
				So(report.Table.Rows[0][11], ShouldBeNil)
				So(report.Overall.ActivityCount, ShouldEqual, 2)
			})
		})

		Convey("When the Elevation Loss column is missing", func() {
			r := strings.NewReader("Activity Date,Activity Name,Activity Type,Activity Description," +
				"Elapsed Time,Moving Time,Distance,Elevation Gain\nJan 5 2023,a,Run,,1,1,1,1\n")
			report, err := svc.ProcessCSV(ctx, r)

			Convey("Then a schema error names the column and no report is produced", func() {
				So(report, ShouldBeNil)
				var missing *schema.MissingColumnsError
				So(errors.As(err, &missing), ShouldBeTrue)
				So(missing.Missing, ShouldResemble, []string{"Elevation Loss"})
				So(service.ErrorCode(err), ShouldEqual, service.CodeSchemaError)
			})
		})

		Convey("When a numeric cell is not a number", func() {
			report, err := svc.ProcessCSV(ctx, csvOf(
				"Jan 5 2023,a,Run,,1,1,1,1,1",
				"Jan 6 2023,b,Run,,1,1,far,1,1",
			))

			Convey("Then a conversion error names the column and row", func() {
				So(report, ShouldBeNil)
				var conv *cleaning.ConversionError
				So(errors.As(err, &conv), ShouldBeTrue)
				So(conv.Column, ShouldEqual, "Distance")
				So(conv.Row, ShouldEqual, 1)
				So(service.ErrorCode(err), ShouldEqual, service.CodeConversionError)
			})
		})

		Convey("When every row is too short", func() {
			report, err := svc.ProcessCSV(ctx, csvOf("Jan 5 2023,a,Run"))

			Convey("Then an empty dataset error reports the dropped rows", func() {
				So(report, ShouldBeNil)
				var empty *service.EmptyDatasetError
				So(errors.As(err, &empty), ShouldBeTrue)
				So(empty.Dropped, ShouldEqual, 1)
				So(errors.Is(err, service.ErrEmptyDataset), ShouldBeTrue)
			})
		})

		Convey("When the input has no header", func() {
			_, err := svc.ProcessCSV(ctx, strings.NewReader(""))

			Convey("Then it is reported as bad CSV", func() {
				So(errors.Is(err, ingest.ErrNoHeader), ShouldBeTrue)
				So(service.ErrorCode(err), ShouldEqual, service.CodeBadCSV)
			})
		})

		Convey("When the summed elevation gain overflows", func() {
			_, err := svc.ProcessCSV(ctx, csvOf(
				"Jan 5 2023,Hill One,Run,,1900,1800,10,5e307,90",
				"Jan 6 2023,Hill Two,Run,,1900,1800,10,5e307,90",
			))

			Convey("Then the run fails with a numeric overflow", func() {
				var overflow *service.NumericOverflowError
				So(errors.As(err, &overflow), ShouldBeTrue)
				So(overflow.Field, ShouldEqual, "overall.elevation_gain_ft")
				So(service.ErrorCode(err), ShouldEqual, service.CodeNumericOverflow)
			})
		})

		Convey("When the context is already canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.ProcessCSV(canceled, csvOf("Jan 5 2023,a,Run,,1,1,1,1,1"))

			Convey("Then the run is abandoned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(service.ErrorCode(err), ShouldEqual, service.CodeCanceled)
			})
		})
	})
}

func TestService_Idempotent(t *testing.T) {
	Convey("Given the same input processed twice", t, func() {
		svc := service.New()
		ctx := context.Background()
		rows := []string{
			"Jan 5 2023,a,Run,,1900,1800,10,100,90",
			"Feb 9 2022,b,Run,,900,800,3.3,12,3",
			"Dec 24 2021,c,Run,,3000,2900,14.2,40,41",
		}

		first, err1 := svc.ProcessCSV(ctx, csvOf(rows...))
		second, err2 := svc.ProcessCSV(ctx, csvOf(rows...))

		Convey("Then every number is identical and only the run id differs", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(second.ID, ShouldNotEqual, first.ID)
			So(second.Overall, ShouldResemble, first.Overall)
			So(second.Yearly, ShouldResemble, first.Yearly)
			So(second.Distributions, ShouldResemble, first.Distributions)
			So(second.Describe, ShouldResemble, first.Describe)
			So(second.Table, ShouldResemble, first.Table)
		})

		Convey("Then yearly counts plus yearless rows equal the overall count", func() {
			total := 0
			for _, y := range first.Yearly {
				total += y.ActivityCount
			}
			So(total, ShouldEqual, first.Overall.ActivityCount)
		})
	})
}

func TestService_Options(t *testing.T) {
	Convey("Given a service limited to 2020 in structured mode", t, func() {
		svc := service.New(
			service.WithSupportedYears([]int{2020}),
			service.WithDateMode(derive.DateModeStructured),
			service.WithLongestCount(1),
			service.WithMaxHistogramBins(2),
		)
		report, err := svc.ProcessCSV(context.Background(), csvOf(
			"2020-07-04,a,Run,,1,1,1,1,1",
			"2023-07-04,b,Run,,1,1,20,1,1",
		))

		Convey("Then options shape the report", func() {
			So(err, ShouldBeNil)
			So(report.Yearly, ShouldHaveLength, 1)
			So(report.Yearly[0].Year, ShouldEqual, 2020)
			So(report.Distributions.Month.Count("Jul"), ShouldEqual, 2)
			So(report.Longest.Rows, ShouldHaveLength, 1)
			So(len(report.Distributions.Distance.Buckets), ShouldBeLessThanOrEqualTo, 2)
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a fresh service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When one run succeeds and one fails", func() {
			_, _ = svc.ProcessCSV(ctx, csvOf("Jan 5 2023,a,Run,,1,1,1,1,1", "Jan 6 2023,b,Run,,1,1,1,1,1"))
			_, _ = svc.ProcessCSV(ctx, strings.NewReader("Distance\n1\n"))

			Convey("Then the counters reflect both", func() {
				stats := svc.GetStats()
				So(stats.Runs, ShouldEqual, 2)
				So(stats.Failures, ShouldEqual, 1)
				So(stats.Rows, ShouldEqual, 2)
				So(stats.Started.IsZero(), ShouldBeFalse)
			})
		})
	})
}
