package main

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/runstats/internal/config"
	"github.com/okian/runstats/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const exportCSV = "Activity Date,Activity Name,Activity Type,Activity Description,Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n" +
	"\"Mar 5, 2024, 6:30:00 AM\",Morning Run,Run,,2000,1800,8,40,35\n"

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("RUNSTATS_ADDR", ":8080")
			_ = os.Setenv("RUNSTATS_DATE_MODE", "structured")
			_ = os.Setenv("RUNSTATS_MAX_UPLOAD_BYTES", "1024")
			defer func() {
				_ = os.Unsetenv("RUNSTATS_ADDR")
				_ = os.Unsetenv("RUNSTATS_DATE_MODE")
				_ = os.Unsetenv("RUNSTATS_MAX_UPLOAD_BYTES")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DateMode, convey.ShouldEqual, config.DateModeStructured)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(1024))
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("RUNSTATS_ADDR", "")
			defer func() { _ = os.Unsetenv("RUNSTATS_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the wired mux", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc := newService(cfg, logger.Get())
		mux := newMux(ctx, cfg, svc)

		convey.Convey("When uploading an export", func() {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			part, err := mw.CreateFormFile("file", "activities.csv")
			convey.So(err, convey.ShouldBeNil)
			_, _ = part.Write([]byte(exportCSV))
			convey.So(mw.Close(), convey.ShouldBeNil)

			req := httptest.NewRequest(http.MethodPost, "/process", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then a report is returned and counted", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"activities":1`)
				convey.So(svc.GetStats().Runs, convey.ShouldEqual, int64(1))
			})
		})

		convey.Convey("When fetching the other routes", func() {
			for _, path := range []string{"/healthz", "/stats", "/openapi.yaml", "/api-docs"} {
				req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When testing system metrics update", func() {
			convey.So(func() {
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
