package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/runstats/internal/adapters/http/api"
	service "github.com/okian/runstats/internal/app"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const exportCSV = "Activity Date,Activity Name,Activity Type,Activity Description," +
	"Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n" +
	"Jan 5 2023,Morning Run,Run,,1900,1800,10,100,90\n" +
	"Jan 20 2023,Easy Run,Run,,1300,1200,4,20,20\n"

// Mock implementations for testing.
type mockDependencies struct {
	report *model.Report
	err    error
	body   string
}

func (m *mockDependencies) ProcessCSV(_ context.Context, r io.Reader) (*model.Report, error) {
	b, _ := io.ReadAll(r)
	m.body = string(b)
	return m.report, m.err
}

type mockStatsProvider struct {
	stats service.Stats
}

func (m *mockStatsProvider) GetStats() service.Stats {
	return m.stats
}

func multipartRequest(field, filename, content string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		if filename == "" {
			_ = mw.WriteField(field, content)
		} else {
			fw, _ := mw.CreateFormFile(field, filename)
			_, _ = fw.Write([]byte(content))
		}
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func newMux(deps api.Dependencies, stats api.StatsProvider, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, stats, opts...).Register(context.Background(), mux)
	return mux
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{report: &model.Report{ID: "r1"}}
		stats := &mockStatsProvider{stats: service.Stats{Runs: 3, Failures: 1, Rows: 40, Started: time.Unix(0, 0).UTC()}}
		mux := newMux(deps, stats)

		Convey("Then the health endpoint serves Prometheus metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})

		Convey("Then the stats endpoint returns the counters", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			body := decodeError(w)
			So(body["runs"], ShouldEqual, 3.0)
			So(body["failures"], ShouldEqual, 1.0)
			So(body["rows"], ShouldEqual, 40.0)
			So(body["started"], ShouldEqual, "1970-01-01T00:00:00Z")
			So(body["uptime_seconds"], ShouldBeGreaterThan, 0.0)
			So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")
		})

		Convey("Then non-POST requests to /process are not found", func() {
			req := httptest.NewRequest(http.MethodGet, "/process", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then every response carries a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req = httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "client-42")
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "client-42")
		})

		Convey("Then non-GET requests to /stats are not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(&mockDependencies{}, &mockStatsProvider{})

		Convey("Then Register panics", func() {
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestProcessHandler_Uploads(t *testing.T) {
	Convey("Given a process handler with a mock pipeline", t, func() {
		deps := &mockDependencies{report: &model.Report{ID: "r1", Rows: 2}}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When a file is uploaded in the multipart field", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, multipartRequest("file", "activities.csv", exportCSV))

			Convey("Then the pipeline sees the file and the report is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.body, ShouldEqual, exportCSV)
				var report model.Report
				So(json.Unmarshal(w.Body.Bytes(), &report), ShouldBeNil)
				So(report.ID, ShouldEqual, "r1")
			})
		})

		Convey("When the body is sent as text/csv", func() {
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(exportCSV))
			req.Header.Set("Content-Type", "text/csv; charset=utf-8")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the body is processed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.body, ShouldEqual, exportCSV)
			})
		})

		Convey("When the multipart form has no file field", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, multipartRequest("", "", ""))

			Convey("Then it reports a missing file part", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "missing_file")
				So(body["message"], ShouldContainSubstring, "No file part")
			})
		})

		Convey("When the file field has an empty filename", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, multipartRequest("file", "", ""))

			Convey("Then it reports no selected file", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "empty_filename")
				So(body["message"], ShouldContainSubstring, "No selected file")
			})
		})

		Convey("When the content type is neither multipart nor csv", func() {
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it reports a missing file part", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "missing_file")
			})
		})

		Convey("When the report cannot be encoded", func() {
			deps.report = &model.Report{ID: "r-inf", Overall: model.SummaryRow{TotalDistanceMi: math.Inf(1)}}
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(exportCSV))
			req.Header.Set("Content-Type", "text/csv")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then an internal error envelope replaces the empty 200", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal")
				So(body["message"], ShouldContainSubstring, "encode response")
			})
		})

		Convey("When the pipeline fails unexpectedly", func() {
			deps.err = errors.New("disk on fire")
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(exportCSV))
			req.Header.Set("Content-Type", "text/csv")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it returns an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal")
				So(body["message"], ShouldContainSubstring, "disk on fire")
			})
		})
	})
}

func TestProcessHandler_Pipeline(t *testing.T) {
	Convey("Given a process handler backed by the real pipeline", t, func() {
		svc := service.New()
		mux := newMux(svc, svc, api.WithMaxUploadBytes(1<<20))

		post := func(content string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(content))
			req.Header.Set("Content-Type", "text/csv")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When a valid export is posted", func() {
			w := post(exportCSV)

			Convey("Then the report summarizes it", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var report model.Report
				So(json.Unmarshal(w.Body.Bytes(), &report), ShouldBeNil)
				So(report.Overall.ActivityCount, ShouldEqual, 2)
				So(report.Yearly, ShouldHaveLength, 1)
				So(report.Distributions.Month.Count("Jan"), ShouldEqual, 2)
			})
		})

		Convey("When a required column is missing", func() {
			w := post("Activity Date,Distance\nJan 5 2023,1\n")

			Convey("Then it is unprocessable and lists the missing columns", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "schema_error")
				So(body["missing"], ShouldHaveLength, 7)
			})
		})

		Convey("When a numeric cell is not a number", func() {
			w := post(strings.Replace(exportCSV, ",4,20,20", ",four,20,20", 1))

			Convey("Then the column and row are reported", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "conversion_error")
				So(body["column"], ShouldEqual, "Distance")
				So(body["row"], ShouldEqual, 1.0)
			})
		})

		Convey("When a finite cell overflows after unit conversion", func() {
			w := post("Activity Date,Activity Name,Activity Type,Activity Description," +
				"Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n" +
				"Jan 5 2023,Run,Run,,1900,1800,10,1e308,90\n")

			Convey("Then it is a conversion error with a JSON body", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "conversion_error")
				So(body["column"], ShouldEqual, "Elevation Gain")
				So(body["row"], ShouldEqual, 0.0)
			})
		})

		Convey("When summed values overflow", func() {
			w := post("Activity Date,Activity Name,Activity Type,Activity Description," +
				"Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n" +
				"Jan 5 2023,Run,Run,,1900,1800,10,5e307,90\n" +
				"Jan 6 2023,Run,Run,,1900,1800,10,5e307,90\n")

			Convey("Then it is unprocessable with a numeric_overflow code", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "numeric_overflow")
			})
		})

		Convey("When no row survives cleaning", func() {
			w := post("Activity Date,Activity Name,Activity Type,Activity Description," +
				"Elapsed Time,Moving Time,Distance,Elevation Gain,Elevation Loss\n")

			Convey("Then the dataset is reported empty", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decodeError(w)["code"], ShouldEqual, "empty_dataset")
			})
		})

		Convey("When the CSV is malformed", func() {
			w := post("a,b\n\"unterminated,1\n")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_csv")
			})
		})
	})

	Convey("Given a tiny upload limit", t, func() {
		svc := service.New()
		mux := newMux(svc, svc, api.WithMaxUploadBytes(16))

		Convey("When a larger body is posted", func() {
			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(exportCSV))
			req.Header.Set("Content-Type", "text/csv")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is rejected as too large", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
				So(decodeError(w)["code"], ShouldEqual, "too_large")
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		cause := errors.New("boom")

		Convey("WrapKind matches both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("NewKind carries only the kind", func() {
			err := api.NewKind("api.op", api.ErrUnprocessable)
			So(errors.Is(err, api.ErrUnprocessable), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: unprocessable dataset")
		})

		Convey("Wrap prefixes the operation", func() {
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: boom")
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.WrapKind("api.op", api.ErrBadRequest, nil), ShouldBeNil)
		})
	})
}
