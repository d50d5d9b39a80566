package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func gatheredNames(registry *prometheus.Registry) map[string]bool {
	families, err := registry.Gather()
	So(err, ShouldBeNil)
	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with defaults", func() {
			m := NewManager(WithPrometheusRegistry(registry))
			m.pipelineRuns.WithLabelValues("success").Inc()
			m.rowsIngested.Add(3)

			Convey("Then metrics use the runstats namespace and pipeline subsystem", func() {
				names := gatheredNames(registry)
				So(names["runstats_pipeline_runs_total"], ShouldBeTrue)
				So(names["runstats_pipeline_rows_ingested_total"], ShouldBeTrue)
				So(names["runstats_pipeline_queue_size"], ShouldBeTrue)
			})
		})

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("acme"),
				WithSubsystem("batch"),
				WithMetricPrefix("v2_"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.workerProcessed.Inc()

			Convey("Then names and constant labels follow the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() != "acme_batch_v2_worker_processed_total" {
						continue
					}
					found = true
					labels := mf.GetMetric()[0].GetLabel()
					So(labels, ShouldHaveLength, 1)
					So(labels[0].GetName(), ShouldEqual, "env")
					So(labels[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
				So(m.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
			})
		})

		Convey("When passing empty values to options", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(m.namespace, ShouldEqual, "runstats")
				So(m.subsystem, ShouldEqual, "pipeline")
				So(m.metricPrefix, ShouldBeEmpty)
				So(m.histogramBuckets, ShouldNotBeEmpty)
				So(m.customLabels, ShouldNotBeNil)
			})
		})

		Convey("When registering two managers on the same registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the duplicate registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			So(func() {
				RecordPipelineRun("success")
				RecordPipelineRun("schema_error")
				RecordPipelineDuration(12.5)
				RecordRowsIngested(10)
				RecordRowsDropped(2)
				RecordActivities(8)
			}, ShouldNotPanic)

			Convey("Then they are exposed on the custom registry", func() {
				names := gatheredNames(GetRegistry())
				So(names["runstats_pipeline_runs_total"], ShouldBeTrue)
				So(names["runstats_pipeline_duration_milliseconds"], ShouldBeTrue)
				So(names["runstats_pipeline_rows_dropped_total"], ShouldBeTrue)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/process", "POST", "200")
				RecordHTTPRequestDuration("/process", "POST", "200", 4.0)
				RecordUploadBytes(2048)
			}, ShouldNotPanic)
		})

		Convey("When recording queue and worker metrics", func() {
			So(func() {
				UpdateQueueSize(3)
				UpdateQueueCapacity(16)
				UpdateQueueUtilization(3.0 / 16.0)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				RecordWorkerProcessed()
				RecordWorkerError()
				RecordWorkerProcessingLatency(20)
			}, ShouldNotPanic)
		})

		Convey("When recording error metrics", func() {
			So(func() {
				RecordErrorByComponent("pipeline", "conversion_error")
				RecordErrorByType("schema_error", "warning")
				RecordErrorByEndpoint("/process", "POST", "bad_csv")
				RecordErrorLatency("pipeline", "empty_dataset", 1.5)
			}, ShouldNotPanic)
		})

		Convey("When recording system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When using empty label values", func() {
			So(func() {
				RecordHTTPRequest("", "", "")
				RecordErrorByComponent("", "")
				RecordPipelineRun("")
			}, ShouldNotPanic)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager rebuilt with custom options", t, func() {
		previous := GetRegistry()
		Configure(
			WithNamespace("acme"),
			WithSubsystem("batch"),
			WithMetricPrefix("v2_"),
			WithHistogramBuckets([]float64{1, 10, 100}),
			WithCustomLabels(map[string]string{"env": "test"}),
		)
		Reset(func() { Configure() })

		RecordPipelineRun("success")
		RecordPipelineDuration(5)

		Convey("Then recordings land on a fresh registry under the new names", func() {
			So(GetRegistry(), ShouldNotPointTo, previous)
			names := gatheredNames(GetRegistry())
			So(names["acme_batch_v2_runs_total"], ShouldBeTrue)
			So(names["runstats_pipeline_runs_total"], ShouldBeFalse)
			So(globalManager.histogramBuckets, ShouldResemble, []float64{1, 10, 100})
			So(globalManager.customLabels, ShouldResemble, map[string]string{"env": "test"})
		})
	})

	Convey("Given Configure without options", t, func() {
		Configure()
		RecordRowsIngested(1)

		Convey("Then the default names are used", func() {
			So(gatheredNames(GetRegistry())["runstats_pipeline_rows_ingested_total"], ShouldBeTrue)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordRowsIngested(1)
					UpdateQueueSize(j)
					RecordPipelineDuration(float64(j))
					RecordHTTPRequest("/process", "POST", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then gathering still succeeds", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}
