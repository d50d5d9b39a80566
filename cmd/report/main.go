package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	service "github.com/okian/runstats/internal/app"
	"github.com/okian/runstats/internal/batch"
	"github.com/okian/runstats/internal/config"
	"github.com/okian/runstats/internal/domain/derive"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
)

// fileResult is one entry of the JSON output.
type fileResult struct {
	Path       string        `json:"path"`
	Code       string        `json:"code"`
	Error      string        `json:"error,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Report     *model.Report `json:"report,omitempty"`
}

func main() {
	var (
		workers = flag.Int("workers", 0, "Number of concurrent workers (default: worker_count from config)")
		compact = flag.Bool("compact", false, "Print compact JSON")
		timeout = flag.Duration("timeout", 0, "Per file processing timeout (0 means none)")
	)
	flag.Usage = func() {
		os.Stderr.WriteString("Usage: report [options] export.csv [export.csv ...]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.WorkerCount = *workers
	}

	// Logs go to stderr so stdout stays valid JSON.
	if err := logger.InitWriter(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	failed, err := run(ctx, cfg, flag.Args(), *timeout, os.Stdout, !*compact)
	if err != nil {
		logger.Get().Error(ctx, "batch failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
	if failed > 0 {
		stop()
		os.Exit(1)
	}
}

// run processes paths and writes one JSON array to out. It returns the
// number of files that failed.
func run(ctx context.Context, cfg *config.Config, paths []string, timeout time.Duration, out io.Writer, indent bool) (int, error) {
	svc := service.New(
		service.WithSupportedYears(cfg.SupportedYears),
		service.WithDateMode(derive.DateMode(cfg.DateMode)),
		service.WithMaxHistogramBins(cfg.MaxHistogramBins),
		service.WithLongestCount(cfg.LongestCount),
	)
	runner := batch.New(svc,
		batch.WithWorkers(cfg.WorkerCount),
		batch.WithQueueSize(cfg.QueueSize),
		batch.WithJobTimeout(timeout),
	)

	results, err := runner.Run(ctx, paths)
	if err != nil && results == nil {
		return 0, err
	}

	failed := 0
	entries := make([]fileResult, len(results))
	for i, res := range results {
		entries[i] = fileResult{
			Path:       res.Job.Path,
			Code:       service.ErrorCode(res.Err),
			DurationMS: res.Duration.Milliseconds(),
			Report:     res.Report,
		}
		if res.Err != nil {
			entries[i].Error = res.Err.Error()
			failed++
			continue
		}
		// One unencodable report must not cost the output of the others.
		if _, encErr := json.Marshal(res.Report); encErr != nil {
			entries[i].Report = nil
			entries[i].Code = service.CodeInternal
			entries[i].Error = "encode report: " + encErr.Error()
			failed++
		}
	}

	enc := json.NewEncoder(out)
	if indent {
		enc.SetIndent("", "  ")
	}
	if encErr := enc.Encode(entries); encErr != nil {
		return failed, encErr
	}
	return failed, err
}
