package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/okian/runstats/internal/sampledata"
	"github.com/okian/runstats/pkg/logger"
)

// Default configuration constants.
const (
	defaultActivities = 500
	defaultOutput     = "activities.csv"
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		activities = flag.Int("n", defaultActivities, "Number of activities to generate")
		outputFile = flag.String("out", defaultOutput, "Output CSV file")
		years      = flag.String("years", "", "Comma separated years to draw dates from")
		treadmill  = flag.Int("treadmill", 0, "Make every n-th activity a zero distance treadmill run")
		baseURL    = flag.String("url", "", "Base URL of the service; empty skips the upload")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Log the yearly rows of the returned report")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	yearList, err := parseYears(*years)
	if err != nil {
		os.Stderr.WriteString("Invalid -years: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &sampledata.Config{
		BaseURL:        *baseURL,
		Activities:     *activities,
		Years:          yearList,
		TreadmillEvery: *treadmill,
		Timeout:        *timeout,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	}

	if _, err := sampledata.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

// parseYears parses a comma separated list of years. Empty input means the
// generator defaults.
func parseYears(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}
