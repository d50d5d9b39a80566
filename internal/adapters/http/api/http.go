// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	service "github.com/okian/runstats/internal/app"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
)

// Default request limits.
const (
	DefaultMaxUploadBytes int64 = 32 << 20
)

// Dependencies required by HTTP handlers. Using an interface keeps the
// handler layer loosely coupled to the pipeline implementation.
type Dependencies interface {
	// ProcessCSV runs one pipeline invocation over an export.
	ProcessCSV(ctx context.Context, r io.Reader) (*model.Report, error)
}

// StatsProvider exposes run counters for GET /stats.
type StatsProvider interface {
	GetStats() service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	processHandler *ProcessHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// WithMaxUploadBytes caps the size of POST /process bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{maxUploadBytes: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("api")
	}

	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		processHandler: NewProcessHandler(deps, o.maxUploadBytes, o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/process", MetricsMiddleware(s.processHandler.HandleProcess, "process"))
}

// errorResponse is the JSON error envelope. Missing, Column and Row are
// only set for the dataset errors that carry them.
type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
	Column  string   `json:"column,omitempty"`
	Row     *int     `json:"row,omitempty"`
}

// writeJSON encodes v before writing the header. An unencodable value is
// answered with a 500 internal envelope.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{
			Code:    service.CodeInternal,
			Message: Wrap("encode response", err).Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
