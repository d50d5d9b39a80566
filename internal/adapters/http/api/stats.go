package api

import (
	"math"
	"net/http"
	"time"

	service "github.com/okian/runstats/internal/app"
)

// statsResponse is the GET /stats body.
type statsResponse struct {
	service.Stats
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// StatsHandler serves the pipeline run counters.
type StatsHandler struct {
	statsProvider StatsProvider
	now           func() time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, now: time.Now}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.statsProvider.GetStats()
	resp := statsResponse{Stats: stats}
	if !stats.Started.IsZero() {
		resp.UptimeSeconds = math.Round(h.now().Sub(stats.Started).Seconds())
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}
