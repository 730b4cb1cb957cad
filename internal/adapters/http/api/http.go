// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	service "github.com/uplinkhq/trophy/internal/app"
)

// BadgeRequest mirrors the parameter set of one badge render.
type BadgeRequest = service.BadgeRequest

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Badge renders (or serves from cache) the badge for a request.
	Badge(ctx context.Context, req BadgeRequest) (payload []byte, cached bool, err error)

	// Debug fetches the raw upstream documents, bypassing the cache.
	Debug(ctx context.Context, username string) ([]byte, error)

	// CacheTTL is the response cache time-to-live, used for Cache-Control.
	CacheTTL() time.Duration
}

// Server wires HTTP routes for the badge API.
type Server struct {
	badgeHandler  *BadgeHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	indexHandler  *indexHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		badgeHandler:  NewBadgeHandler(deps),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		indexHandler:  newIndexHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/badge", RequestIDMiddleware(MetricsMiddleware(s.badgeHandler.HandleGetBadge, "badge")))
	mux.HandleFunc("/", s.indexHandler.HandleIndex)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeSVG(w http.ResponseWriter, maxAge time.Duration, cached bool, payload []byte) {
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
