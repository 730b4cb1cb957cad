// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/uplinkhq/trophy/internal/adapters/githubapi"
)

// BadgeDependencies defines the interface for badge operations.
type BadgeDependencies interface {
	Badge(ctx context.Context, req BadgeRequest) (payload []byte, cached bool, err error)
	Debug(ctx context.Context, username string) ([]byte, error)
	CacheTTL() time.Duration
}

// BadgeHandler handles badge render requests.
type BadgeHandler struct {
	deps BadgeDependencies
}

// NewBadgeHandler creates a new badge handler.
func NewBadgeHandler(deps BadgeDependencies) *BadgeHandler {
	return &BadgeHandler{deps: deps}
}

// HandleGetBadge handles GET /badge?username=&columns=&hide=&theme=&debug= requests.
func (h *BadgeHandler) HandleGetBadge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	username := strings.TrimSpace(q.Get("username"))
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing_username", ErrMissingUsername)
		return
	}

	if q.Get("debug") == "true" {
		h.handleDebug(w, r, username)
		return
	}

	req := BadgeRequest{
		Username: username,
		Columns:  parseColumns(q.Get("columns")),
		Hide:     parseHide(q.Get("hide")),
		Theme:    q.Get("theme"),
	}

	payload, cached, err := h.deps.Badge(r.Context(), req)
	if err != nil {
		h.writeBadgeError(w, err)
		return
	}
	writeSVG(w, h.deps.CacheTTL(), cached, payload)
}

func (h *BadgeHandler) handleDebug(w http.ResponseWriter, r *http.Request, username string) {
	dump, err := h.deps.Debug(r.Context(), username)
	if err != nil {
		h.writeBadgeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dump)
}

func (h *BadgeHandler) writeBadgeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, githubapi.ErrEmptyUsername):
		writeError(w, http.StatusBadRequest, "missing_username", err)
	case errors.Is(err, githubapi.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// parseColumns tolerates absent or malformed values; zero defers to the
// service default.
func parseColumns(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// parseHide splits the comma-separated hide list, dropping empty segments.
func parseHide(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	hide := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hide = append(hide, p)
		}
	}
	return hide
}
