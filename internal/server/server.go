// Package server exposes a small read-only HTTP surface over the settings
// cache, used by the CLI and for health checks. All mutation happens
// through the gateway; this server never writes.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/groblegark/warden/internal/bot"
	"github.com/groblegark/warden/internal/settings"
)

// AdminServer serves the daemon's introspection endpoints.
type AdminServer struct {
	cache   *settings.Cache
	started time.Time
}

// New creates an admin server over the given cache.
func New(cache *settings.Cache) *AdminServer {
	return &AdminServer{
		cache:   cache,
		started: time.Now(),
	}
}

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *AdminServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/guilds", s.handleListGuilds)
	mux.HandleFunc("GET /v1/guilds/{id}", s.handleGetGuild)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	return mux
}

func (s *AdminServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *AdminServer) handleListGuilds(w http.ResponseWriter, _ *http.Request) {
	guilds := s.cache.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"guilds": guilds,
		"total":  len(guilds),
	})
}

func (s *AdminServer) handleGetGuild(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid guild id")
		return
	}

	gs, ok := s.cache.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "guild not tracked")
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

// StatusResponse is the body of GET /v1/status.
type StatusResponse struct {
	Guilds     int    `json:"guilds"`
	Presence   string `json:"presence"`
	UptimeSecs int64  `json:"uptime_secs"`
}

func (s *AdminServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	n := s.cache.Size()
	writeJSON(w, http.StatusOK, StatusResponse{
		Guilds:     n,
		Presence:   bot.StatusText(n),
		UptimeSecs: int64(time.Since(s.started).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
