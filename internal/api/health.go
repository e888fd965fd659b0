package api

import (
	"net/http"
	"time"

	"github.com/kjannette/pulse-backend/internal/cache"
)

type healthResponse struct {
	Status    string              `json:"status"`
	Timestamp string              `json:"timestamp"`
	Uptime    string              `json:"uptime"`
	Services  healthServices      `json:"services"`
	Cache     []cache.EntryStatus `json:"cache"`
}

type healthServices struct {
	Cache string `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend, err := s.market.CacheBackend(r.Context())
	cacheStatus := backend + ": connected"
	status := "ok"
	if err != nil {
		cacheStatus = backend + ": disconnected"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Services:  healthServices{Cache: cacheStatus},
		Cache:     s.market.CacheStatus(r.Context()),
	})
}
