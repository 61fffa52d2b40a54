package webserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaneyale2005/webserver/accesslog"
)

// statusInfo is the JSON body of the management status endpoint.
type statusInfo struct {
	Server            string `json:"server"`
	ActiveConnections int64  `json:"active_connections"`
	RequestsHandled   uint64 `json:"requests_handled"`
	CachedFiles       int    `json:"cached_files"`
	CacheCapacity     int    `json:"cache_capacity"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
}

// ManagementHandler exposes server statistics and the recent access log
// over HTTP. It is meant for a separate loopback listener, not the main
// port.
func (s *Server) ManagementHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		s.cacheMu.Lock()
		cached, capacity := s.cache.Len(), s.cache.Cap()
		s.cacheMu.Unlock()
		info := statusInfo{
			Server:            serverName,
			ActiveConnections: s.active.Load(),
			RequestsHandled:   s.handled.Load(),
			CachedFiles:       cached,
			CacheCapacity:     capacity,
			UptimeSeconds:     int64(time.Since(s.started).Seconds()),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	})
	r.Get("/requests", func(w http.ResponseWriter, req *http.Request) {
		limit := 0
		if v := req.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		entries, err := s.logs.Recent(limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []accesslog.Entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})
	return r
}
