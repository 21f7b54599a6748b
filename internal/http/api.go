package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	sjson "github.com/tomek7667/sysdash/internal/json"
)

func (s *Server) addAPIRoutes(r chi.Router) {
	r.Get(sjson.PerformancePath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.sampler.Performance())
	})

	r.Get(sjson.ProcessesPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.sampler.Processes())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("http: failed to encode response", "err", err)
	}
}
