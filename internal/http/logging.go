package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// newRequestLogger writes one structured access-log record per request,
// except for ignoredPaths, which the dashboards poll every second or two.
func newRequestLogger(logger *slog.Logger, ignoredPaths ...string) func(next http.Handler) http.Handler {
	ignored := make(map[string]struct{}, len(ignoredPaths))
	for _, p := range ignoredPaths {
		ignored[p] = struct{}{}
	}
	return middleware.RequestLogger(&accessLogFormatter{logger: logger, ignored: ignored})
}

type accessLogFormatter struct {
	logger  *slog.Logger
	ignored map[string]struct{}
}

func (f *accessLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	if _, ok := f.ignored[r.URL.Path]; ok {
		return noopLogEntry{}
	}
	return &accessLogEntry{logger: f.logger.With(
		"method", r.Method,
		"path", r.URL.RequestURI(),
		"remote", r.RemoteAddr,
		"request_id", middleware.GetReqID(r.Context()),
	)}
}

type accessLogEntry struct {
	logger *slog.Logger
}

func (e *accessLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	e.logger.Log(context.Background(), level, "http: request",
		"status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *accessLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("http: handler panic", "panic", v, "stack", string(stack))
}

type noopLogEntry struct{}

func (noopLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
}

func (noopLogEntry) Panic(v interface{}, stack []byte) {}
