package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type requestInfoKey struct{}

// requestInfo collects per-request attributes filled in by inner handlers.
type requestInfo struct {
	sessionID string
	projectID string
}

// SessionIDFromContext returns the MCP session ID of the request, if any.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(*requestInfo)
	if !ok || info.sessionID == "" {
		return "", false
	}
	return info.sessionID, true
}

// noteProject records the project a handler acted on so the request line carries it.
func noteProject(ctx context.Context, projectID string) {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.projectID = projectID
	}
}

// RequestLogger logs one line per request at debug level, or warn for 5xx.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			info := &requestInfo{sessionID: r.Header.Get("Mcp-Session-Id")}
			ctx := context.WithValue(r.Context(), requestInfoKey{}, info)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(ctx),
			}
			if info.sessionID != "" {
				attrs = append(attrs, "session_id", info.sessionID)
			}
			if info.projectID != "" {
				attrs = append(attrs, "project_id", info.projectID)
			}
			logger.Log(ctx, level, "http request", attrs...)
		})
	}
}
