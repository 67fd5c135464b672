package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/doclingo/pkg/domain/model"
)

// LoggingMiddleware returns a middleware that logs HTTP requests. The
// request context carries a logger tagged with the request id.
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))
		})
	}
}

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Detail string `json:"detail"`
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError classifies err and writes it. Validation errors become 400
// with their own message. Anything else is a server fault: logged with the
// full error, reported to Sentry and returned as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := ctxlog.From(r.Context())

	if model.IsValidationError(err) {
		logger.Info("Rejected request", "path", r.URL.Path, "error", err.Error())
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	logger.Error("Conversion failed", "path", r.URL.Path, "error", err)
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}

	writeJSON(w, r, http.StatusInternalServerError, errorResponse{Detail: "Conversion error: " + err.Error()})
}
