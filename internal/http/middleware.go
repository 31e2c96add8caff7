package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/visit-scheduler/internal/application"
)

// PrincipalFromHeaders resolves the request principal from the identity
// headers set by the fronting proxy. Requests without a company id still
// reach the handlers; services reject them with ErrUnauthorized.
func PrincipalFromHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := application.Principal{
				CompanyID:  strings.TrimSpace(r.Header.Get("X-Company-ID")),
				OperatorID: strings.TrimSpace(r.Header.Get("X-Operator-ID")),
				IsAdmin:    strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Admin")), "true"),
			}
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger to the context and writes
// start and completion records.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
