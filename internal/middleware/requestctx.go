package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the correlation id in both directions
const RequestIDHeader = "X-Request-Id"

// RequestContext assigns each request a correlation id and a request-scoped logger.
// An incoming X-Request-Id is reused; otherwise a UUID is generated.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Logger()
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the correlation id stored by RequestContext
func RequestID(ctx context.Context) string {
	return middleware.GetReqID(ctx)
}
