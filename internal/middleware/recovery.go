package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Recovery turns panics into a 500 error envelope
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				zerolog.Ctx(r.Context()).Error().
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Str("remote_addr", r.RemoteAddr).
					Msg("Panic recovered")

				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
