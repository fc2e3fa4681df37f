package middleware

import (
	"net/http"

	"deprem-network-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger stores a logger tagged with the request id, method and path
// on the request context. It must run after chi's RequestID middleware.
// The id is logged as req_id; request_id names join requests.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With(
				"req_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), reqLog)))
		})
	}
}
