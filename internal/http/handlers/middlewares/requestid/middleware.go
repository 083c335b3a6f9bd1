package requestid

import (
	"net/http"

	"shortlink/internal/http/httputils"

	"github.com/google/uuid"
)

// MiddlewareRequestID tags every request with an identifier for log
// correlation. An X-Request-ID supplied by the client is reused, otherwise a
// new UUID is generated; either way the ID is echoed on the response.
func MiddlewareRequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(httputils.HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			w.Header().Set(httputils.HeaderRequestID, requestID)
			next.ServeHTTP(w, r)
		})
	}
}
