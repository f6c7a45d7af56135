// Package requestid assigns a correlation id to every request. Incoming
// X-Request-ID headers are honoured so upstream gateways can trace a request
// through the audit trail.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"atende/pkg/requestcontext"
)

// Header is the correlation id header read from and echoed to clients.
const Header = "X-Request-ID"

// Middleware stores the request's correlation id in the context and echoes
// it back on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
