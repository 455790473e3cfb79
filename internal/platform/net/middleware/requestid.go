package middleware

import (
	"net/http"

	pnet "disasterresponse/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader is read from clients and echoed on responses
const RequestIDHeader = "X-Request-ID"

// RequestID propagates an inbound X-Request-ID or mints a uuid, then tags
// the context for both chi and the logger and echoes the id on the response
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = chimw.GetReqID(r.Context())
		}
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(pnet.WithRequest(r.Context(), id)))
	})
}
