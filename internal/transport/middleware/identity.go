package middleware

import (
	"net/http"
	"strings"

	"github.com/fleetcheck/inspection-backend/pkg/ctxutil"
)

// ActorIDHeader names the header the upstream gateway uses to pass the
// authenticated caller identity. The gateway terminates authentication;
// this service trusts the header and only decides authorization.
const ActorIDHeader = "X-User-Id"

// Identity returns middleware that moves the caller identity from the
// request header into the context. Requests without the header proceed
// anonymously; authorization fails closed further down.
func Identity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ActorIDHeader))
			if id != "" {
				r = r.WithContext(ctxutil.WithActorID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
