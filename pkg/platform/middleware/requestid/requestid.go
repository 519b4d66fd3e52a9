// Package requestid propagates a per-request correlation ID.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"bankqr/pkg/requestcontext"
)

// Header is read from incoming requests and echoed on responses.
const Header = "X-Request-ID"

const maxLen = 64

// Middleware reuses a caller-supplied request ID when it looks sane and
// generates a UUID otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLen {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
