package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/libris-io/libris"
)

// TokenVerifier checks a bearer token and returns the user it belongs to.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

type contextKey struct{ name string }

var principalKey = contextKey{"principal"}

// AuthMiddleware creates middleware that requires a valid bearer token and
// injects the authenticated principal into the request context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, libris.Principal{ID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal injected by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (libris.Principal, bool) {
	p, ok := ctx.Value(principalKey).(libris.Principal)
	return p, ok
}
