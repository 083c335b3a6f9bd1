package auth

import (
	"context"
	"net/http"
	"strings"

	"shortlink/internal/domain/models"
	"shortlink/internal/http/httputils"
)

//go:generate mockgen
type TokenVerifier interface {
	VerifyToken(tokenString string) (models.TokenClaims, error)
}

type claimsContextKey struct{}

// MiddlewareAuth gates a route behind bearer-token verification. A missing or
// malformed Authorization header rejects with 401, a failed verification with
// 403; the downstream handler is never invoked on rejection. Exactly one
// verification happens per request and nothing is cached across requests.
func MiddlewareAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r.Header.Get(httputils.HeaderAuthorization))
			if !ok {
				httputils.WriteJSONError(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputils.WriteJSONError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext returns the authenticated principal set by MiddlewareAuth.
func ClaimsFromContext(ctx context.Context) (models.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(models.TokenClaims)
	return claims, ok
}
