// Package middleware provides HTTP middleware shared by the platform
// services.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/perkhive/admin-management-api/shared/auth"
)

type contextKey struct{}

// UserClaimsKey carries the validated JWT claims of the calling admin.
var UserClaimsKey = contextKey{}

// NewJWTMiddleware returns a middleware that rejects requests without a valid
// bearer token. Paths in exemptPaths are passed through untouched.
func NewJWTMiddleware(
	jwtAuth auth.JWTAuthenticator,
	secret string,
	exemptPaths []string,
) func(http.Handler) http.Handler {
	exemptMap := make(map[string]bool)
	for _, path := range exemptPaths {
		exemptMap[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exemptMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := extractAndValidateJWT(r, jwtAuth, secret)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the validated claims attached by the middleware.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(jwt.MapClaims)
	return claims, ok
}

func extractAndValidateJWT(r *http.Request, jwtAuth auth.JWTAuthenticator, secret string) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header format")
	}

	claims := jwt.MapClaims{}
	if _, err := jwtAuth.ValidateTokenWithClaims(parts[1], secret, claims); err != nil {
		return nil, err
	}

	return claims, nil
}
