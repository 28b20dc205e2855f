package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	jwtutil "github.com/tmcgann/errand-manager/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// writeUnauthorized emits the API's uniform {"errors":[{"msg":...}]} body.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string][]map[string]string{
		"errors": {{"msg": msg}},
	})
}

// AuthMiddleware verifies the x-auth-token header and stores the claims in
// the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("x-auth-token")
			if token == "" {
				log.Warn("Missing auth token")
				writeUnauthorized(w, "No token, authorization denied")
				return
			}

			claims, err := jwtutil.ParseToken(token, secret)
			if err != nil {
				log.WithError(err).Warn("Invalid auth token")
				writeUnauthorized(w, "Token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the verified claims for the request, or nil if
// the request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(userContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}
