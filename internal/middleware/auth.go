package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/opencivic/data-request-backend/internal/auth"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Identity resolves the caller identity from a Bearer token or, failing
// that, the X-User-ID header. Authentication is a stub: the header fallback
// exists so local clients can act as a user without a token service.
func Identity(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := ""

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					if claims, err := jwtManager.ValidateToken(parts[1]); err == nil {
						userID = claims.UserID
					}
				}
			}
			if userID == "" {
				userID = strings.TrimSpace(r.Header.Get("X-User-ID"))
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that carry no resolvable identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			respondUnauthorized(w, "User identity required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID retrieves the caller identity from the request context.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// respondUnauthorized sends a 401 response with the standard format
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"meta":{"success":false,"message":"` + message + `"},"data":null}`))
}
