package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iismail06/Skincare-tracker-SKYN/auth"
	"github.com/iismail06/Skincare-tracker-SKYN/config"
)

type contextKey string

// UserContextKey holds the authenticated user's ID in the request context.
const UserContextKey contextKey = "user_id"

// JWTSecret returns the signing secret for session tokens.
func JWTSecret() []byte {
	return []byte(config.GetEnv("JWT_SECRET", "dev-secret-change-me"))
}

// RequireAuth validates the Authorization bearer token and stores the user ID
// in the request context. Requests without a valid token get 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "Unauthorized: No Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
			return
		}

		userID, err := auth.ParseToken(JWTSecret(), parts[1])
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the authenticated user's ID from the request context.
func UserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(UserContextKey).(uint)
	return id, ok
}
