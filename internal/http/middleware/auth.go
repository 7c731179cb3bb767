package middleware

import (
	"context"
	"net/http"
	"strings"

	"townboard/backend/internal/auth"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	emailKey   contextKey = "email"
	isAdminKey contextKey = "is_admin"
)

func UserIDFromContext(ctx context.Context) (int64, bool) {
	val, ok := ctx.Value(userIDKey).(int64)
	return val, ok
}

func EmailFromContext(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(emailKey).(string)
	return val, ok
}

func IsAdminFromContext(ctx context.Context) bool {
	val, ok := ctx.Value(isAdminKey).(bool)
	return ok && val
}

func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing Authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				http.Error(w, "invalid Authorization", http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseAccessToken(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware attaches claims when a valid bearer token is
// present and lets the request through anonymously otherwise. Public reads
// use it so signed-in viewers still get per-viewer fields.
func OptionalAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseAccessToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

func contextWithClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	ctx = context.WithValue(ctx, userIDKey, claims.UserID)
	ctx = context.WithValue(ctx, emailKey, claims.Email)
	return context.WithValue(ctx, isAdminKey, claims.IsAdmin)
}
