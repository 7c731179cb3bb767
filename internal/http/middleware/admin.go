package middleware

import (
	"encoding/json"
	"net/http"
)

// RequireAdmin gates a route on the admin claim or the configured
// allowlist of admin emails. It must run after AuthMiddleware.
func RequireAdmin(adminEmails map[string]struct{}) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsAdminFromContext(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			if email, ok := EmailFromContext(r.Context()); ok {
				if _, allowed := adminEmails[email]; allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeForbidden(w)
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "forbidden",
		"message": "admin access required",
	})
}
