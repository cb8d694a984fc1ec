package middleware

import (
	"net/http"

	"gajanji-server/src/auth"
	"gajanji-server/src/models"
	"gajanji-server/src/util"
)

// ReadOnlyMiddleware blocks writes while maintenance mode is on. Sign-in stays
// open, and admins may still write.
func ReadOnlyMiddleware(readOnly bool) func(http.Handler) http.Handler {
	allowedPosts := map[string]bool{
		"/api/auth/login":        true,
		"/api/auth/google-login": true,
		"/api/auth/logout":       true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !readOnly {
				next.ServeHTTP(w, r)
				return
			}
			if id, ok := auth.IdentityFromContext(r.Context()); ok && id.HasRole(models.RoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			case http.MethodPost:
				if allowedPosts[r.URL.Path] {
					next.ServeHTTP(w, r)
					return
				}
			}
			util.WriteError(w, http.StatusServiceUnavailable, "Read-only mode: changes are temporarily disabled")
		})
	}
}
