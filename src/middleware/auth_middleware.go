package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"gajanji-server/src/auth"
	"gajanji-server/src/logger"
	"gajanji-server/src/util"
)

// TokenFromRequest extracts the bearer token from the Authorization header.
func TokenFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("missing token")
	}
	return strings.TrimSpace(token), nil
}

// JWTAuth rejects requests without a valid session token and puts the caller's
// identity on the request context.
func JWTAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := TokenFromRequest(r)
			if err != nil {
				util.WriteError(w, http.StatusUnauthorized, "Missing token")
				return
			}

			claims, err := tokens.ParseSession(tokenString)
			if err != nil {
				util.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID: claims.UserID,
				Email:  claims.Email,
				Name:   claims.Name,
				Roles:  claims.Roles,
				Token:  tokenString,
			})
			log := logger.FromContext(ctx).With(logger.FieldUserID, claims.UserID)
			ctx = logger.WithContext(ctx, log)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only identities carrying role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok || !id.HasRole(role) {
				util.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
