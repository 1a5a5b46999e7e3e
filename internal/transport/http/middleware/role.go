package middleware

import (
	"net/http"
)

// RequireRole admits callers whose token role is one of roles (domain.RoleAdmin,
// domain.RoleOwner). Requests without verified claims get 401, other roles 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				reject(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				reject(w, http.StatusForbidden, "role "+claims.Role+" may not access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
