package middleware

import (
	"net/http"

	"clinic-queue-engine/pkg/response"
)

// Staff roles the platform's auth service issues in its tokens.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// RequireRole checks that the authenticated staff member holds one of
// the allowed roles. Role is read from context, set by AuthMiddleware
// from JWT claims.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}

// RequireAdmin guards schedule and settings management endpoints.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

// RequireFrontDesk guards queue operations: check-in, walk-in
// registration and calling the next patient.
func RequireFrontDesk(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin, RoleDoctor, RoleReceptionist)(next)
}
