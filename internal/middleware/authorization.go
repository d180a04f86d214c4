package middleware

import (
	"net/http"

	"github.com/shangamerbaby/farm-fresh-feast-mobile/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin admits only admin sessions. The switch is exhaustive over the
// Role set; anything unrecognized fails closed.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			switch role {
			case domain.RoleAdmin:
				next.ServeHTTP(w, r)
			case domain.RoleCustomer:
				logger.Warn("Customer attempted to access admin endpoint",
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
			default:
				logger.Warn("Unknown role in context", zap.String("role", role.String()))
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
			}
		})
	}
}
