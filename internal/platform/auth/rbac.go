package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Hospital staff roles.
const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleReception = "reception"
	RoleLab       = "lab"
)

// ValidRoles enumerates every role a user account may carry.
var ValidRoles = map[string]bool{
	RoleAdmin:     true,
	RoleDoctor:    true,
	RoleReception: true,
	RoleLab:       true,
}

// RequireRole returns middleware that rejects callers whose role is not in
// the allowed set. The 403 body names both sides so clients can explain the
// denial.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			current := RoleFromContext(c.Request().Context())
			for _, required := range roles {
				if current == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, echo.Map{
				"message":  "Insufficient permissions",
				"required": roles,
				"current":  current,
			})
		}
	}
}
