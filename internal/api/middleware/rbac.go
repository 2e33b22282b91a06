package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
)

// SelfOrRole authorizes a request when the authenticated user either carries
// one of the allowed roles or is the account named by the path parameter.
// Must run after Auth.
func SelfOrRole(param string, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(ContextUserKey).(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			if _, ok := allowed[user.Role]; ok {
				return next(c)
			}
			if user.Username == c.Param(param) {
				return next(c)
			}

			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
