package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/api/metrics"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// ContextUserKey is the echo context key under which Auth stores the
// resolved *domain.User.
const ContextUserKey = "auth_user"

// Auth validates the bearer token and resolves the authenticated identity.
// It extracts the bearer credential, decodes it, requires sub and role,
// loads the account by subject and stores it in the context. Rejections are
// 401 for missing, expired or invalid tokens, and 404 when the subject's
// account no longer exists.
func Auth(tokens ports.TokenService, repo ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				metrics.TokenRejectionsTotal.WithLabelValues("missing_credentials").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}

			claims, err := tokens.Decode(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if claims.Subject == "" || claims.Role == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid_payload").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token payload")
			}

			user, err := repo.GetByUsername(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenRejectionsTotal.WithLabelValues("unknown_subject").Inc()
					return echo.NewHTTPError(http.StatusNotFound, "user not found")
				}
				return err
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <t>"
// header. Reports false for an absent or malformed header.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
