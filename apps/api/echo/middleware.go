package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dashboard/core/user"
)

// roleMiddleware only lets through users whose role is at least minRole.
func roleMiddleware(minRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if user.RolePriority(claims.Role) >= user.RolePriority(minRole) {
				return next(ctx)
			}
			return errHTTPForbidden
		}
	}
}
