package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/sreshtta/academy/core/academy"
)

var (
	adminOnly     = []academy.Role{academy.RoleAdmin}
	adminAndStaff = []academy.Role{academy.RoleAdmin, academy.RoleStaff}
)

func rolesMiddleware(roles ...academy.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.hasAnyRole(roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// ctxUserOrRolesMiddleware lets through the user whose id is the :id param, and the given roles.
// Others get a 404 so ids cannot be probed.
func ctxUserOrRolesMiddleware(roles ...academy.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if ctx.Param("id") == claims.Subject || claims.hasAnyRole(roles) {
				return next(ctx)
			}
			return errHttpNotFound
		}
	}
}
