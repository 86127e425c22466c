package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/role"
)

// permissionMiddleware only lets through callers whose role grants action on
// resource.
func permissionMiddleware(svc role.Service, resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			r, err := getContextRole(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context role")
			}
			if role.Can(r, resource, action) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
