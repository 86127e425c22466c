package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/role"
)

type roleApi struct {
	svc role.Service
	rec *auditRecorder
}

func registerRoleAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc role.Service, rec *auditRecorder) {
	api := roleApi{svc: svc, rec: rec}

	rg := g.Group("/roles", jwt)
	rg.GET("", api.query, permissionMiddleware(svc, "role", "read"))
	rg.POST("", api.create, permissionMiddleware(svc, "role", "create"))
	rg.GET("/:id", api.retrieve, permissionMiddleware(svc, "role", "read"))
	rg.PUT("/:id", api.update, permissionMiddleware(svc, "role", "update"))
	rg.DELETE("/:id", api.destroy, permissionMiddleware(svc, "role", "delete"))
}

func (api *roleApi) query(ctx echo.Context) error {
	roles, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	return ctx.JSON(http.StatusOK, roles)
}

func (api *roleApi) create(ctx echo.Context) error {
	var data role.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating role")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:       audit.ActionCreate,
		Resource:     audit.ResourceRole,
		ResourceID:   r.ID,
		ResourceName: r.Name,
	})
	return ctx.JSON(http.StatusCreated, r)
}

func (api *roleApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == role.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting role")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *roleApi) update(ctx echo.Context) error {
	var data role.UpdateRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRole")
	}

	r, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case role.ErrNotFound:
			return errHttpNotFound
		case role.ErrSystemRole:
			return echo.NewHTTPError(http.StatusForbidden, role.ErrSystemRole.Error())
		}
		return errors.Wrap(err, "updating role")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:       audit.ActionUpdate,
		Resource:     audit.ResourceRole,
		ResourceID:   r.ID,
		ResourceName: r.Name,
	})
	return ctx.JSON(http.StatusOK, r)
}

func (api *roleApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		switch errors.Cause(err) {
		case role.ErrNotFound:
			return errHttpNotFound
		case role.ErrSystemRole:
			return echo.NewHTTPError(http.StatusForbidden, role.ErrSystemRole.Error())
		}
		return errors.Wrap(err, "deleting role")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:     audit.ActionDelete,
		Resource:   audit.ResourceRole,
		ResourceID: id,
	})
	return ctx.NoContent(http.StatusNoContent)
}
