package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/badge"
	"github.com/elimucd/backend/core/role"
)

type badgeApi struct {
	svc badge.Service
	rec *auditRecorder
}

func registerBadgeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc badge.Service, roleSvc role.Service, rec *auditRecorder) {
	api := badgeApi{svc: svc, rec: rec}

	bg := g.Group("/badges", jwt)
	bg.GET("", api.query, permissionMiddleware(roleSvc, "badge", "read"))
	bg.POST("", api.create, permissionMiddleware(roleSvc, "badge", "create"))
	bg.GET("/:id", api.retrieve, permissionMiddleware(roleSvc, "badge", "read"))
	bg.PUT("/:id", api.update, permissionMiddleware(roleSvc, "badge", "update"))
	bg.DELETE("/:id", api.destroy, permissionMiddleware(roleSvc, "badge", "delete"))

	bg.POST("/check", api.check, permissionMiddleware(roleSvc, "badge", "read"))
	bg.POST("/auto-award", api.autoAward, permissionMiddleware(roleSvc, "badge", "update"))
}

func (api *badgeApi) query(ctx echo.Context) error {
	badges, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying badges")
	}
	return ctx.JSON(http.StatusOK, badges)
}

func (api *badgeApi) create(ctx echo.Context) error {
	var data badge.NewBadge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBadge")
	}

	b, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating badge")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:       audit.ActionCreate,
		Resource:     audit.ResourceBadge,
		ResourceID:   b.ID,
		ResourceName: b.Name,
	})
	return ctx.JSON(http.StatusCreated, b)
}

func (api *badgeApi) retrieve(ctx echo.Context) error {
	b, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == badge.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting badge")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *badgeApi) update(ctx echo.Context) error {
	var data badge.UpdateBadge
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBadge")
	}

	b, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == badge.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating badge")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:       audit.ActionUpdate,
		Resource:     audit.ResourceBadge,
		ResourceID:   b.ID,
		ResourceName: b.Name,
	})
	return ctx.JSON(http.StatusOK, b)
}

func (api *badgeApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting badge")
	}

	api.rec.record(ctx, audit.NewLog{
		Action:     audit.ActionDelete,
		Resource:   audit.ResourceBadge,
		ResourceID: id,
	})
	return ctx.NoContent(http.StatusNoContent)
}

func (api *badgeApi) check(ctx echo.Context) error {
	var data badge.Progress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Progress")
	}

	reports, err := api.svc.Check(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "checking eligibility")
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *badgeApi) autoAward(ctx echo.Context) error {
	var data badge.Progress
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Progress")
	}

	awards, err := api.svc.AutoAward(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "auto-awarding badges")
	}

	for _, a := range awards {
		api.rec.record(ctx, audit.NewLog{
			Action:     audit.ActionUpdate,
			Resource:   audit.ResourceBadge,
			ResourceID: a.BadgeID,
			Details:    "badge awarded to " + a.UserID,
		})
	}
	return ctx.JSON(http.StatusOK, awards)
}
