package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/notification"
	"github.com/elimucd/backend/core/role"
)

type notificationApi struct {
	svc notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc notification.Service, roleSvc role.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", jwt)
	ng.GET("", api.query, permissionMiddleware(roleSvc, "notification", "read"))
	ng.GET("/unread-count", api.unreadCount, permissionMiddleware(roleSvc, "notification", "read"))
	ng.POST("", api.create, permissionMiddleware(roleSvc, "notification", "create"))
	ng.POST("/read-all", api.markAllRead, permissionMiddleware(roleSvc, "notification", "update"))
	ng.PATCH("/:id/read", api.markRead, permissionMiddleware(roleSvc, "notification", "update"))
	ng.PATCH("/:id/archive", api.archive, permissionMiddleware(roleSvc, "notification", "update"))
	ng.DELETE("/read", api.clearRead, permissionMiddleware(roleSvc, "notification", "delete"))
	ng.DELETE("/archived", api.clearArchived, permissionMiddleware(roleSvc, "notification", "delete"))
	ng.DELETE("/:id", api.destroy, permissionMiddleware(roleSvc, "notification", "delete"))
}

func (api *notificationApi) query(ctx echo.Context) error {
	list, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	count, err := api.svc.UnreadCount(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": count})
}

func (api *notificationApi) create(ctx echo.Context) error {
	var data notification.NewNotification
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotification")
	}

	n, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	if err := api.svc.MarkRead(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	if err := api.svc.MarkAllRead(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) archive(ctx echo.Context) error {
	if err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "archiving notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == notification.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting notification")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) clearRead(ctx echo.Context) error {
	if err := api.svc.ClearRead(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing read notifications")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) clearArchived(ctx echo.Context) error {
	if err := api.svc.ClearArchived(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "clearing archived notifications")
	}
	return ctx.NoContent(http.StatusNoContent)
}
