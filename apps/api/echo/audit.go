package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core/audit"
	"github.com/elimucd/backend/core/role"
)

type auditApi struct {
	svc audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc audit.Service, roleSvc role.Service) {
	api := auditApi{svc: svc}

	ag := g.Group("/audit-logs", jwt)
	ag.GET("", api.query, permissionMiddleware(roleSvc, "report", "view"))
	ag.POST("", api.create, permissionMiddleware(roleSvc, "report", "create"))
	ag.GET("/export", api.export, permissionMiddleware(roleSvc, "report", "view"))
}

func queryFilterFromRequest(ctx echo.Context) audit.QueryFilter {
	return audit.QueryFilter{
		UserID:    ctx.QueryParam("user_id"),
		Action:    ctx.QueryParam("action"),
		Resource:  ctx.QueryParam("resource"),
		StartDate: ctx.QueryParam("start_date"),
		EndDate:   ctx.QueryParam("end_date"),
		Search:    ctx.QueryParam("search"),
	}
}

func (api *auditApi) query(ctx echo.Context) error {
	list, err := api.svc.List(ctx.Request().Context(), queryFilterFromRequest(ctx))
	if err != nil {
		return errors.Wrap(err, "listing audit logs")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *auditApi) create(ctx echo.Context) error {
	var data audit.NewLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLog")
	}
	if data.IPAddress == "" {
		data.IPAddress = ctx.RealIP()
	}
	if data.UserAgent == "" {
		data.UserAgent = ctx.Request().UserAgent()
	}

	entry, err := api.svc.Append(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "appending audit log")
	}
	return ctx.JSON(http.StatusCreated, entry)
}

func (api *auditApi) export(ctx echo.Context) error {
	filter := queryFilterFromRequest(ctx)

	switch format := ctx.QueryParam("format"); format {
	case "", "csv":
		data, err := api.svc.ExportCSV(ctx.Request().Context(), filter)
		if err != nil {
			return errors.Wrap(err, "exporting audit logs as csv")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="audit-logs.csv"`)
		return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
	case "json":
		data, err := api.svc.ExportJSON(ctx.Request().Context(), filter)
		if err != nil {
			return errors.Wrap(err, "exporting audit logs as json")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="audit-logs.json"`)
		return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported format: "+format)
	}
}
