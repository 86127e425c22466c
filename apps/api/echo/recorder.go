package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/audit"
)

// auditRecorder appends audit entries for write endpoints. Recording is
// best-effort: a failed append never fails the request that triggered it.
type auditRecorder struct {
	svc    audit.Service
	logger core.Logger
}

func newAuditRecorder(svc audit.Service, logger core.Logger) *auditRecorder {
	return &auditRecorder{svc: svc, logger: logger}
}

func (rec *auditRecorder) record(ctx echo.Context, nl audit.NewLog) {
	if claims, err := getContextClaims(ctx); err == nil {
		nl.UserID = claims.Subject
		nl.UserName = claims.Username
		nl.UserRole = claims.Role
	}
	nl.IPAddress = ctx.RealIP()
	nl.UserAgent = ctx.Request().UserAgent()

	if _, err := rec.svc.Append(ctx.Request().Context(), nl); err != nil {
		rec.logger.Warn("audit: recording "+nl.Action+" "+nl.Resource, err)
	}
}
