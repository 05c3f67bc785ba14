package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
)

type commsApi struct {
	svc *comms.Service
}

func registerCommsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *comms.Service) {
	api := commsApi{svc: svc}

	lg := g.Group("/comms/logs", jwt, gfmMiddleware())
	lg.POST("", api.createLog)
	lg.GET("", api.queryLogs)

	vg := g.Group("/comms/leaves", jwt, gfmMiddleware())
	vg.POST("", api.createLeaveNote)
	vg.GET("", api.queryLeaveNotes)
}

func (api *commsApi) createLog(ctx echo.Context) error {
	var data comms.NewCommunicationLog
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCommunicationLog")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// the log is attributed to the caller
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	l, err := api.svc.LogCommunication(ctx.Request().Context(), claims.Subject, claims.Username, data)
	if err != nil {
		return errors.Wrap(err, "logging communication")
	}
	return ctx.JSON(http.StatusCreated, l)
}

func (api *commsApi) queryLogs(ctx echo.Context) error {
	var window DateWindow
	if err := window.Bind(ctx); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	logs, err := api.svc.Logs(ctx.Request().Context(), window.From, window.To, ctx.QueryParam("student_prn"), ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying communication logs")
	}
	if logs == nil {
		logs = []comms.CommunicationLog{}
	}
	return ctx.JSON(http.StatusOK, logs)
}

func (api *commsApi) createLeaveNote(ctx echo.Context) error {
	var data comms.NewPreInformedAbsence
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPreInformedAbsence")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	pia, err := api.svc.FileLeaveNote(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "filing leave note")
	}
	return ctx.JSON(http.StatusCreated, pia)
}

func (api *commsApi) queryLeaveNotes(ctx echo.Context) error {
	var window DateWindow
	if err := window.Bind(ctx); err != nil {
		return err
	}

	leaves, err := api.svc.LeaveNotes(ctx.Request().Context(), window.From, window.To, ctx.QueryParam("student_prn"))
	if err != nil {
		return errors.Wrap(err, "querying leave notes")
	}
	if leaves == nil {
		leaves = []comms.PreInformedAbsence{}
	}
	return ctx.JSON(http.StatusOK, leaves)
}
