package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance/sessions", jwt, staffMiddleware())
	ag.POST("", api.openSession)
	ag.GET("", api.querySessions)
	ag.GET("/:id", api.retrieveSession)
	ag.POST("/:id/records", api.markAttendance)
	ag.GET("/:id/records", api.queryRecords)
	ag.POST("/:id/submit", api.submitSession)
}

func (api *attendanceApi) openSession(ctx echo.Context) error {
	var data attendance.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.OpenSession(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *attendanceApi) querySessions(ctx echo.Context) error {
	var window DateWindow
	if err := window.Bind(ctx); err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	sessions, err := api.svc.QuerySessions(ctx.Request().Context(), window.From, window.To, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []attendance.AttendanceSession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *attendanceApi) retrieveSession(ctx echo.Context) error {
	s, err := api.svc.GetSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrSessionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding session by ID")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *attendanceApi) markAttendance(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.MarkAttendance(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		switch errors.Cause(err) {
		case attendance.ErrSessionNotFound:
			return errHttpNotFound
		case attendance.ErrSessionLocked:
			return errSessionLocked
		}
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *attendanceApi) queryRecords(ctx echo.Context) error {
	recs, err := api.svc.Records(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	if recs == nil {
		recs = []attendance.AttendanceRecord{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) submitSession(ctx echo.Context) error {
	s, err := api.svc.SubmitSession(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrSessionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "submitting session")
	}
	return ctx.JSON(http.StatusOK, s)
}
