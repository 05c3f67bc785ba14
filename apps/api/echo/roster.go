package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
)

type rosterApi struct {
	svc *roster.Service
}

func registerRosterAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *roster.Service) {
	api := rosterApi{svc: svc}

	sg := g.Group("/students", jwt, staffMiddleware())
	sg.POST("", api.createStudent, adminMiddleware())
	sg.GET("", api.queryStudents)
	sg.GET("/:prn", api.retrieveStudent)
	sg.GET("/:prn/batch", api.resolveStudentBatch)

	bg := g.Group("/batches", jwt, staffMiddleware())
	bg.POST("", api.createBatch, adminMiddleware())
	bg.GET("", api.queryBatches)
	bg.GET("/:id", api.retrieveBatch)
	bg.PUT("/:id", api.updateBatch, adminMiddleware())
	bg.DELETE("/:id", api.destroyBatch, adminMiddleware())
	bg.GET("/:id/students", api.batchStudents)

	ag := g.Group("/allocations", jwt)
	ag.POST("", api.assignBatch, adminMiddleware())
	ag.GET("", api.queryAllocations, adminMiddleware())
	ag.GET("/me", api.myAllocation, staffMiddleware())
}

// Students

func (api *rosterApi) createStudent(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err := api.svc.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "adding student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *rosterApi) queryStudents(ctx echo.Context) error {
	filter := new(roster.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []roster.Student{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.QueryStudents(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []roster.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *rosterApi) retrieveStudent(ctx echo.Context) error {
	st, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("prn"))
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by PRN")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *rosterApi) resolveStudentBatch(ctx echo.Context) error {
	def, err := api.svc.ResolveBatch(ctx.Request().Context(), ctx.Param("prn"))
	if err != nil {
		if errors.Cause(err) == roster.ErrStudentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "resolving batch")
	}
	return ctx.JSON(http.StatusOK, BatchResolution{Batch: def})
}

// Batch definitions

func (api *rosterApi) createBatch(ctx echo.Context) error {
	var data roster.NewBatchDefinition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatchDefinition")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	def, err := api.svc.CreateBatch(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating batch definition")
	}
	return ctx.JSON(http.StatusCreated, def)
}

func (api *rosterApi) queryBatches(ctx echo.Context) error {
	filter := new(roster.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []roster.BatchDefinition{})
	}
	filter.Clean()

	defs, err := api.svc.QueryBatches(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying batch definitions")
	}
	if defs == nil {
		defs = []roster.BatchDefinition{}
	}
	return ctx.JSON(http.StatusOK, defs)
}

func (api *rosterApi) retrieveBatch(ctx echo.Context) error {
	def, err := api.svc.GetBatch(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == roster.ErrBatchNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding batch definition by ID")
	}
	return ctx.JSON(http.StatusOK, def)
}

func (api *rosterApi) updateBatch(ctx echo.Context) error {
	orig, err := api.svc.GetBatch(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == roster.ErrBatchNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding batch definition by ID")
	}

	var data roster.UpdateBatchDefinition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBatchDefinition")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	def, err := api.svc.UpdateBatch(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating batch definition")
	}
	return ctx.JSON(http.StatusOK, def)
}

func (api *rosterApi) destroyBatch(ctx echo.Context) error {
	if err := api.svc.DeleteBatch(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == roster.ErrBatchNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting batch definition")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *rosterApi) batchStudents(ctx echo.Context) error {
	students, err := api.svc.BatchStudents(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == roster.ErrBatchNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "listing batch students")
	}
	if students == nil {
		students = []roster.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// Allocations

func (api *rosterApi) assignBatch(ctx echo.Context) error {
	var data roster.NewAllocation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAllocation")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	alloc, err := api.svc.AssignBatch(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == roster.ErrBatchNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning batch")
	}
	return ctx.JSON(http.StatusCreated, alloc)
}

func (api *rosterApi) queryAllocations(ctx echo.Context) error {
	allocs, err := api.svc.QueryAllocations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying allocations")
	}
	if allocs == nil {
		allocs = []roster.TeacherBatchConfig{}
	}
	return ctx.JSON(http.StatusOK, allocs)
}

func (api *rosterApi) myAllocation(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	alloc, err := api.svc.TeacherAllocation(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == roster.ErrAllocationNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding teacher allocation")
	}
	return ctx.JSON(http.StatusOK, alloc)
}

type BatchResolution struct {
	// Batch is nil when no definition's range covers the student.
	Batch *roster.BatchDefinition `json:"batch"`
}
