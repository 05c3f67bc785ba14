package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports/compliance", jwt, gfmMiddleware())
	rg.GET("", api.audit)
	rg.GET("/summary", api.summary)
	rg.GET("/export", api.exportCSV)
	rg.POST("/digest", api.emailDigest, adminMiddleware())
}

func (api *reportApi) bindFilter(ctx echo.Context) (report.Filter, error) {
	var f report.Filter
	if err := ctx.Bind(&f); err != nil {
		return report.Filter{}, errors.Wrap(err, "binding to Filter")
	}
	if err := f.Validate(); err != nil {
		return report.Filter{}, err
	}
	return f, nil
}

func (api *reportApi) audit(ctx echo.Context) error {
	f, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}

	rows, err := api.svc.ComplianceAudit(ctx.Request().Context(), f)
	if err != nil {
		return errors.Wrap(err, "building compliance audit")
	}
	if rows == nil {
		rows = []report.AuditItem{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *reportApi) summary(ctx echo.Context) error {
	f, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}

	buckets, err := api.svc.ComplianceSummary(ctx.Request().Context(), f)
	if err != nil {
		return errors.Wrap(err, "building compliance summary")
	}
	if buckets == nil {
		buckets = []report.Bucket{}
	}
	return ctx.JSON(http.StatusOK, buckets)
}

func (api *reportApi) exportCSV(ctx echo.Context) error {
	f, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="compliance_%s_%s.csv"`, f.From, f.To))
	res.WriteHeader(http.StatusOK)

	return api.svc.ExportCSV(ctx.Request().Context(), f, res)
}

func (api *reportApi) emailDigest(ctx echo.Context) error {
	var data DigestRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DigestRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	to := make([]mail.Address, 0, len(data.Recipients))
	for _, addr := range data.Recipients {
		to = append(to, mail.Address{Address: addr})
	}

	if err := api.svc.EmailDigest(ctx.Request().Context(), data.Filter, to); err != nil {
		return errors.Wrap(err, "queueing compliance digest")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Compliance digest queued for delivery."})
}

type DigestRequest struct {
	report.Filter
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
}

func (dr *DigestRequest) Validate() error {
	if err := dr.Filter.Validate(); err != nil {
		return err
	}
	for i := range dr.Recipients {
		dr.Recipients[i] = core.CleanString(dr.Recipients[i], true /* lower */)
	}
	return core.Validate.Struct(dr)
}
