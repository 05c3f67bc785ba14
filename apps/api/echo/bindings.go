package echoapi

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ViNit736/GFM-record-management-app-sub001/core"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// DateWindow binds the from/to query params every windowed listing takes.
type DateWindow struct {
	From time.Time
	To   time.Time
}

func (w *DateWindow) Bind(ctx echo.Context) error {
	parse := func(name string) (time.Time, error) {
		val := strings.TrimSpace(ctx.QueryParam(name))
		if val == "" {
			return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: name + " is required"})
		}
		d, err := time.ParseInLocation(attendance.DateLayout, val, time.UTC)
		if err != nil {
			return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be of form 2006-01-02"})
		}
		return d, nil
	}

	var err error
	if w.From, err = parse("from"); err != nil {
		return err
	}
	if w.To, err = parse("to"); err != nil {
		return err
	}
	if w.To.Before(w.From) {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "to must not be before from"})
	}
	return nil
}
