package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/tableview"
	"github.com/trezcool/dashboard/core/video"
)

const (
	orderingParam    = "ordering"
	searchParam      = "search"
	pageParam        = "page"
	rowsPerPageParam = "rows_per_page"

	maxRowsPerPage = 100
)

// bindTableQuery reads the table state of a list request:
// ?ordering=-name&search=lob&page=0&rows_per_page=5
func bindTableQuery(ctx echo.Context, defSort tableview.SortState, defRowsPerPage int) (tableview.Query, error) {
	q := tableview.Query{
		Sort:   tableview.ParseOrdering(ctx.QueryParam(orderingParam), defSort),
		Filter: tableview.FilterState{Query: core.CleanString(ctx.QueryParam(searchParam))},
		Page:   tableview.PageState{RowsPerPage: defRowsPerPage},
	}

	var fldErrs []core.FieldError
	if v := ctx.QueryParam(pageParam); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 0 {
			fldErrs = append(fldErrs, core.FieldError{Field: pageParam, Error: "must be a non-negative integer"})
		}
		q.Page.Page = page
	}
	if v := ctx.QueryParam(rowsPerPageParam); v != "" {
		rpp, err := strconv.Atoi(v)
		if err != nil || rpp < 1 || rpp > maxRowsPerPage {
			fldErrs = append(fldErrs, core.FieldError{
				Field: rowsPerPageParam,
				Error: "must be an integer between 1 and " + strconv.Itoa(maxRowsPerPage),
			})
		}
		q.Page.RowsPerPage = rpp
	}
	if fldErrs != nil {
		return tableview.Query{}, core.NewValidationError(nil, fldErrs...)
	}
	return q, nil
}

// DestroyMultipleRequest is the query of bulk delete endpoints: ?id=a&id=b
type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

type SelectionResponse struct {
	Selected tableview.Selection `json:"selected"`
	Count    int                 `json:"count"`
}

type UploadResponse struct {
	Message string      `json:"message"`
	Video   video.Video `json:"video"`
}
