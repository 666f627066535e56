package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams extracts pagination params with sane bounds.
func NewQueryParams(c echo.Context) *QueryParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return &QueryParams{PageNumber: page, PageSize: size}
}
