package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PageAll is the escape hatch: a listing asked for with page=all is
// returned unpaginated, with no count or page fields.
const PageAll = "all"

// PageQuery carries the parsed page selector and size for a listing request.
type PageQuery struct {
	All  bool
	Page int
	Size int
}

// GetPageQuery extracts the page selector and size from the request.
// page defaults to "all" when absent, matching the listing contract;
// size defaults to 5 and is floored to 1.
func GetPageQuery(c echo.Context) PageQuery {
	raw := c.QueryParam("page")
	size, _ := strconv.Atoi(c.QueryParam("size"))

	if raw == "" || raw == PageAll {
		return PageQuery{All: true, Size: NormalizeSize(size)}
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		page = 1
	}
	return PageQuery{Page: NormalizePage(page), Size: NormalizeSize(size)}
}

// GetWindowQuery extracts page and size for tail-windowed views (chat
// history). Both are coerced, never "all".
func GetWindowQuery(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, _ = strconv.Atoi(c.QueryParam("size"))
	return NormalizePage(page), NormalizeSize(size)
}

func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func NormalizeSize(size int) int {
	if size < 1 {
		return 5
	}
	return size
}
