// Package pagination normalizes the page/limit query parameters shared
// by the admin listing endpoints. Out-of-range or malformed values fall
// back to defaults rather than erroring, so a hand-typed URL still
// renders the first page.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params carries the sanitized paging window. Offset is precomputed for
// the repository layer.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query and clamps them to
// the allowed window.
func Parse(c *gin.Context) Params {
	page := intQuery(c, "page", DefaultPage)
	limit := intQuery(c, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// intQuery returns the query parameter as an int, or fallback when the
// parameter is absent or not numeric.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
