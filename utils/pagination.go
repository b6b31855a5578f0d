package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"pos-api/store"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

// ParsePage reads page and limit from the query string. Garbage falls back
// to the defaults instead of failing the request.
func ParsePage(c *gin.Context, defaultLimit int) store.Page {
	page := cast.ToInt(c.DefaultQuery("page", "1"))
	limit := cast.ToInt(c.Query("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return store.Page{Page: page, Limit: limit}
}

func BuildPagination(total int64, p store.Page) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
	}
}

// QueryFloat returns nil when the parameter is absent or not a number.
func QueryFloat(c *gin.Context, key string) *float64 {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &v
}
