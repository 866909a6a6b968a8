package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// ParsePagination reads page and limit, falling back to defaults on bad input.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}
