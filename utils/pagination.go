package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPageSize caps the limit query parameter
const MaxPageSize = 100

// Pagination represents pagination parameters
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Offset   int   `json:"-"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// NewPagination creates a new Pagination instance from query parameters
func NewPagination(c *gin.Context) *Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return &Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// SetTotal sets the total number of items and calculates the last page
func (p *Pagination) SetTotal(total int64) {
	p.Total = total
	if p.Limit > 0 {
		p.LastPage = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
}

// Window sets the total to n and returns the [start, end) slice bounds of the current page
func (p *Pagination) Window(n int) (int, int) {
	p.SetTotal(int64(n))
	start := p.Offset
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}
