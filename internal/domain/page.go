package domain

// PageQuery 1 起始分页；limit 超界回落默认值
type PageQuery struct {
	Page      int    `form:"page,default=1" json:"page"`
	Limit     int    `form:"limit,default=10" json:"limit"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
}

func (q *PageQuery) Offset() int { return (q.Page - 1) * q.Limit }

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		HasNextPage: page < pages,
		HasPrevPage: page > 1 && total > 0,
	}
}
