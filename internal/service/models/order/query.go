package order

import (
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Query represents filter parameters for querying orders. A nil UserID means
// no owner filter; date bounds are inclusive.
type Query struct {
	UserID    *uuid.UUID `json:"userId,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Page      int        `json:"page,omitempty"`
	PageSize  int        `json:"pageSize,omitempty"`
}

// Normalize clamps pagination parameters to sane bounds.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}

// Offset returns the number of rows to skip for the current page.
func (q *Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// PageResult is one page of a listing plus the pagination envelope.
type PageResult struct {
	Orders  []Order `json:"orders"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	HasMore bool    `json:"hasMore"`
}
