// Package common holds request types shared by the application services.
package common

import (
	"github.com/erp/logistics/internal/domain/shared"
)

// ListQuery is the paging and search part of every list request
type ListQuery struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by" binding:"omitempty,max=50"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search          string `form:"search" binding:"omitempty,max=100"`
	IncludeInactive bool   `form:"include_inactive"`
}

// Filter converts the query into a normalized repository filter.
// Unknown order_by values are replaced by the repository default.
func (q ListQuery) Filter() shared.Filter {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	f.IncludeInactive = q.IncludeInactive
	return f.Normalize()
}
