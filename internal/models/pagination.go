package models

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type PaginationRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset is the zero-based index of the first record of the page.
func (p *PaginationRequest) Offset() int {
	if p == nil || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize()
}

// PageSize is Limit, or DefaultLimit when unset.
func (p *PaginationRequest) PageSize() int {
	if p == nil || p.Limit < 1 {
		return DefaultLimit
	}
	return p.Limit
}

func (p *PaginationRequest) RequestParams() []Param {
	if p == nil {
		return nil
	}
	return []Param{
		{Key: "page", Value: strconv.Itoa(p.Page)},
		{Key: "limit", Value: strconv.Itoa(p.Limit)},
	}
}

type PaginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func (p PaginationResponse) HasNextPage() bool {
	return p.Page < p.TotalPages
}

func (p PaginationResponse) HasPreviousPage() bool {
	return p.Page > 1
}

// TotalPages is ceil(total/limit), with DefaultLimit for a non-positive limit.
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
