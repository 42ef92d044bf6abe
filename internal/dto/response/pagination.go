package response

import "film-catalog/pkg/utils"

type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalPages int    `json:"total_pages"`
	IsLast     bool   `json:"is_last"`
	Sort       string `json:"sort,omitempty"`
}

func NewPaginatedResponse[T any](data []T, page, perPage int, total int64) *PaginatedResponse[T] {
	totalPages := utils.CalculateTotalPages(total, perPage)
	if data == nil {
		data = []T{}
	}

	return &PaginatedResponse[T]{
		Data: data,
		Pagination: PaginationMeta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			IsLast:     page >= totalPages,
		},
	}
}

// WithSort records the sort key the page was produced with.
func (p *PaginatedResponse[T]) WithSort(sort string) *PaginatedResponse[T] {
	p.Pagination.Sort = sort
	return p
}
