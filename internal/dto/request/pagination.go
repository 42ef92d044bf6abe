package request

import "film-catalog/pkg/utils"

type PaginatedRequest struct {
	Page    int    `json:"page" validate:"min=1"`
	PerPage int    `json:"per_page" validate:"min=1,max=100"`
	Sort    string `json:"sort,omitempty" validate:"omitempty,oneof=created_at likes general_score"`
	Order   string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return 10
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}

// PageNumber returns Page clamped to 1.
func (p PaginatedRequest) PageNumber() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PaginatedRequest) Ascending() bool {
	return p.Order == "asc"
}
