package query

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// List is the response shape shared by every collection endpoint.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination counts pages over total, the number of records matching
// the search filter.
func NewPagination(p Params, total int64) Pagination {
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

// NewList wraps a page of records. A nil page serializes as [].
func NewList[T any](data []T, p Params, total int64) List[T] {
	if data == nil {
		data = []T{}
	}
	return List[T]{Data: data, Pagination: NewPagination(p, total)}
}

// ErrorEnvelope is the fixed body of a failed collection request.
func ErrorEnvelope(msg string) fiber.Map {
	return fiber.Map{
		"error": msg,
		"data":  []interface{}{},
		"pagination": Pagination{
			Page:  DefaultPage,
			Limit: DefaultLimit,
		},
	}
}
