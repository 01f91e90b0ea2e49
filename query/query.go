// Package query turns collection request parameters into a bounded,
// deterministically ordered page plus pagination metadata.
package query

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "id"

	MaxLimit = 1000
	// MaxPage keeps (page-1)*limit within an int32.
	MaxPage = math.MaxInt32 / MaxLimit
)

var ErrInvalidParam = errors.New("invalid query parameter")

// Params is a normalized collection request. Page and Limit are always
// positive and capped at MaxPage and MaxLimit; SortOrder is either "asc"
// or "desc".
type Params struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

type rawParams struct {
	Page      string `query:"page"`
	Limit     string `query:"limit"`
	Search    string `query:"search"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
}

// Parse reads page, limit, search, sortBy and sortOrder from the query
// string. Missing, non-numeric or non-positive values take their defaults;
// sortBy is resolved against allow, falling back to "id".
func Parse(c *fiber.Ctx, allow *Sorts) (Params, error) {
	var raw rawParams
	if err := c.QueryParser(&raw); err != nil {
		return Params{}, errors.Join(ErrInvalidParam, err)
	}
	return Normalize(raw.Page, raw.Limit, raw.Search, raw.SortBy, raw.SortOrder, allow), nil
}

// Normalize applies the defaulting rules of Parse to raw string values.
func Normalize(page, limit, search, sortBy, sortOrder string, allow *Sorts) Params {
	p := Params{
		Page:      min(positiveOr(page, DefaultPage), MaxPage),
		Limit:     min(positiveOr(limit, DefaultLimit), MaxLimit),
		Search:    strings.TrimSpace(search),
		SortBy:    DefaultSortBy,
		SortOrder: "asc",
	}
	if strings.EqualFold(sortOrder, "desc") {
		p.SortOrder = "desc"
	}
	if allow != nil {
		p.SortBy = allow.Key(sortBy)
	}
	return p
}

func positiveOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Offset is the number of records skipped before the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Paginate applies offset and limit to tx.
func (p Params) Paginate(tx *gorm.DB) *gorm.DB {
	return tx.Offset(p.Offset()).Limit(p.Limit)
}

// Order returns the ORDER BY clause for p.SortBy, with the primary key
// appended so equal sort values come back in a stable order.
func (p Params) Order(allow *Sorts) string {
	dir := " ASC"
	if p.SortOrder == "desc" {
		dir = " DESC"
	}

	s := allow.sort(p.SortBy)
	expr := s.Expr
	if s.Text {
		expr = "LOWER(" + expr + ")"
	}
	if s.Expr == allow.pk {
		return expr + dir
	}
	return expr + dir + ", " + allow.pk + dir
}

// Contains builds a case-insensitive substring match of term against
// every column, joined with OR.
func Contains(term string, columns ...string) (string, []interface{}) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
