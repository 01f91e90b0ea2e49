package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shelfsensei/query"
)

// listing describes one collection endpoint: the table it pages over, the
// joins its search and sort columns need, and the relations it returns.
type listing struct {
	table   string
	model   interface{}
	sorts   *query.Sorts
	search  []string
	joins   []string
	preload []string
	scope   func(*gorm.DB) *gorm.DB
}

// findPage counts the records matching the search of the request, then
// loads the requested page of them.
func findPage[T any](c *fiber.Ctx, database *gorm.DB, l listing) ([]T, query.Params, int64, error) {
	p, err := query.Parse(c, l.sorts)
	if err != nil {
		return nil, p, 0, err
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		for _, j := range l.joins {
			tx = tx.Joins(j)
		}
		if l.scope != nil {
			tx = l.scope(tx)
		}
		if p.Search != "" {
			where, args := query.Contains(p.Search, l.search...)
			tx = tx.Where(where, args...)
		}
		return tx
	}

	tx := database.WithContext(c.UserContext())
	var total int64
	if err := tx.Model(l.model).Scopes(filter).Count(&total).Error; err != nil {
		return nil, p, 0, err
	}

	page := tx.Model(l.model).Scopes(filter).Select(l.table + ".*").Order(p.Order(l.sorts))
	for _, rel := range l.preload {
		page = page.Preload(rel)
	}
	var rows []T
	if err := p.Paginate(page).Find(&rows).Error; err != nil {
		return nil, p, 0, err
	}
	return rows, p, total, nil
}

func listStatus(err error) int {
	if errors.Is(err, query.ErrInvalidParam) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
