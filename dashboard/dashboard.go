// Package dashboard computes the inventory summaries behind the dashboard
// and report endpoints. Everything here is read-only SQL over the movement
// ledger; stock is always derived, never stored.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shelfsensei/cache"
)

var (
	ErrUserRequired = errors.New("User ID is required")
	ErrNoShops      = errors.New("No shops assigned to this user")
)

const cachePrefix = "dashboard:"

type Service struct {
	DB    *sqlx.DB
	Cache *cache.Cache
	Log   *zap.Logger
}

// NewService shares the gorm connection pool with sqlx. The returned
// Service must not be closed; the pool belongs to gorm.
func NewService(database *gorm.DB, c *cache.Cache, log *zap.Logger) (*Service, error) {
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	driver := "sqlite3"
	if database.Dialector.Name() == "postgres" {
		driver = "pgx"
	}
	return &Service{DB: sqlx.NewDb(sqlDB, driver), Cache: c, Log: log}, nil
}

// Scope is the set of shops a query is restricted to.
type Scope struct {
	UserID  uint
	ShopID  uint
	ShopIDs []uint
}

// Scope resolves the shop set: the explicit shop when shopID is set,
// otherwise every shop userID owns.
func (s *Service) Scope(ctx context.Context, userID, shopID uint) (Scope, error) {
	if userID == 0 {
		return Scope{}, ErrUserRequired
	}
	if shopID != 0 {
		return Scope{UserID: userID, ShopID: shopID, ShopIDs: []uint{shopID}}, nil
	}

	var ids []uint
	if err := s.DB.SelectContext(ctx, &ids, s.DB.Rebind(`SELECT id FROM shop WHERE usr_id = ? ORDER BY id`), userID); err != nil {
		return Scope{}, fmt.Errorf("load shops of user %d: %w", userID, err)
	}
	if len(ids) == 0 {
		return Scope{}, ErrNoShops
	}
	return Scope{UserID: userID, ShopIDs: ids}, nil
}

// Invalidate drops every cached summary. Movement writes call it.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.Cache.DeletePrefix(ctx, cachePrefix); err != nil {
		s.Log.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (sc Scope) cacheKey() string {
	shop := "all"
	if sc.ShopID != 0 {
		shop = fmt.Sprint(sc.ShopID)
	}
	return fmt.Sprintf("%ssummary:%d:%s", cachePrefix, sc.UserID, shop)
}

// in expands query's IN (?) placeholders for args and rebinds it for the
// driver.
func (s *Service) in(query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return s.DB.Rebind(q), a, nil
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}
