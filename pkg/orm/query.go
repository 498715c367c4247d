// Package orm is a thin chainable wrapper over *gorm.DB that adds DB timing
// metrics and read-through caching.
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lojinha/pkg/metrics"
)

// ErrNotFound is returned by First and Cache when no row matches.
var ErrNotFound = errors.New("orm: record not found")

// Cacher is the read-through cache used by Query.Cache. *cache.Store
// satisfies it; nil disables caching.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Query struct {
	db    *gorm.DB
	ctx   context.Context
	cache Cacher
}

func New(db *gorm.DB) *Query {
	return &Query{db: db, ctx: context.Background()}
}

func (q *Query) clone(db *gorm.DB) *Query {
	return &Query{db: db, ctx: q.ctx, cache: q.cache}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	c := q.clone(q.db.WithContext(ctx))
	c.ctx = ctx
	return c
}

// WithCache enables Query.Cache lookups against c.
func (q *Query) WithCache(c Cacher) *Query {
	n := q.clone(q.db)
	n.cache = c
	return n
}

func (q *Query) Model(v interface{}) *Query {
	return q.clone(q.db.Model(v))
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return q.clone(q.db.Where(query, args...))
}

func (q *Query) Order(value interface{}) *Query {
	return q.clone(q.db.Order(value))
}

// Get loads every matching row into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row, mapping gorm.ErrRecordNotFound to
// ErrNotFound.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Cache serves dest from the cache under key, falling back to First and
// storing the row for ttl. Misses are not cached.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if q.cache != nil && q.cache.Get(q.ctx, key, dest) {
		return nil
	}

	if err := q.First(dest); err != nil {
		return err
	}

	if q.cache != nil {
		_ = q.cache.Set(q.ctx, key, dest, ttl)
	}
	return nil
}

// Transaction runs fn inside a database transaction.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(q.clone(tx))
	})
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// Exists reports whether any row matches the current conditions.
func (q *Query) Exists() (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	if err := q.db.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// DB exposes the underlying *gorm.DB for operations the wrapper lacks.
func (q *Query) DB() *gorm.DB { return q.db }
