package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/pkg/orm"
)

var ErrProductNotFound = errors.New("repositories: product not found")

// Catalog resolves product IDs to products.
type Catalog interface {
	Find(ctx context.Context, id int) (models.Product, error)
}

// DefaultProducts is the fixed in-memory catalogue and the database seed.
var DefaultProducts = []models.Product{
	{ID: 1, Name: "Camiseta Lojinha", Price: 59.90},
	{ID: 2, Name: "Caneca Lojinha", Price: 29.90},
	{ID: 3, Name: "Boné Lojinha", Price: 45.00},
}

// ─── Memory ───────────────────────────────────────────────────────────────────

// MemoryCatalog is read-only after construction.
type MemoryCatalog struct {
	byID map[int]models.Product
}

// NewMemoryCatalog indexes products by ID; DefaultProducts when none given.
func NewMemoryCatalog(products ...models.Product) *MemoryCatalog {
	if len(products) == 0 {
		products = DefaultProducts
	}
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &MemoryCatalog{byID: byID}
}

func (c *MemoryCatalog) Find(_ context.Context, id int) (models.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// ─── GORM ─────────────────────────────────────────────────────────────────────

// GormCatalog reads the "products" table through a read-through cache.
type GormCatalog struct {
	db    *gorm.DB
	cache orm.Cacher
	ttl   time.Duration
}

// NewGormCatalog caches hits in c for ttl. A nil c disables caching.
func NewGormCatalog(db *gorm.DB, c orm.Cacher, ttl time.Duration) *GormCatalog {
	return &GormCatalog{db: db, cache: c, ttl: ttl}
}

func (c *GormCatalog) Find(ctx context.Context, id int) (models.Product, error) {
	if id <= 0 {
		return models.Product{}, ErrProductNotFound
	}

	q := orm.New(c.db).WithContext(ctx)
	if c.cache != nil {
		q = q.WithCache(c.cache)
	}

	var p models.Product
	err := q.Model(&models.Product{}).
		Where("id = ?", id).
		Cache("product:"+strconv.Itoa(id), c.ttl, &p)

	if errors.Is(err, orm.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("repositories: find product %d: %w", id, err)
	}
	return p, nil
}
