// Package bootstrap builds the shop's object graph: stores, services, the
// event bus and the GraphQL schema.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	appgraphql "github.com/shashiranjanraj/lojinha/app/graphql"
	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/repositories"
	"github.com/shashiranjanraj/lojinha/app/services"
	"github.com/shashiranjanraj/lojinha/config"
	"github.com/shashiranjanraj/lojinha/pkg/auth"
	"github.com/shashiranjanraj/lojinha/pkg/cache"
	"github.com/shashiranjanraj/lojinha/pkg/database"
	"github.com/shashiranjanraj/lojinha/pkg/event"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
	"github.com/shashiranjanraj/lojinha/pkg/metrics"
	"github.com/shashiranjanraj/lojinha/pkg/migration"
	"github.com/shashiranjanraj/lojinha/pkg/orm"
	"github.com/shashiranjanraj/lojinha/pkg/workerpool"

	_ "github.com/shashiranjanraj/lojinha/database/migrations"
)

const (
	eventWorkers = 4
	eventQueue   = 256
)

type Services struct {
	Users    repositories.UserStore
	Catalog  repositories.Catalog
	Auth     *services.AuthService
	Checkout *services.CheckoutService
	Events   *event.Bus
	Schema   graphql.Schema

	db    *gorm.DB
	cache *cache.Store
	pool  *workerpool.Pool
}

// Options selects the backing stores. A nil DB means in-memory stores; a nil
// Cache disables product caching.
type Options struct {
	DB        *gorm.DB
	Cache     *cache.Store
	JWTSecret string
	JWTTTL    time.Duration
	CacheTTL  time.Duration
	Payments  services.PaymentProcessor
}

// New wires every service from opts.
func New(opts Options) (*Services, error) {
	s := &Services{
		Events: event.NewBus(),
		db:     opts.DB,
		cache:  opts.Cache,
		pool:   workerpool.New(eventWorkers, eventQueue),
	}
	s.Events.UsePool(s.pool)

	if opts.DB != nil {
		s.Users = repositories.NewGormUserStore(opts.DB)
		var c orm.Cacher
		if opts.Cache != nil {
			c = opts.Cache
		}
		s.Catalog = repositories.NewGormCatalog(opts.DB, c, opts.CacheTTL)
	} else {
		s.Users = repositories.NewMemoryUserStore()
		s.Catalog = repositories.NewMemoryCatalog()
	}

	payments := opts.Payments
	if payments == nil {
		payments = services.LoggingProcessor{}
	}

	s.Auth = services.NewAuthService(s.Users, auth.NewJWT(opts.JWTSecret, opts.JWTTTL), s.Events)
	s.Checkout = services.NewCheckoutService(s.Auth, s.Catalog, payments, s.Events)

	schema, err := appgraphql.NewSchema(s.Auth, s.Checkout)
	if err != nil {
		s.pool.Shutdown()
		return nil, fmt.Errorf("bootstrap: graphql schema: %w", err)
	}
	s.Schema = schema

	listen(s.Events)
	return s, nil
}

// FromConfig connects whatever the configuration asks for. An unreachable
// database or Redis is logged and replaced by the in-memory fallback so the
// API still comes up.
func FromConfig(ctx context.Context) (*Services, error) {
	opts := Options{
		JWTSecret: config.JWTSecret(),
		JWTTTL:    config.JWTTTL(),
		CacheTTL:  config.CacheTTL(),
	}

	if config.StoreDriver() == "database" {
		db, err := connectDB()
		if err != nil {
			logger.Warn("database unavailable, using in-memory stores", "error", err)
		} else {
			opts.DB = db
		}
	}

	if addr := config.RedisAddr(); addr != "" && opts.DB != nil {
		store, err := cache.Connect(ctx, addr, config.RedisPassword())
		if err != nil {
			logger.Warn("redis unavailable, product cache disabled", "error", err)
		} else {
			opts.Cache = store
		}
	}

	return New(opts)
}

func connectDB() (*gorm.DB, error) {
	db, err := database.Connect(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	if err := migration.New(db, nil).Run(); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err == nil && count == 0 {
		products := append([]models.Product(nil), repositories.DefaultProducts...)
		if err := db.Create(&products).Error; err != nil {
			logger.Warn("default catalogue not seeded", "error", err)
		}
	}
	return db, nil
}

// Reset empties the user store.
func (s *Services) Reset(ctx context.Context) error {
	return s.Users.Reset(ctx)
}

// Close drains pending async events, then releases the database and Redis
// connections, if any.
func (s *Services) Close() {
	s.pool.Shutdown()
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}
	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}
}

func listen(bus *event.Bus) {
	bus.Listen(services.EventUserRegistered, func(ctx context.Context, payload interface{}) {
		metrics.UsersRegistered.Inc()
		if u, ok := payload.(models.User); ok {
			logger.WithCtx(ctx).Debug("event: user registered", "user_id", u.ID)
		}
	})

	bus.ListenAsync(services.EventOrderCheckedOut, func(ctx context.Context, payload interface{}) {
		if o, ok := payload.(models.Order); ok {
			logger.WithCtx(ctx).Info("event: order checked out",
				"user_id", o.UserID,
				"items", len(o.Items),
				"valor_final", o.ValorFinal,
			)
		}
	})
}
