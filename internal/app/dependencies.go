package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/config"
	"github.com/groupone/webshop/internal/domain"
	"github.com/groupone/webshop/internal/server"
	"github.com/groupone/webshop/internal/storage/memory"
	"github.com/groupone/webshop/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения и функцию полного сброса.
// Store равен nil, если выбран in-memory backend.
type Dependencies struct {
	Products  domain.ProductRepository
	Customers domain.CustomerRepository
	Orders    domain.OrderRepository
	Placer    domain.OrderPlacer
	Outbox    domain.OutboxRepository
	Store     *postgres.Store
	Reset     server.ResetFunc
	Logger    *log.Entry
}

// NewDependencies выбирает backend по конфигурации: непустой DSN включает
// PostgreSQL (с применением миграций), иначе всё хранится в памяти.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.DB.DSN == "" {
		logger.Info("no database DSN configured, using in-memory storage")
		return newMemoryDependencies(logger), nil
	}

	store, err := postgres.Open(ctx, postgres.Config{
		DSN:          cfg.DB.DSN,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("postgres storage initialized")

	return &Dependencies{
		Products:  postgres.NewProductRepository(store),
		Customers: postgres.NewCustomerRepository(store),
		Orders:    postgres.NewOrderRepository(store),
		Placer:    postgres.NewOrderPlacer(store),
		Outbox:    postgres.NewOutboxRepository(store),
		Store:     store,
		Reset:     store.Reset,
		Logger:    logger,
	}, nil
}

func newMemoryDependencies(logger *log.Entry) *Dependencies {
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	orders := memory.NewOrderRepository(products)
	placer := memory.NewOrderPlacer(orders, customers)
	outbox := memory.NewOutboxRepository()

	reset := func(context.Context) error {
		orders.Reset()
		customers.Reset()
		products.Reset()
		outbox.Reset()
		return nil
	}

	return &Dependencies{
		Products:  products,
		Customers: customers,
		Orders:    orders,
		Placer:    placer,
		Outbox:    outbox,
		Reset:     reset,
		Logger:    logger,
	}
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.Store != nil {
		return d.Store.Close()
	}
	return nil
}
