package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/gateway/identity"
	healthcheck "github.com/vladislavdragonenkov/ecommerce/internal/health"
	"github.com/vladislavdragonenkov/ecommerce/internal/storage/memory"
	"github.com/vladislavdragonenkov/ecommerce/internal/storage/postgres"
)

// catalogStorage содержит инициализированное хранилище сервиса каталога.
type catalogStorage struct {
	products       domain.ProductRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// orderStorage содержит инициализированное хранилище сервиса заказов.
type orderStorage struct {
	orders         domain.OrderRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initCatalogStorage выбирает реализацию ProductRepository по драйверу.
func initCatalogStorage(ctx context.Context, cfg CatalogConfig, logger *log.Entry) (catalogStorage, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		return catalogStorage{products: memory.NewProductRepository()}, nil
	case StorageDriverPostgres:
		store, err := openPostgresStore(ctx, cfg.PostgresDSN, cfg.PostgresAutoMigrate, logger)
		if err != nil {
			return catalogStorage{}, err
		}
		return catalogStorage{
			products:       postgres.NewProductRepository(store),
			storageChecker: postgresChecker(store),
			closeFn:        store.Close,
		}, nil
	default:
		return catalogStorage{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// initOrderStorage выбирает реализацию OrderRepository по драйверу.
func initOrderStorage(ctx context.Context, cfg OrderConfig, logger *log.Entry) (orderStorage, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		return orderStorage{orders: memory.NewOrderRepository()}, nil
	case StorageDriverPostgres:
		store, err := openPostgresStore(ctx, cfg.PostgresDSN, cfg.PostgresAutoMigrate, logger)
		if err != nil {
			return orderStorage{}, err
		}
		return orderStorage{
			orders:         postgres.NewOrderRepository(store),
			storageChecker: postgresChecker(store),
			closeFn:        store.Close,
		}, nil
	default:
		return orderStorage{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

func openPostgresStore(ctx context.Context, dsn string, autoMigrate bool, logger *log.Entry) (*postgres.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres storage driver requires a DSN")
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres store: %w", err)
	}

	if autoMigrate {
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("postgres миграции применены")
	}

	return store, nil
}

func postgresChecker(store *postgres.Store) healthcheck.Checker {
	return healthcheck.NewPingChecker("postgres", 0, store.Ping)
}

// newIdentityVerifier выбирает проверку аутентификации: внешний сервис, если
// задан его адрес, иначе статический разбор bearer-токена для локальной разработки.
func newIdentityVerifier(identityURL string, logger *log.Entry) domain.IdentityVerifier {
	if identityURL == "" {
		logger.Warn("identity service url is empty, using static bearer verifier")
		return identity.StaticVerifier{}
	}
	return identity.NewClient(identityURL, logger.WithField("component", "identity-client"))
}
