package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/ecommerce/internal/health"
	"github.com/vladislavdragonenkov/ecommerce/internal/httpx"
	"github.com/vladislavdragonenkov/ecommerce/internal/service/stock"
	"github.com/vladislavdragonenkov/ecommerce/internal/version"
)

// RunCatalog поднимает сервис каталога: HTTP API товаров и склада
// плюс отдельный сервер метрик и health-проверок.
func RunCatalog(ctx context.Context, cfg CatalogConfig) error {
	logger := log.WithField("component", "catalog-service")

	storage, err := initCatalogStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage(storage.closeFn, logger)

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var ledger *stock.Ledger
	if kafkaProducer != nil {
		ledger = stock.NewLedgerWithKafka(storage.products, kafkaProducer, logger)
	} else {
		ledger = stock.NewLedger(storage.products, logger)
	}

	verifier := newIdentityVerifier(cfg.IdentityURL, logger)

	router := httpx.NewRouter()
	handler := httpx.NewProductsHandler(storage.products, ledger, verifier, logger.WithField("layer", "http"))
	handler.Register(router)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if storage.storageChecker != nil {
		healthHandler.RegisterChecker("postgres", storage.storageChecker)
	}

	startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	return serveAPI(ctx, cfg.HTTPAddr, router, logger)
}

func closeStorage(closeFn func() error, logger *log.Entry) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}
