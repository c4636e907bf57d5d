package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/gateway/catalog"
	healthcheck "github.com/vladislavdragonenkov/ecommerce/internal/health"
	"github.com/vladislavdragonenkov/ecommerce/internal/httpx"
	"github.com/vladislavdragonenkov/ecommerce/internal/service/placement"
	"github.com/vladislavdragonenkov/ecommerce/internal/version"
)

// RunOrder поднимает сервис заказов: HTTP API оформления и чтения заказов
// плюс отдельный сервер метрик и health-проверок.
func RunOrder(ctx context.Context, cfg OrderConfig) error {
	logger := log.WithField("component", "order-service")

	storage, err := initOrderStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage(storage.closeFn, logger)

	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	catalogClient := catalog.NewClient(cfg.CatalogURL, logger.WithField("component", "catalog-client"))

	var orchestrator placement.Orchestrator
	if kafkaProducer != nil {
		orchestrator = placement.NewOrchestratorWithKafka(storage.orders, catalogClient, kafkaProducer, logger)
	} else {
		orchestrator = placement.NewOrchestrator(storage.orders, catalogClient, logger)
	}

	verifier := newIdentityVerifier(cfg.IdentityURL, logger)

	router := httpx.NewRouter()
	handler := httpx.NewOrdersHandler(orchestrator, storage.orders, verifier, logger.WithField("layer", "http"))
	handler.Register(router)

	v, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(v)
	if storage.storageChecker != nil {
		healthHandler.RegisterChecker("postgres", storage.storageChecker)
	}
	healthHandler.RegisterChecker("catalog", healthcheck.NewPingChecker("catalog", 0, catalogClient.Ping))

	startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	return serveAPI(ctx, cfg.HTTPAddr, router, logger)
}
