package placement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ecommerce/internal/metrics"
)

// Orchestrator описывает операцию оформления заказа.
type Orchestrator interface {
	// PlaceOrder проверяет и резервирует каждую позицию у каталога, считает
	// итоговую сумму и фиксирует заказ одной атомарной записью.
	PlaceOrder(ctx context.Context, buyerID string, items []domain.RequestedItem, authHeader string) (domain.Order, error)
}

// orchestrator последовательно проводит позиции заказа через каталог:
// fetch → reserve для каждой позиции в порядке запроса, затем единая запись
// Order + OrderItems. Любой отказ прерывает вызов без создания заказа; уже
// зафиксированные резервы предыдущих позиций при этом не освобождаются —
// операции снятия резерва у склада не существует.
type orchestrator struct {
	orders        domain.OrderRepository
	catalog       domain.CatalogGateway
	logger        *log.Entry
	metrics       *metrics.PlacementMetrics
	kafkaProducer *kafka.Producer // опциональный producer для событий заказов
}

// NewOrchestrator создаёт рабочий экземпляр оркестратора.
func NewOrchestrator(orders domain.OrderRepository, catalog domain.CatalogGateway, logger *log.Entry) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "placement")
	}
	return &orchestrator{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
		metrics: metrics.NewPlacementMetrics(),
	}
}

// NewOrchestratorWithKafka создаёт оркестратор, публикующий событие order.created.
func NewOrchestratorWithKafka(orders domain.OrderRepository, catalog domain.CatalogGateway, producer *kafka.Producer, logger *log.Entry) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "placement")
	}
	return &orchestrator{
		orders:        orders,
		catalog:       catalog,
		logger:        logger,
		metrics:       metrics.NewPlacementMetrics(),
		kafkaProducer: producer,
	}
}

// NewOrchestratorWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewOrchestratorWithoutMetrics(orders domain.OrderRepository, catalog domain.CatalogGateway, logger *log.Entry) Orchestrator {
	if logger == nil {
		logger = log.New().WithField("component", "placement")
	}
	return &orchestrator{
		orders:  orders,
		catalog: catalog,
		logger:  logger,
	}
}

// reservedItem — проверенная и зарезервированная позиция с ценой, снятой в
// момент fetch. Цена после резервирования не перечитывается.
type reservedItem struct {
	productID  string
	qty        int32
	priceMinor int64
}

// PlaceOrder выполняет оформление заказа. Позиции обрабатываются строго
// последовательно в порядке запроса; конкурентных обращений к каталогу внутри
// одного вызова нет.
func (o *orchestrator) PlaceOrder(ctx context.Context, buyerID string, items []domain.RequestedItem, authHeader string) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if o.metrics != nil {
			o.metrics.RecordPlacementDuration(time.Since(start))
		}
	}()

	if buyerID == "" {
		o.recordFailure(metrics.FailReasonValidation)
		return domain.Order{}, domain.ErrBuyerRequired
	}
	if len(items) == 0 {
		o.recordFailure(metrics.FailReasonValidation)
		return domain.Order{}, domain.ErrItemsRequired
	}
	// Количество проверяется до любого обращения к каталогу: невалидный
	// запрос не должен оставить за собой ни одного резерва.
	for _, item := range items {
		if item.Qty <= 0 {
			o.recordFailure(metrics.FailReasonValidation)
			return domain.Order{}, domain.NewProductError(item.ProductID, domain.ErrItemQtyInvalid)
		}
	}

	reserved := make([]reservedItem, 0, len(items))
	var totalMinor int64

	for _, item := range items {
		res, err := o.processItem(ctx, item, authHeader)
		if err != nil {
			return domain.Order{}, err
		}
		reserved = append(reserved, res)
		totalMinor += int64(res.qty) * res.priceMinor
	}

	order, err := o.persistOrder(ctx, buyerID, reserved, totalMinor)
	if err != nil {
		return domain.Order{}, err
	}

	if o.metrics != nil {
		o.metrics.RecordOrderPlaced()
	}
	o.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"buyer_id":     buyerID,
		"items_count":  len(order.Items),
		"amount_minor": order.AmountMinor,
	}).Info("order placed")

	o.publishOrderCreated(order)

	return order, nil
}

// processItem проводит одну позицию через каталог: fetch даёт актуальную цену,
// reserve фиксирует списание остатка.
func (o *orchestrator) processItem(ctx context.Context, item domain.RequestedItem, authHeader string) (reservedItem, error) {
	fetchStart := time.Now()
	snapshot, err := o.catalog.FetchProduct(ctx, item.ProductID)
	if o.metrics != nil {
		o.metrics.RecordItemCall("fetch", time.Since(fetchStart))
	}
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			o.recordFailure(metrics.FailReasonUpstream)
			o.logger.WithError(err).WithField("product_id", item.ProductID).Error("catalog fetch failed")
			return reservedItem{}, fmt.Errorf("fetch product: %w", err)
		}
		o.recordFailure(metrics.FailReasonNotFound)
		o.logger.WithField("product_id", item.ProductID).Warn("product not found in catalog")
		return reservedItem{}, domain.NewProductError(item.ProductID, domain.ErrProductNotFound)
	}

	reserveStart := time.Now()
	outcome, err := o.catalog.ReserveStock(ctx, item.ProductID, item.Qty, authHeader)
	if o.metrics != nil {
		o.metrics.RecordItemCall("reserve", time.Since(reserveStart))
	}
	if err != nil {
		o.recordFailure(metrics.FailReasonUpstream)
		return reservedItem{}, fmt.Errorf("reserve stock: %w", domain.ErrUpstream)
	}

	switch outcome.Status {
	case domain.ReservationReserved:
		return reservedItem{
			productID:  item.ProductID,
			qty:        item.Qty,
			priceMinor: snapshot.PriceMinor,
		}, nil
	case domain.ReservationNotFound:
		o.recordFailure(metrics.FailReasonNotFound)
		return reservedItem{}, domain.NewProductError(item.ProductID, domain.ErrProductNotFound)
	case domain.ReservationInsufficient:
		o.recordFailure(metrics.FailReasonInsufficient)
		o.logger.WithFields(log.Fields{
			"product_id": item.ProductID,
			"qty":        item.Qty,
		}).Warn("insufficient stock")
		return reservedItem{}, domain.NewProductError(item.ProductID, domain.ErrInsufficientStock)
	default:
		o.recordFailure(metrics.FailReasonUpstream)
		o.logger.WithField("product_id", item.ProductID).Error("transient reservation failure")
		return reservedItem{}, fmt.Errorf("reserve stock: %w", domain.ErrUpstream)
	}
}

func (o *orchestrator) persistOrder(ctx context.Context, buyerID string, reserved []reservedItem, totalMinor int64) (domain.Order, error) {
	now := time.Now().UTC()

	orderItems := make([]domain.OrderItem, 0, len(reserved))
	for _, r := range reserved {
		orderItems = append(orderItems, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  r.productID,
			Qty:        r.qty,
			PriceMinor: r.priceMinor,
			CreatedAt:  now,
		})
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		BuyerID:     buyerID,
		Status:      domain.OrderStatusCreated,
		AmountMinor: totalMinor,
		Items:       orderItems,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		o.recordFailure(metrics.FailReasonValidation)
		return domain.Order{}, errs[0]
	}

	if err := o.orders.Create(ctx, order); err != nil {
		o.recordFailure(metrics.FailReasonStorage)
		o.logger.WithError(err).WithField("buyer_id", buyerID).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	return order, nil
}

func (o *orchestrator) recordFailure(reason string) {
	if o.metrics != nil {
		o.metrics.RecordPlacementFailed(reason)
	}
}

// publishOrderCreated публикует событие создания заказа в Kafka (если producer настроен).
func (o *orchestrator) publishOrderCreated(order domain.Order) {
	if o.kafkaProducer == nil {
		return
	}

	event := kafka.NewOrderCreatedEvent(order.ID, order.BuyerID, order.AmountMinor, len(order.Items))
	if err := o.kafkaProducer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		// Заказ уже зафиксирован; публикация best-effort.
		o.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event to kafka")
		return
	}
	if o.metrics != nil {
		o.metrics.RecordEventPublished()
	}
}

var _ Orchestrator = (*orchestrator)(nil)
