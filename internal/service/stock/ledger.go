package stock

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
	"github.com/vladislavdragonenkov/ecommerce/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ecommerce/internal/metrics"
)

// Ledger — складской регистр каталога: единственная точка, через которую
// уменьшается остаток товара. Проверку и списание выполняет репозиторий в
// одной критической секции на товар; Ledger добавляет валидацию границы,
// метрики и публикацию событий.
type Ledger struct {
	products      domain.ProductRepository
	logger        *log.Entry
	metrics       *metrics.ReservationMetrics
	kafkaProducer *kafka.Producer // опциональный producer для событий резервирования
}

// NewLedger создаёт рабочий экземпляр складского регистра.
func NewLedger(products domain.ProductRepository, logger *log.Entry) *Ledger {
	if logger == nil {
		logger = log.New().WithField("component", "stock-ledger")
	}
	return &Ledger{
		products: products,
		logger:   logger,
		metrics:  metrics.NewReservationMetrics(),
	}
}

// NewLedgerWithKafka создаёт регистр, публикующий события резервирования в Kafka.
func NewLedgerWithKafka(products domain.ProductRepository, producer *kafka.Producer, logger *log.Entry) *Ledger {
	ledger := NewLedger(products, logger)
	ledger.kafkaProducer = producer
	return ledger
}

// NewLedgerWithoutMetrics создаёт регистр без метрик (для тестов).
func NewLedgerWithoutMetrics(products domain.ProductRepository, logger *log.Entry) *Ledger {
	if logger == nil {
		logger = log.New().WithField("component", "stock-ledger")
	}
	return &Ledger{
		products: products,
		logger:   logger,
	}
}

// Reserve атомарно списывает qty единиц товара и возвращает новый остаток.
// Некорректное количество отклоняется до входа в критическую секцию; остаток
// никогда не уходит в минус. Операции освобождения резерва не существует.
func (l *Ledger) Reserve(ctx context.Context, req domain.ReservationRequest) (int32, error) {
	start := time.Now()
	defer func() {
		if l.metrics != nil {
			l.metrics.RecordDuration(time.Since(start))
		}
	}()

	if errs := req.Validate(); len(errs) > 0 {
		l.recordOutcome("invalid")
		return 0, errs[0]
	}

	remaining, err := l.products.Reserve(ctx, req.ProductID, req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			l.recordOutcome(string(domain.ReservationNotFound))
		case errors.Is(err, domain.ErrInsufficientStock):
			l.recordOutcome(string(domain.ReservationInsufficient))
			l.logger.WithFields(log.Fields{
				"product_id": req.ProductID,
				"qty":        req.Qty,
			}).Debug("insufficient stock")
		default:
			l.recordOutcome("error")
			l.logger.WithError(err).WithField("product_id", req.ProductID).Error("reserve failed")
		}
		return 0, err
	}

	l.recordOutcome(string(domain.ReservationReserved))
	l.logger.WithFields(log.Fields{
		"product_id": req.ProductID,
		"qty":        req.Qty,
		"remaining":  remaining,
	}).Info("stock reserved")

	l.publishReserved(req.ProductID, req.Qty, remaining)

	return remaining, nil
}

func (l *Ledger) recordOutcome(outcome string) {
	if l.metrics != nil {
		l.metrics.RecordOutcome(outcome)
	}
}

// publishReserved публикует событие резервирования в Kafka (если producer настроен).
func (l *Ledger) publishReserved(productID string, qty, remaining int32) {
	if l.kafkaProducer == nil {
		return
	}

	event := kafka.NewStockReservedEvent(productID, qty, remaining)
	if err := l.kafkaProducer.PublishEvent(kafka.TopicStockEvents, productID, event); err != nil {
		// Публикация best-effort: резерв уже зафиксирован.
		l.logger.WithError(err).WithField("product_id", productID).Warn("failed to publish stock event to kafka")
	}
}
