package kafka

import "time"

// EventType определяет тип события.
type EventType string

const (
	// Order события
	EventTypeOrderCreated EventType = "order.created"

	// Stock события
	EventTypeStockReserved EventType = "stock.reserved"
)

// Topics для Kafka.
const (
	TopicOrderEvents = "shop.order.events"
	TopicStockEvents = "shop.stock.events"
)

// OrderCreatedEvent публикуется сервисом заказов после фиксации заказа.
type OrderCreatedEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	BuyerID     string    `json:"buyer_id"`
	AmountMinor int64     `json:"amount_minor"`
	ItemsCount  int       `json:"items_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// StockReservedEvent публикуется каталогом после успешного резервирования.
type StockReservedEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	Qty       int32     `json:"qty"`
	Remaining int32     `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderCreatedEvent создает событие создания заказа.
func NewOrderCreatedEvent(orderID, buyerID string, amountMinor int64, itemsCount int) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		EventType:   EventTypeOrderCreated,
		OrderID:     orderID,
		BuyerID:     buyerID,
		AmountMinor: amountMinor,
		ItemsCount:  itemsCount,
		Timestamp:   time.Now(),
	}
}

// NewStockReservedEvent создает событие резервирования остатка.
func NewStockReservedEvent(productID string, qty, remaining int32) *StockReservedEvent {
	return &StockReservedEvent{
		EventType: EventTypeStockReserved,
		ProductID: productID,
		Qty:       qty,
		Remaining: remaining,
		Timestamp: time.Now(),
	}
}
