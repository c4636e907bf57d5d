package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event OrderCreatedEvent
		return json.Unmarshal(val, &event)
	})

	event := NewOrderCreatedEvent("order-123", "buyer-1", 1998, 1)

	if err := producer.PublishEvent(TopicOrderEvents, "order-123", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewStockReservedEvent("product-1", 2, 3)

	if err := producer.PublishEvent(TopicStockEvents, "product-1", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderCreatedEvent(t *testing.T) {
	event := NewOrderCreatedEvent("order-1", "buyer-1", 450, 2)

	if event.EventType != EventTypeOrderCreated {
		t.Fatalf("event type = %s, want %s", event.EventType, EventTypeOrderCreated)
	}
	if event.OrderID != "order-1" || event.BuyerID != "buyer-1" {
		t.Fatalf("unexpected identifiers: %+v", event)
	}
	if event.AmountMinor != 450 || event.ItemsCount != 2 {
		t.Fatalf("unexpected payload: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}
}
