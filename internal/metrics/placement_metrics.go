package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PlacementMetrics содержит метрики оформления заказов.
type PlacementMetrics struct {
	// Счётчики исходов
	ordersPlaced    prometheus.Counter
	placementFailed *prometheus.CounterVec

	// Гистограммы времени выполнения
	placementDuration prometheus.Histogram
	itemDuration      *prometheus.HistogramVec

	// События
	eventsPublished prometheus.Counter
}

// Причины отказа для метрики placementFailed.
const (
	FailReasonValidation   = "validation"
	FailReasonNotFound     = "not_found"
	FailReasonInsufficient = "insufficient_stock"
	FailReasonUpstream     = "upstream"
	FailReasonStorage      = "storage"
)

// NewPlacementMetrics создаёт новый экземпляр метрик оформления заказов.
func NewPlacementMetrics() *PlacementMetrics {
	return newPlacementMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newPlacementMetricsWithRegisterer(registerer prometheus.Registerer) *PlacementMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &PlacementMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		placementFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_placement_failed_total",
			Help: "Total number of failed order placements by reason",
		}, []string{"reason"}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_placement_duration_seconds",
			Help:    "Duration of full order placement calls in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		itemDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_placement_item_duration_seconds",
			Help:    "Duration of per-item catalog round trips in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"call"}),
		eventsPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orders_events_published_total",
			Help: "Total number of order events published to the broker",
		}),
	}
}

// RecordOrderPlaced увеличивает счётчик успешно оформленных заказов.
func (m *PlacementMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordPlacementFailed увеличивает счётчик отказов по причине.
func (m *PlacementMetrics) RecordPlacementFailed(reason string) {
	m.placementFailed.WithLabelValues(reason).Inc()
}

// RecordPlacementDuration записывает время полного оформления заказа.
func (m *PlacementMetrics) RecordPlacementDuration(duration time.Duration) {
	m.placementDuration.Observe(duration.Seconds())
}

// RecordItemCall записывает время одного обращения к каталогу ("fetch"/"reserve").
func (m *PlacementMetrics) RecordItemCall(call string, duration time.Duration) {
	m.itemDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// RecordEventPublished увеличивает счётчик опубликованных событий.
func (m *PlacementMetrics) RecordEventPublished() {
	m.eventsPublished.Inc()
}
