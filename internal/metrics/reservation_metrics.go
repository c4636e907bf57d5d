package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReservationMetrics содержит метрики складских резервов каталога.
type ReservationMetrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewReservationMetrics создаёт новый экземпляр метрик резервирования.
func NewReservationMetrics() *ReservationMetrics {
	return newReservationMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newReservationMetricsWithRegisterer(registerer prometheus.Registerer) *ReservationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ReservationMetrics{
		outcomes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "catalog_reservations_total",
			Help: "Total number of stock reservation attempts by outcome",
		}, []string{"outcome"}),
		duration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "catalog_reservation_duration_seconds",
			Help:    "Duration of stock reservation operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
	}
}

// RecordOutcome увеличивает счётчик исходов резервирования.
func (m *ReservationMetrics) RecordOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

// RecordDuration записывает время операции резервирования.
func (m *ReservationMetrics) RecordDuration(duration time.Duration) {
	m.duration.Observe(duration.Seconds())
}
