package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics содержит метрики операций магазина.
type ShopMetrics struct {
	// Счётчики заказов
	ordersPlaced  prometheus.Counter
	ordersFailed  prometheus.Counter
	ordersRemoved prometheus.Counter

	// Гистограммы времени выполнения
	placementDuration prometheus.Histogram
	opDuration        *prometheus.HistogramVec

	// Счётчик событий outbox
	outboxEvents prometheus.Counter
}

// NewShopMetrics создаёт новый экземпляр метрик магазина.
func NewShopMetrics() *ShopMetrics {
	return newShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "webshop_orders_placed_total",
			Help: "Total number of orders placed successfully",
		}),
		ordersFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "webshop_orders_failed_total",
			Help: "Total number of order placements that failed",
		}),
		ordersRemoved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "webshop_orders_removed_total",
			Help: "Total number of orders removed",
		}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "webshop_order_placement_duration_seconds",
			Help:    "Duration of order placement in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		opDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "webshop_operation_duration_seconds",
			Help:    "Duration of individual shop operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "webshop_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик успешно размещённых заказов.
func (m *ShopMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderFailed увеличивает счётчик неудачных размещений.
func (m *ShopMetrics) RecordOrderFailed() {
	m.ordersFailed.Inc()
}

// RecordOrderRemoved увеличивает счётчик удалённых заказов.
func (m *ShopMetrics) RecordOrderRemoved() {
	m.ordersRemoved.Inc()
}

// RecordPlacementDuration записывает время размещения заказа.
func (m *ShopMetrics) RecordPlacementDuration(duration time.Duration) {
	m.placementDuration.Observe(duration.Seconds())
}

// RecordOperationDuration записывает время выполнения операции магазина.
func (m *ShopMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOutboxEvent увеличивает счётчик поставленных в outbox событий.
func (m *ShopMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
