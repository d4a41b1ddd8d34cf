package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа в оформлении заказа для метки reason.
const (
	RejectEmptyCart          = "empty_cart"
	RejectIncompleteShipping = "incomplete_shipping"
	RejectMissingProduct     = "missing_product"
	RejectAmountOverflow     = "amount_overflow"
	RejectStorage            = "storage"
)

// ShopMetrics содержит метрики корзины и оформления заказов.
type ShopMetrics struct {
	cartOperations *prometheus.CounterVec
	cartItems      prometheus.Gauge

	checkoutsConfirmed prometheus.Counter
	checkoutsRejected  *prometheus.CounterVec
	checkoutDuration   prometheus.Histogram
	orderTotal         prometheus.Histogram

	pricingFailures prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// NewShopMetrics регистрирует метрики в DefaultRegisterer.
func NewShopMetrics() *ShopMetrics {
	return NewShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewShopMetricsWithRegisterer регистрирует метрики в переданном registerer
// (в тестах в изолированном prometheus.NewRegistry()).
func NewShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		cartOperations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "partshop_cart_operations_total",
			Help: "Total number of cart mutations grouped by operation",
		}, []string{"op"}),
		cartItems: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "partshop_cart_items",
			Help: "Number of units currently in the cart",
		}),
		checkoutsConfirmed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "partshop_checkouts_confirmed_total",
			Help: "Total number of confirmed checkouts",
		}),
		checkoutsRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "partshop_checkouts_rejected_total",
			Help: "Total number of rejected checkouts grouped by reason",
		}, []string{"reason"}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "partshop_checkout_duration_seconds",
			Help:    "Duration of checkout confirmation in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		orderTotal: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "partshop_order_total_jmd",
			Help:    "Distribution of confirmed order totals in JMD",
			Buckets: prometheus.ExponentialBuckets(5000, 2, 10),
		}),
		pricingFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "partshop_pricing_failures_total",
			Help: "Total number of breakdown computations that hit a missing product",
		}),
		eventsPublished: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "partshop_events_published_total",
			Help: "Total number of order events published grouped by result",
		}, []string{"result"}),
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

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
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

// RecordCartOperation увеличивает счётчик мутаций корзины (add, set_qty, remove, clear).
func (m *ShopMetrics) RecordCartOperation(op string) {
	m.cartOperations.WithLabelValues(op).Inc()
}

// ObserveCartSize выставляет gauge количества единиц в корзине.
// Сигнатура совпадает с наблюдателем размера корзины.
func (m *ShopMetrics) ObserveCartSize(count int) {
	m.cartItems.Set(float64(count))
}

// RecordCheckoutConfirmed фиксирует успешный заказ и его сумму.
func (m *ShopMetrics) RecordCheckoutConfirmed(total int64, duration time.Duration) {
	m.checkoutsConfirmed.Inc()
	m.orderTotal.Observe(float64(total))
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordCheckoutRejected увеличивает счётчик отказов с причиной.
func (m *ShopMetrics) RecordCheckoutRejected(reason string) {
	m.checkoutsRejected.WithLabelValues(reason).Inc()
}

// RecordPricingFailure увеличивает счётчик нарушений целостности корзины.
func (m *ShopMetrics) RecordPricingFailure() {
	m.pricingFailures.Inc()
}

// RecordEventPublished фиксирует результат публикации события (ok/error).
func (m *ShopMetrics) RecordEventPublished(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(result).Inc()
}
