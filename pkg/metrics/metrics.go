package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBTransactionsTotal *prometheus.CounterVec

	// Бизнес-метрики
	LeaseAcquisitions  *prometheus.CounterVec
	LeaseSweeps        prometheus.Counter
	LockTimeouts       prometheus.Counter
	BookingsCreated    *prometheus.CounterVec
	BookingsCancelled  prometheus.Counter
	PaymentTransitions *prometheus.CounterVec
	PricingMismatches  prometheus.Counter
	RefundsComputed    *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
}

// New регистрирует метрики в указанном registry
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: labels,
		}),
		DBInUseConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: labels,
		}),
		DBIdleConnections: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: labels,
		}),
		DBWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		DBTransactionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Database transactions by outcome",
			ConstLabels: labels,
		}, []string{"result"}),

		LeaseAcquisitions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "lease_acquisitions_total",
			Help:        "Slot lease acquisition attempts by result",
			ConstLabels: labels,
		}, []string{"result"}),
		LeaseSweeps: f.NewCounter(prometheus.CounterOpts{
			Name:        "lease_swept_total",
			Help:        "Expired leases removed by the sweeper",
			ConstLabels: labels,
		}),
		LockTimeouts: f.NewCounter(prometheus.CounterOpts{
			Name:        "slot_lock_timeouts_total",
			Help:        "Slot lock waits that exceeded the configured bound",
			ConstLabels: labels,
		}),
		BookingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings created by duration tier",
			ConstLabels: labels,
		}, []string{"tier"}),
		BookingsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_cancelled_total",
			Help:        "Bookings cancelled by clients",
			ConstLabels: labels,
		}),
		PaymentTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_transitions_total",
			Help:        "Payment status transitions",
			ConstLabels: labels,
		}, []string{"status"}),
		PricingMismatches: f.NewCounter(prometheus.CounterOpts{
			Name:        "pricing_mismatches_total",
			Help:        "Preview amounts that differed from the computed amount",
			ConstLabels: labels,
		}),
		RefundsComputed: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "refunds_computed_total",
			Help:        "Refund decisions by percentage",
			ConstLabels: labels,
		}, []string{"percentage"}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "events_published_total",
			Help:        "Lifecycle events published by routing key and result",
			ConstLabels: labels,
		}, []string{"routing_key", "result"}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncDBTransaction фиксирует завершение транзакции (commit или rollback)
func (m *Metrics) IncDBTransaction(result string) {
	if m == nil {
		return
	}
	m.DBTransactionsTotal.WithLabelValues(result).Inc()
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
	m.DBIdleConnections.Set(float64(idle))
	m.DBWaitCount.Set(float64(waitCount))
}

// IncLeaseAcquisition фиксирует попытку захвата слота
// result: acquired, refreshed, rejected, timeout
func (m *Metrics) IncLeaseAcquisition(result string) {
	if m == nil {
		return
	}
	m.LeaseAcquisitions.WithLabelValues(result).Inc()
}

// AddLeasesSwept фиксирует количество удаленных просроченных лизов
func (m *Metrics) AddLeasesSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LeaseSweeps.Add(float64(n))
}

// IncLockTimeout фиксирует превышение ожидания блокировки слота
func (m *Metrics) IncLockTimeout() {
	if m == nil {
		return
	}
	m.LockTimeouts.Inc()
}

// IncBookingCreated фиксирует созданное бронирование
func (m *Metrics) IncBookingCreated(tier string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(tier).Inc()
}

// IncBookingCancelled фиксирует отмену бронирования
func (m *Metrics) IncBookingCancelled() {
	if m == nil {
		return
	}
	m.BookingsCancelled.Inc()
}

// IncPaymentTransition фиксирует изменение статуса оплаты
func (m *Metrics) IncPaymentTransition(status string) {
	if m == nil {
		return
	}
	m.PaymentTransitions.WithLabelValues(status).Inc()
}

// IncPricingMismatch фиксирует расхождение цены с предпросмотром
func (m *Metrics) IncPricingMismatch() {
	if m == nil {
		return
	}
	m.PricingMismatches.Inc()
}

// IncRefundComputed фиксирует решение о возврате
func (m *Metrics) IncRefundComputed(percentage int) {
	if m == nil {
		return
	}
	m.RefundsComputed.WithLabelValues(strconv.Itoa(percentage)).Inc()
}

// IncEventPublished фиксирует публикацию события
func (m *Metrics) IncEventPublished(routingKey string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(routingKey, result).Inc()
}
