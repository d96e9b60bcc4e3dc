package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: при выключенных метриках просто ничего не делают
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBErrorsTotal   *prometheus.CounterVec

	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	SlotComputationDuration *prometheus.HistogramVec
	BookingAttemptsTotal    *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total number of failed database operations",
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		SlotComputationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_computation_duration_seconds",
			Help:    "Time spent computing available slots",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25},
		}, []string{"service"}),

		BookingAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Booking attempts by outcome (success, conflict, rejected, error)",
		}, []string{"service", "operation", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBErrorsTotal,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.SlotComputationDuration,
		m.BookingAttemptsTotal,
	)

	return m
}

// Handler HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry реестр метрик (для тестов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveSlotComputation фиксирует время расчета слотов
func (m *Metrics) ObserveSlotComputation(serviceName string, d time.Duration) {
	if m == nil {
		return
	}
	m.SlotComputationDuration.WithLabelValues(serviceName).Observe(d.Seconds())
}

// IncBookingAttempt фиксирует исход попытки бронирования
func (m *Metrics) IncBookingAttempt(serviceName, operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingAttemptsTotal.WithLabelValues(serviceName, operation, outcome).Inc()
}

// ObserveDBQuery фиксирует длительность и результат запроса к БД
func (m *Metrics) ObserveDBQuery(serviceName, operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(serviceName, operation).Observe(d.Seconds())
	if err != nil {
		m.DBErrorsTotal.WithLabelValues(serviceName, operation).Inc()
	}
}

// ObserveHTTPRequest фиксирует HTTP запрос по шаблону маршрута
func (m *Metrics) ObserveHTTPRequest(serviceName, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(serviceName, method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(serviceName, method, route).Observe(d.Seconds())
}
