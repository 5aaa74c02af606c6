// metrics — Prometheus-метрики gift-service.
// Все коллекторы регистрируются в переданном Registry (в main — общий, в тестах — свежий).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты обращения к кэшу аналитики.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	ImportsCreated   prometheus.Counter
	CitizensImported prometheus.Counter
	CitizensPatched  prometheus.Counter
	CacheRequests    *prometheus.CounterVec
}

// New создаёт и регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gift_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gift_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route pattern.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		ImportsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "gift_imports_created_total",
			Help: "Imports successfully stored.",
		}),
		CitizensImported: f.NewCounter(prometheus.CounterOpts{
			Name: "gift_citizens_imported_total",
			Help: "Citizens stored by successful imports.",
		}),
		CitizensPatched: f.NewCounter(prometheus.CounterOpts{
			Name: "gift_citizens_patched_total",
			Help: "Successful citizen updates.",
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gift_stats_cache_requests_total",
			Help: "Analytics cache lookups by kind and result.",
		}, []string{"kind", "result"}),
	}
}

// ObserveHTTP фиксирует завершённый HTTP-запрос.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// ImportCreated фиксирует успешную выгрузку из n жителей.
func (m *Metrics) ImportCreated(n int) {
	m.ImportsCreated.Inc()
	m.CitizensImported.Add(float64(n))
}

func (m *Metrics) CitizenPatched() {
	m.CitizensPatched.Inc()
}

// CacheLookup фиксирует обращение к кэшу; kind — без даты (birthdays/ages).
func (m *Metrics) CacheLookup(kind, result string) {
	m.CacheRequests.WithLabelValues(kind, result).Inc()
}
