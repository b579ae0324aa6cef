// metrics описывает Prometheus-коллекторы ИнфоМонитора.
// Все методы безопасны для nil-получателя: сервисы без метрик просто не пишут их.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "infomonitor"

// Metrics — набор коллекторов агрегатора, сессий и рассылки.
type Metrics struct {
	fetches    *prometheus.CounterVec
	fetchDur   *prometheus.HistogramVec
	sessions   *prometheus.CounterVec
	deliveries *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg.
// nil reg — регистрация в prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by source and result.",
		}, []string{"source", "result"}),
		fetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Feed fetch latency by source.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Pagination session events by kind.",
		}, []string{"event"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_deliveries_total",
			Help:      "Daily digest deliveries by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.fetches, m.fetchDur, m.sessions, m.deliveries)
	return m
}

// ObserveFetch учитывает результат загрузки одного источника.
func (m *Metrics) ObserveFetch(source string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.fetches.WithLabelValues(source, result).Inc()
	m.fetchDur.WithLabelValues(source).Observe(elapsed.Seconds())
}

// SessionEvent учитывает событие сессии (start, advance, retreat, render, expired, evicted).
func (m *Metrics) SessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

// SessionEvicted учитывает n вытесненных по TTL сессий.
func (m *Metrics) SessionEvicted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessions.WithLabelValues("evicted").Add(float64(n))
}

// Delivery учитывает попытку доставки дайджеста одному подписчику.
func (m *Metrics) Delivery(err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.deliveries.WithLabelValues("failed").Inc()
		return
	}
	m.deliveries.WithLabelValues("delivered").Inc()
}
