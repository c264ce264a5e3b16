// Package metrics собирает счётчики Prometheus для HTTP и доменных операций.
// Все методы безопасны для nil-получателя, чтобы usecase можно было
// тестировать без реестра.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tribaldesk"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	enhancements        *prometheus.CounterVec
	enhancementFailures *prometheus.CounterVec
	docxExports         prometheus.Counter
	chatRequests        *prometheus.CounterVec
	grantMutations      *prometheus.CounterVec
	subscriptions       *prometheus.CounterVec
	wsClients           prometheus.Gauge
}

// New регистрирует метрики в собственном реестре.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		enhancements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_enhancements_total",
			Help:      "Proposal drafts by enhancement outcome (skipped, applied, failed).",
		}, []string{"outcome"}),
		enhancementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_enhancement_failures_total",
			Help:      "Failed enhancement calls by reason.",
		}, []string{"reason"}),
		docxExports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_docx_exports_total",
			Help:      "Generated .docx documents.",
		}),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		grantMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grant_mutations_total",
			Help:      "Grant tracker changes by action.",
		}, []string{"action"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Email subscriptions by result (new, duplicate).",
		}, []string{"result"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Connected WebSocket clients.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.enhancements,
		m.enhancementFailures,
		m.docxExports,
		m.chatRequests,
		m.grantMutations,
		m.subscriptions,
		m.wsClients,
	)
	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр (для тестов и дополнительных коллекторов).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) EnhancementSkipped() {
	if m == nil {
		return
	}
	m.enhancements.WithLabelValues("skipped").Inc()
}

func (m *Metrics) EnhancementApplied() {
	if m == nil {
		return
	}
	m.enhancements.WithLabelValues("applied").Inc()
}

// EnhancementFailed учитывает один сбой улучшения с причиной.
func (m *Metrics) EnhancementFailed(reason string) {
	if m == nil {
		return
	}
	m.enhancements.WithLabelValues("failed").Inc()
	m.enhancementFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) DocxExported() {
	if m == nil {
		return
	}
	m.docxExports.Inc()
}

func (m *Metrics) ChatCompleted(mode string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.chatRequests.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) GrantMutation(action string) {
	if m == nil {
		return
	}
	m.grantMutations.WithLabelValues(action).Inc()
}

func (m *Metrics) Subscription(created bool) {
	if m == nil {
		return
	}
	result := "duplicate"
	if created {
		result = "new"
	}
	m.subscriptions.WithLabelValues(result).Inc()
}

func (m *Metrics) WSClientConnected() {
	if m == nil {
		return
	}
	m.wsClients.Inc()
}

func (m *Metrics) WSClientDisconnected() {
	if m == nil {
		return
	}
	m.wsClients.Dec()
}
