// Package metrics 暴露 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ecofinds"

// 结算结果标签
const (
	CheckoutSuccess     = "success"
	CheckoutReplayed    = "replayed"
	CheckoutEmpty       = "empty"
	CheckoutUnavailable = "unavailable"
	CheckoutInProgress  = "in_progress"
	CheckoutError       = "error"
)

// Metrics 服务指标集合
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	Checkouts       *prometheus.CounterVec
	CheckoutItems   prometheus.Counter
	OutboxPublished *prometheus.CounterVec
	OutboxPending   prometheus.Gauge
}

// New 创建独立注册表的指标集合
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by result.",
		}, []string{"result"}),
		CheckoutItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_items_total",
			Help:      "Purchases created by successful checkouts.",
		}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_total",
			Help:      "Outbox events handled by the relay.",
		}, []string{"result"}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_pending_events",
			Help:      "Outbox events waiting to be published.",
		}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests,
		m.LatencyMS,
		m.Checkouts,
		m.CheckoutItems,
		m.OutboxPublished,
		m.OutboxPending,
	)
	return m
}

// Handler 指标输出
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCheckout 记录一次结算
func (m *Metrics) ObserveCheckout(result string, items int) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(result).Inc()
	if result == CheckoutSuccess && items > 0 {
		m.CheckoutItems.Add(float64(items))
	}
}

// ObserveOutbox 记录 relay 投递结果
func (m *Metrics) ObserveOutbox(result string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.OutboxPublished.WithLabelValues(result).Add(float64(count))
}

// SetOutboxPending 记录待投递数量
func (m *Metrics) SetOutboxPending(count int64) {
	if m == nil {
		return
	}
	m.OutboxPending.Set(float64(count))
}

// Middleware 记录 HTTP 请求数与耗时，按路由模板聚合
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}
