package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal HTTP 请求总数
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdftr_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// httpRequestDuration HTTP 请求耗时
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdftr_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// translationsTotal 按端点与结果统计翻译次数
	translationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdftr_translations_total",
			Help: "Translations by endpoint and outcome (ok or error kind).",
		},
		[]string{"endpoint", "outcome"},
	)
)

// Metrics 收集 HTTP 指标。路由模板作为标签，未匹配的路由归为 "unmatched"
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTranslation 记录一次翻译结果
func RecordTranslation(endpoint, outcome string) {
	translationsTotal.WithLabelValues(endpoint, outcome).Inc()
}
