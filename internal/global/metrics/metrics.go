// Package metrics 汇总 Prometheus 指标，/metrics 由 ping 模块暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fest_http_requests_total",
		Help: "HTTP 请求数",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fest_http_request_duration_seconds",
		Help:    "HTTP 请求耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	JudgmentsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fest_judgments_submitted_total",
		Help: "评委提交（含更新）的评分次数",
	})

	ResultPublications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fest_result_publications_total",
		Help: "成绩发布/撤回次数",
	}, []string{"action"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fest_cache_lookups_total",
		Help: "排行榜与统计缓存命中情况",
	}, []string{"result"})
)
