// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减的累计值，如导入图书总数
//   - Gauge（仪表盘）：可增可减的瞬时值，如正在处理的请求数
//   - Histogram（直方图）：观测值分布，如单本图书导入耗时
//
// # 使用示例
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := importer.Execute(ctx, req)
//	metrics.RecordBookImport("openlibrary", err, time.Since(start))
//
// # 命名规范
//
//  1. Counter以`_total`结尾：`catalog_books_imported_total`
//  2. Histogram以单位结尾：`catalog_import_duration_seconds`
//  3. 标签只使用有限取值（source、result、kind），不要用book_id做标签
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var (
	// initOnce 防止重复注册到默认Registry
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 目录业务指标

	// BooksImportedTotal 图书导入次数（Counter）
	// 标签：source（openlibrary/direct）、result（success/duplicate/missing_fields/error）
	BooksImportedTotal *prometheus.CounterVec

	// ImportDuration 单本图书导入耗时（Histogram）
	ImportDuration prometheus.Histogram

	// BooksDeletedTotal 图书删除次数（Counter）
	// 标签：result（success/not_found/error）
	BooksDeletedTotal *prometheus.CounterVec

	// OrphansCollectedTotal 级联删除的孤儿作者/作品数（Counter）
	// 标签：kind（author/work）
	OrphansCollectedTotal *prometheus.CounterVec

	// CacheLookupsTotal 视图缓存查询次数（Counter）
	// 标签：result（hit/miss/error）
	CacheLookupsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 可以多次调用，只有第一次会注册
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BooksImportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_books_imported_total",
			Help: "图书导入次数",
		},
		[]string{"source", "result"},
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "catalog_import_duration_seconds",
			Help: "单本图书导入耗时（秒）",
			// 外部拉取不计入，只统计事务部分
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	BooksDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_books_deleted_total",
			Help: "图书删除次数",
		},
		[]string{"result"},
	)

	OrphansCollectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_orphans_collected_total",
			Help: "级联删除的孤儿作者/作品数",
		},
		[]string{"kind"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "视图缓存查询次数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// =========================================
// 业务指标记录
// =========================================

// ResultLabel 把错误归类为有限的result标签值
// 只认识通用错误码，领域错误码由调用方自行映射
func ResultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeDuplicateBook:
			return "duplicate"
		case apperrors.ErrCodeMissingFields, apperrors.ErrCodeInvalidPages:
			return "missing_fields"
		case apperrors.ErrCodeBookNotFound:
			return "not_found"
		case apperrors.ErrCodeFetchError:
			return "fetch_error"
		}
	}
	return "error"
}

// RecordBookImport 记录一次图书导入
func RecordBookImport(source string, err error, elapsed time.Duration) {
	InitMetrics()
	BooksImportedTotal.With(prometheus.Labels{"source": source, "result": ResultLabel(err)}).Inc()
	ImportDuration.Observe(elapsed.Seconds())
}

// RecordBookDelete 记录一次图书删除以及被回收的孤儿数量
func RecordBookDelete(err error, authorsCollected, worksCollected int) {
	InitMetrics()
	BooksDeletedTotal.With(prometheus.Labels{"result": ResultLabel(err)}).Inc()
	if authorsCollected > 0 {
		OrphansCollectedTotal.With(prometheus.Labels{"kind": "author"}).Add(float64(authorsCollected))
	}
	if worksCollected > 0 {
		OrphansCollectedTotal.With(prometheus.Labels{"kind": "work"}).Add(float64(worksCollected))
	}
}

// RecordCacheLookup 记录一次缓存查询（hit/miss/error）
func RecordCacheLookup(result string) {
	InitMetrics()
	CacheLookupsTotal.With(prometheus.Labels{"result": result}).Inc()
}

// RecordBreaker 记录熔断器请求结果与当前状态
func RecordBreaker(name, result string, state int) {
	InitMetrics()
	CircuitBreakerRequests.With(prometheus.Labels{"name": name, "result": result}).Inc()
	CircuitBreakerState.With(prometheus.Labels{"name": name}).Set(float64(state))
}

// RecordPublish 记录一次消息发布
func RecordPublish(exchange, routingKey string) {
	InitMetrics()
	MessagesPublishedTotal.With(prometheus.Labels{"exchange": exchange, "routing_key": routingKey}).Inc()
}

// =========================================
// 辅助函数
// =========================================

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
