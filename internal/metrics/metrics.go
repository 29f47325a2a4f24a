package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 结果标签
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultFrozen   = "frozen"
)

// 结算计算类型标签
const (
	KindVendorCommission   = "vendor_commission"
	KindSupplierSettlement = "supplier_settlement"
)

// Metrics 结算服务指标集合
// 所有方法对 nil 接收者安全，未启用指标时可直接传 nil。
type Metrics struct {
	registry               *prometheus.Registry
	feeCalculations        *prometheus.CounterVec
	commissionComputations *prometheus.CounterVec
	storeHubDegraded       *prometheus.CounterVec
	httpDuration           *prometheus.HistogramVec
}

// New 创建独立 registry 并注册全部指标
func New() *Metrics {
	return newMetrics(prometheus.NewRegistry(), true)
}

func newMetrics(registry *prometheus.Registry, withRuntime bool) *Metrics {
	feeCalculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_fee_calculations_total",
		Help: "Fee calculations by result.",
	}, []string{"result"})
	commissionComputations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_commission_computations_total",
		Help: "Vendor commission and supplier settlement computations by kind and result.",
	}, []string{"kind", "result"})
	storeHubDegraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_hub_section_degraded_total",
		Help: "Store hub sections that fell back to empty values, by section and reason.",
	}, []string{"section", "reason"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "route", "status"})

	registry.MustRegister(feeCalculations, commissionComputations, storeHubDegraded, httpDuration)
	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Metrics{
		registry:               registry,
		feeCalculations:        feeCalculations,
		commissionComputations: commissionComputations,
		storeHubDegraded:       storeHubDegraded,
		httpDuration:           httpDuration,
	}
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordFeeCalculation 记录费用计算结果
func (m *Metrics) RecordFeeCalculation(result string) {
	if m == nil {
		return
	}
	m.feeCalculations.WithLabelValues(normalizeLabel(result)).Inc()
}

// RecordComputation 记录佣金 / 结算计算结果
func (m *Metrics) RecordComputation(kind, result string) {
	if m == nil {
		return
	}
	m.commissionComputations.WithLabelValues(normalizeLabel(kind), normalizeLabel(result)).Inc()
}

// RecordSectionDegraded 记录 Store Hub 分区降级
func (m *Metrics) RecordSectionDegraded(section, reason string) {
	if m == nil {
		return
	}
	m.storeHubDegraded.WithLabelValues(normalizeLabel(section), normalizeLabel(reason)).Inc()
}

// ObserveHTTPRequest 记录请求耗时，route 使用路由模板避免高基数
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if strings.TrimSpace(route) == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}
