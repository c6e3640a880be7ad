package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the
// planning engine and the HTTP surface.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	plansGenerated  prometheus.Counter
	entriesPlaced   prometheus.Counter
	entriesSkipped  *prometheus.CounterVec
	approvals       prometheus.Counter
	swapMoves       prometheus.Histogram
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	plansGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "day_plans_generated_total",
		Help: "Total day plan generation runs",
	})

	entriesPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "day_plan_entries_placed_total",
		Help: "Total entries placed by the day planner",
	})

	entriesSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "day_plan_entries_skipped_total",
		Help: "Total template slots the day planner dropped",
	}, []string{"reason"})

	approvals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "day_plan_approvals_total",
		Help: "Total day plan approvals",
	})

	swapMoves := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "room_swap_chain_length",
		Help:    "Number of moves in executed room swap chains",
		Buckets: []float64{1, 2, 3, 5, 8},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, plansGenerated, entriesPlaced, entriesSkipped, approvals, swapMoves, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		plansGenerated:  plansGenerated,
		entriesPlaced:   entriesPlaced,
		entriesSkipped:  entriesSkipped,
		approvals:       approvals,
		swapMoves:       swapMoves,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObservePlanGeneration records one day plan generation run.
func (m *MetricsService) ObservePlanGeneration(placed int, skippedByReason map[string]int) {
	if m == nil {
		return
	}
	m.plansGenerated.Inc()
	m.entriesPlaced.Add(float64(placed))
	for reason, count := range skippedByReason {
		m.entriesSkipped.WithLabelValues(reason).Add(float64(count))
	}
}

// ObserveApproval records one approved day plan.
func (m *MetricsService) ObserveApproval() {
	if m == nil {
		return
	}
	m.approvals.Inc()
}

// ObserveSwapChain records the length of an executed swap chain.
func (m *MetricsService) ObserveSwapChain(moves int) {
	if m == nil {
		return
	}
	m.swapMoves.Observe(float64(moves))
}
