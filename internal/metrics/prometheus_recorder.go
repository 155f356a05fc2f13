package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "recipebook"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generationDuration *prom.HistogramVec
	generationResults  *prom.CounterVec
	cacheResults       *prom.CounterVec
	discoveredRoutes   prom.Gauge
	revalidations      *prom.CounterVec
	httpDuration       *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		generationDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of page generations by kind",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		generationResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_results_total",
			Help:      "Page generation results by kind and outcome",
		}, []string{"kind", "outcome"}),
		cacheResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_results_total",
			Help:      "Requests answered per page cache state",
		}, []string{"state"}),
		discoveredRoutes: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "discovered_routes",
			Help:      "Number of recipe routes found by the last discovery",
		}),
		revalidations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "revalidations_total",
			Help:      "Regenerations started, by trigger",
		}, []string{"trigger"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Site request latency by method and status",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(pr.generationDuration, pr.generationResults, pr.cacheResults,
		pr.discoveredRoutes, pr.revalidations, pr.httpDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveGeneration(kind string, d time.Duration, outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.generationDuration.WithLabelValues(kind).Observe(d.Seconds())
	p.generationResults.WithLabelValues(kind, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCacheResult(state CacheStateLabel) {
	if p == nil {
		return
	}
	p.cacheResults.WithLabelValues(string(state)).Inc()
}

func (p *PrometheusRecorder) SetDiscoveredRoutes(n int) {
	if p == nil {
		return
	}
	p.discoveredRoutes.Set(float64(n))
}

func (p *PrometheusRecorder) IncRevalidation(trigger string) {
	if p == nil {
		return
	}
	p.revalidations.WithLabelValues(trigger).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}
