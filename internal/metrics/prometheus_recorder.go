package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "doclinks"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	runDuration    prom.Histogram
	runOutcome     *prom.CounterVec
	documents      *prom.CounterVec
	links          *prom.CounterVec
	externalChecks *prom.HistogramVec
	cacheHits      prom.Counter
	retries        prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete link check run",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Link check runs by final status",
		}, []string{"outcome"})
		pr.documents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Scanned documents by result",
		}, []string{"result"})
		pr.links = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Validated links by type and validity",
		}, []string{"type", "valid"})
		pr.externalChecks = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "external_check_duration_seconds",
			Help:      "Duration of live external URL checks",
			Buckets:   prom.DefBuckets,
		}, []string{"result"})
		pr.cacheHits = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "external_cache_hits_total",
			Help:      "External URL lookups answered from the per-run cache",
		})
		pr.retries = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "external_retries_total",
			Help:      "Retries of transient external check failures",
		})
		reg.MustRegister(pr.runDuration, pr.runOutcome, pr.documents, pr.links, pr.externalChecks, pr.cacheHits, pr.retries)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome ResultLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocument(result DocumentLabel) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncLink(kind string, valid bool) {
	if p == nil || p.links == nil {
		return
	}
	p.links.WithLabelValues(kind, boolLabel(valid)).Inc()
}

func (p *PrometheusRecorder) ObserveExternalCheck(d time.Duration, ok bool) {
	if p == nil || p.externalChecks == nil {
		return
	}
	res := "failed"
	if ok {
		res = "success"
	}
	p.externalChecks.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncExternalCacheHit() {
	if p == nil || p.cacheHits == nil {
		return
	}
	p.cacheHits.Inc()
}

func (p *PrometheusRecorder) IncExternalRetry() {
	if p == nil || p.retries == nil {
		return
	}
	p.retries.Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
