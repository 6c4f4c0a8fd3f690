package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harx/gig-wizard-api/internal/models"
)

// MetricsService owns the Prometheus registry and keeps running totals for the JSON snapshot.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheLookups    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	normalizations  *prometheus.CounterVec
	skillsDropped   *prometheus.CounterVec
	catalogLoads    *prometheus.CounterVec
	gigsPublished   prometheus.Counter
	briefJobs       *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	normalizationCount   uint64
	droppedCount         uint64
	publishedCount       uint64
}

// NewMetricsService registers the API collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_cache_latency_seconds",
			Help:    "Latency of catalog cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_cache_write_seconds",
			Help:    "Latency of catalog cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_cache_hit_ratio",
			Help: "Ratio of catalog cache hits to lookups",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		}, []string{"result"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		normalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_normalizations_total",
			Help: "Normalization passes by collection and outcome",
		}, []string{"collection", "outcome"}),
		skillsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skill_entries_dropped_total",
			Help: "Skill and language entries dropped because they did not resolve",
		}, []string{"collection"}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog loads by catalog and result",
		}, []string{"catalog", "result"}),
		gigsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gigs_published_total",
			Help: "Gigs moved from draft to published",
		}),
		briefJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brief_jobs_total",
			Help: "Brief export jobs by result",
		}, []string{"result"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheHitRatio, m.cacheLookups,
		m.dbQueryDuration, m.normalizations, m.skillsDropped, m.catalogLoads, m.gigsPublished, m.briefJobs,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks cache write latency.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordNormalization counts one normalization pass over a collection.
func (m *MetricsService) RecordNormalization(collection string, changed bool, dropped int) {
	if m == nil {
		return
	}
	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	m.normalizations.WithLabelValues(collection, outcome).Inc()
	atomic.AddUint64(&m.normalizationCount, 1)
	if dropped > 0 {
		m.skillsDropped.WithLabelValues(collection).Add(float64(dropped))
		atomic.AddUint64(&m.droppedCount, uint64(dropped))
	}
}

// RecordCatalogLoad counts a catalog fetch.
func (m *MetricsService) RecordCatalogLoad(catalog string, loaded bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !loaded {
		result = "failed"
	}
	m.catalogLoads.WithLabelValues(catalog, result).Inc()
}

// RecordPublish counts a published gig.
func (m *MetricsService) RecordPublish() {
	if m == nil {
		return
	}
	m.gigsPublished.Inc()
	atomic.AddUint64(&m.publishedCount, 1)
}

// RecordBriefJob counts a finished brief export.
func (m *MetricsService) RecordBriefJob(success bool) {
	if m == nil {
		return
	}
	result := "ready"
	if !success {
		result = "failed"
	}
	m.briefJobs.WithLabelValues(result).Inc()
}

// Snapshot returns aggregated totals for the JSON metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            ratio,
		NormalizationRuns:        atomic.LoadUint64(&m.normalizationCount),
		SkillEntriesDropped:      atomic.LoadUint64(&m.droppedCount),
		GigsPublished:            atomic.LoadUint64(&m.publishedCount),
		Goroutines:               runtime.NumGoroutine(),
	}
}
