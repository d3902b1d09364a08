package observability

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics implements Metrics on a Prometheus registry. Collectors are
// created on first use; a metric name keeps the label keys it was first seen with
// and samples carrying a different key set are dropped.
type PrometheusMetrics struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
	dropped    prometheus.Counter
}

// NewPrometheusMetrics creates a collector backed by its own registry.
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	m := &PrometheusMetrics{
		namespace:  namespace,
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_dropped_total",
			Help:      "Samples dropped because their labels did not match the metric.",
		}),
	}
	reg.MustRegister(m.dropped)
	return m
}

// Registry exposes the underlying registry.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PrometheusMetrics) Counter(name string, value int64, tags ...Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      metricName(name) + "_total",
			Help:      name,
		}, keys)
		if !m.register(name, keys, vec) {
			return
		}
		m.counters[name] = vec
	}
	if !m.sameLabels(name, keys) {
		return
	}
	vec.WithLabelValues(values...).Add(float64(value))
}

func (m *PrometheusMetrics) Gauge(name string, value float64, tags ...Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      metricName(name),
			Help:      name,
		}, keys)
		if !m.register(name, keys, vec) {
			return
		}
		m.gauges[name] = vec
	}
	if !m.sameLabels(name, keys) {
		return
	}
	vec.WithLabelValues(values...).Set(value)
}

func (m *PrometheusMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.observe(name, metricName(name), prometheus.ExponentialBuckets(1, 2, 10), value, tags)
}

// Timing records durations in seconds.
func (m *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.observe(name, metricName(name)+"_seconds", prometheus.DefBuckets, duration.Seconds(), tags)
}

func (m *PrometheusMetrics) observe(name, promName string, buckets []float64, value float64, tags []Tag) {
	keys, values := splitTags(tags)
	m.mu.Lock()
	defer m.mu.Unlock()

	vec, ok := m.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      promName,
			Help:      name,
			Buckets:   buckets,
		}, keys)
		if !m.register(name, keys, vec) {
			return
		}
		m.histograms[name] = vec
	}
	if !m.sameLabels(name, keys) {
		return
	}
	vec.WithLabelValues(values...).Observe(value)
}

// register must be called with mu held.
func (m *PrometheusMetrics) register(name string, keys []string, c prometheus.Collector) bool {
	if err := m.registry.Register(c); err != nil {
		m.dropped.Inc()
		return false
	}
	m.labels[name] = keys
	return true
}

func (m *PrometheusMetrics) sameLabels(name string, keys []string) bool {
	if slices.Equal(m.labels[name], keys) {
		return true
	}
	m.dropped.Inc()
	return false
}

// splitTags sorts tags by key so label order is stable.
func splitTags(tags []Tag) ([]string, []string) {
	sorted := slices.Clone(tags)
	slices.SortStableFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })
	keys := make([]string, len(sorted))
	values := make([]string, len(sorted))
	for i, t := range sorted {
		keys[i] = metricName(t.Key)
		values[i] = t.Value
	}
	return keys, values
}

// metricName maps dotted names to Prometheus identifiers.
func metricName(name string) string {
	name = strings.TrimPrefix(name, "slotwise.")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func (m *PrometheusMetrics) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("prometheus metrics (%d counters, %d gauges, %d histograms)",
		len(m.counters), len(m.gauges), len(m.histograms))
}

var _ Metrics = (*PrometheusMetrics)(nil)
