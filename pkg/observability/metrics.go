package observability

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// Metrics records counters, gauges, histograms and timings. Tags become
// labels; implementations treat tag order as insignificant.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag is one metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Histogram(string, float64, ...Tag)    {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps every sample in memory. Used by tests.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	samples  map[string][]float64 // histograms and timings (seconds)
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	m := &InMemoryMetrics{}
	m.Reset()
	return m
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[formatKey(name, tags)] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.samples[key] = append(m.samples[key], value)
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.Histogram(name, duration.Seconds(), tags...)
}

// GetCounter returns the counter total for name and tags.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

// GetGauge returns the last gauge value.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[formatKey(name, tags)]
}

// GetSamples returns a copy of the histogram or timing samples.
func (m *InMemoryMetrics) GetSamples(name string, tags ...Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.samples[formatKey(name, tags)])
}

// Reset drops everything recorded so far.
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
	m.gauges = make(map[string]float64)
	m.samples = make(map[string][]float64)
}

// formatKey renders name{k=v,...} with keys sorted.
func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := slices.Clone(tags)
	slices.SortFunc(sorted, func(a, b Tag) int { return strings.Compare(a.Key, b.Key) })

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Metric names recorded by slotwise.
const (
	MetricOperationTotal    = "slotwise.operation.total"
	MetricOperationDuration = "slotwise.operation.duration"
	MetricOperationErrors   = "slotwise.operation.errors"

	// Slot computation
	MetricSlotRequests    = "slotwise.slots.requests"
	MetricSlotCandidates  = "slotwise.slots.candidates"
	MetricSlotEvaluated   = "slotwise.slots.evaluated"
	MetricSlotEmpty       = "slotwise.slots.empty"
	MetricSlotWidened     = "slotwise.slots.widened"
	MetricServiceInferred = "slotwise.slots.service_inferred"

	// Busy-event providers
	MetricProviderCalls    = "slotwise.provider.calls"
	MetricProviderErrors   = "slotwise.provider.errors"
	MetricProviderEvents   = "slotwise.provider.events"
	MetricProviderDuration = "slotwise.provider.duration"
	MetricBreakerState     = "slotwise.provider.breaker_state"

	// Profile store
	MetricDBQueries       = "slotwise.db.queries"
	MetricDBQueryDuration = "slotwise.db.query_duration"
)
