package service

import (
	"sync"
	"time"

	"entropyd/go-core/pkg/models"
)

type opMetric struct {
	count   int
	errors  int
	totalNs int64
	maxNs   int64
	lastNs  int64
}

// MetricsState tracks per-operation latency and error counts. Derivations
// are sub-millisecond, so latencies are reported in microseconds.
type MetricsState struct {
	mu            sync.RWMutex
	opMetrics     map[string]*opMetric
	lastUpdatedAt time.Time
}

func NewMetricsState() *MetricsState {
	return &MetricsState{opMetrics: map[string]*opMetric{}}
}

func (m *MetricsState) RecordOp(operation string, started time.Time) {
	latency := time.Since(started).Nanoseconds()
	m.mu.Lock()
	defer m.mu.Unlock()
	metric, ok := m.opMetrics[operation]
	if !ok {
		metric = &opMetric{}
		m.opMetrics[operation] = metric
	}
	metric.count++
	metric.totalNs += latency
	metric.lastNs = latency
	if latency > metric.maxNs {
		metric.maxNs = latency
	}
	m.lastUpdatedAt = time.Now().UTC()
}

func (m *MetricsState) RecordOpError(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metric, ok := m.opMetrics[operation]
	if !ok {
		metric = &opMetric{}
		m.opMetrics[operation] = metric
	}
	metric.errors++
	m.lastUpdatedAt = time.Now().UTC()
}

func (m *MetricsState) Snapshot() (map[string]models.OperationMetric, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]models.OperationMetric, len(m.opMetrics))
	for name, metric := range m.opMetrics {
		avg := int64(0)
		if metric.count > 0 {
			avg = metric.totalNs / int64(metric.count) / int64(time.Microsecond)
		}
		out[name] = models.OperationMetric{
			Count:         metric.count,
			Errors:        metric.errors,
			AvgLatencyUs:  avg,
			MaxLatencyUs:  metric.maxNs / int64(time.Microsecond),
			LastLatencyUs: metric.lastNs / int64(time.Microsecond),
		}
	}
	return out, m.lastUpdatedAt
}
