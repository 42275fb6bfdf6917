package observability

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Metrics Sink and Spans
// =============================================================================

// Metric is one recorded operation measurement.
type Metric struct {
	Operation string         `json:"operation"`
	ID        string         `json:"id"` // unique per invocation
	Duration  time.Duration  `json:"duration"`
	Fields    map[string]any `json:"fields,omitempty"`
	At        time.Time      `json:"at"`
}

// MetricsSink receives operation measurements. Implementations must tolerate
// concurrent calls.
type MetricsSink interface {
	Record(m Metric)
}

// Span measures one operation from StartSpan to End. Spans are explicit and
// scoped to the call site; there is no implicit method wrapping.
type Span struct {
	op    string
	id    string
	start time.Time
	sink  MetricsSink
}

// StartSpan opens a span for the named operation, assigning it a unique ID.
// A nil sink records to the default monitor.
func StartSpan(op string, sink MetricsSink) *Span {
	if sink == nil {
		sink = Default()
	}
	return &Span{
		op:    op,
		id:    uuid.NewString(),
		start: time.Now(),
		sink:  sink,
	}
}

// ID returns the span's unique operation ID.
func (s *Span) ID() string { return s.id }

// End closes the span, recording its duration and any extra fields.
func (s *Span) End(fields map[string]any) Metric {
	m := Metric{
		Operation: s.op,
		ID:        s.id,
		Duration:  time.Since(s.start),
		Fields:    fields,
		At:        s.start,
	}
	s.sink.Record(m)
	return m
}

// =============================================================================
// Monitor - Append-only Metric Store
// =============================================================================

// Monitor is an append-only metrics sink that accumulates measurements for
// diagnostic reporting. It is safe for concurrent use; the core algorithms
// it observes carry no shared state of their own.
type Monitor struct {
	mu      sync.Mutex
	metrics []Metric
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor { return &Monitor{} }

// Record appends a metric.
func (m *Monitor) Record(metric Metric) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, metric)
}

// Metrics returns a copy of all recorded metrics.
func (m *Monitor) Metrics() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Metric, len(m.metrics))
	copy(out, m.metrics)
	return out
}

// Summary aggregates total and average duration per operation.
func (m *Monitor) Summary() map[string]OperationSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]OperationSummary)
	for _, metric := range m.metrics {
		s := out[metric.Operation]
		s.Count++
		s.Total += metric.Duration
		if metric.Duration > s.Max {
			s.Max = metric.Duration
		}
		out[metric.Operation] = s
	}
	for op, s := range out {
		s.Avg = s.Total / time.Duration(s.Count)
		out[op] = s
	}
	return out
}

// OperationSummary aggregates metrics for one operation name.
type OperationSummary struct {
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
	Avg   time.Duration `json:"avg"`
	Max   time.Duration `json:"max"`
}

// defaultMonitor is the optional process-wide monitor singleton.
var (
	defaultMonitor     *Monitor
	defaultMonitorOnce sync.Once
)

// Default returns the process-wide monitor, creating it on first use.
func Default() *Monitor {
	defaultMonitorOnce.Do(func() {
		defaultMonitor = NewMonitor()
	})
	return defaultMonitor
}
