// Package metrics defines the small metrics surface the service reports to.
// Concrete backends live in subpackages; Nop is used when metrics are off.
package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric names reported by the service.
const (
	FilesTotal             = "dataprocess_files_total"
	ColumnsTotal           = "dataprocess_columns_total"
	ConvertDurationSeconds = "dataprocess_convert_duration_seconds"
)

// Labels are metric dimensions.
type Labels map[string]string

// Backend receives counter increments and histogram observations.
// Implementations must be safe for concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Nop discards everything.
type Nop struct{}

func (Nop) IncCounter(string, float64, Labels)       {}
func (Nop) ObserveHistogram(string, float64, Labels) {}

// ObserveSince records the seconds elapsed since start.
func ObserveSince(b Backend, name string, start time.Time, labels Labels) {
	b.ObserveHistogram(name, time.Since(start).Seconds(), labels)
}

// Key renders a name and labels as "name{k=v,...}" with sorted keys.
func Key(name string, labels Labels) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
	}
	b.WriteByte('}')
	return b.String()
}

// Memory keeps totals in process.
type Memory struct {
	mu       sync.Mutex
	counters map[string]float64
	samples  map[string][]float64
}

func NewMemory() *Memory {
	return &Memory{
		counters: make(map[string]float64),
		samples:  make(map[string][]float64),
	}
}

func (m *Memory) IncCounter(name string, delta float64, labels Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[Key(name, labels)] += delta
}

func (m *Memory) ObserveHistogram(name string, value float64, labels Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := Key(name, labels)
	m.samples[k] = append(m.samples[k], value)
}

// Counter returns the total for a name and label set.
func (m *Memory) Counter(name string, labels Labels) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[Key(name, labels)]
}

// Samples returns a copy of the observations for a name and label set.
func (m *Memory) Samples(name string, labels Labels) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.samples[Key(name, labels)]...)
}

// Fanout forwards to every backend in order.
type Fanout []Backend

func (f Fanout) IncCounter(name string, delta float64, labels Labels) {
	for _, b := range f {
		b.IncCounter(name, delta, labels)
	}
}

func (f Fanout) ObserveHistogram(name string, value float64, labels Labels) {
	for _, b := range f {
		b.ObserveHistogram(name, value, labels)
	}
}
