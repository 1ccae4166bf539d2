package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	stimulusCount map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		stimulusCount: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordStimulus counts one dispatched stimulus per kind, stage and outcome.
func (m *Metrics) RecordStimulus(kind, stage, outcome string) {
	if m == nil {
		return
	}
	key := kind + "|" + stage + "|" + outcome
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stimulusCount[key]++
}

// StimulusCount returns the counter for a kind/stage/outcome combination.
func (m *Metrics) StimulusCount(kind, stage, outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stimulusCount[kind+"|"+stage+"|"+outcome]
}
