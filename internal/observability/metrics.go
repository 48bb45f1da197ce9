package observability

import (
	"sync"
)

// Metrics provides basic in-memory counters for command and worker outcomes.
type Metrics struct {
	mu           sync.Mutex
	commandCount map[string]int64
	errorCount   map[string]int64
	workerRuns   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		commandCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		workerRuns:   make(map[string]int64),
	}
}

// RecordCommand increments the counter for a completed command.
func (m *Metrics) RecordCommand(command string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandCount[command]++
}

// RecordError increments error counters keyed by command and error code.
func (m *Metrics) RecordError(command, code string) {
	if m == nil {
		return
	}
	key := command + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordWorkerRun increments the run counter for a background worker.
func (m *Metrics) RecordWorkerRun(worker string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workerRuns[worker]++
}

// Snapshot returns a copy of all counters for the stats endpoint.
func (m *Metrics) Snapshot() (commands, errors, workers map[string]int64) {
	commands = map[string]int64{}
	errors = map[string]int64{}
	workers = map[string]int64{}
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.commandCount {
		commands[k] = v
	}
	for k, v := range m.errorCount {
		errors[k] = v
	}
	for k, v := range m.workerRuns {
		workers[k] = v
	}
	return
}
