package service

import (
	"sync/atomic"
	"time"
)

// Metrics tracks generation and model-call counters. One instance is shared by
// every wizard of a process.
type Metrics struct {
	generations      int64
	generationErrors int64
	fallbacks        int64
	modelCalls       int64
	modelErrors      int64
	modelLatency     int64 // total latency in nanoseconds
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Generations       int64   `json:"generations"`
	GenerationErrors  int64   `json:"generation_errors"`
	Fallbacks         int64   `json:"fallbacks"`
	ModelCalls        int64   `json:"model_calls"`
	ModelErrors       int64   `json:"model_errors"`
	AvgModelLatencyMs float64 `json:"avg_model_latency_ms"`
	ModelErrorRate    float64 `json:"model_error_rate"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Generations:      atomic.LoadInt64(&m.generations),
		GenerationErrors: atomic.LoadInt64(&m.generationErrors),
		Fallbacks:        atomic.LoadInt64(&m.fallbacks),
		ModelCalls:       atomic.LoadInt64(&m.modelCalls),
		ModelErrors:      atomic.LoadInt64(&m.modelErrors),
	}
	if s.ModelCalls > 0 {
		latency := atomic.LoadInt64(&m.modelLatency)
		s.AvgModelLatencyMs = float64(latency) / float64(s.ModelCalls) / 1e6
		s.ModelErrorRate = float64(s.ModelErrors) / float64(s.ModelCalls) * 100
	}
	return s
}

func (m *Metrics) recordModelCall(duration time.Duration, err error) {
	atomic.AddInt64(&m.modelCalls, 1)
	atomic.AddInt64(&m.modelLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&m.modelErrors, 1)
	}
}

func (m *Metrics) recordGeneration(err error) {
	atomic.AddInt64(&m.generations, 1)
	if err != nil {
		atomic.AddInt64(&m.generationErrors, 1)
	}
}

func (m *Metrics) recordFallback() {
	atomic.AddInt64(&m.fallbacks, 1)
}
