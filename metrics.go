package qsr

import (
	"sync"
	"time"
)

// Metrics tracks per-step training diagnostics.
type Metrics struct {
	mu sync.RWMutex

	stepCount     int64
	lossGradNorm  float64
	updateNorm    float64
	lastLatency   time.Duration
	totalStepTime time.Duration
}

// MetricsSnapshot is a point-in-time copy of the driver's diagnostics.
type MetricsSnapshot struct {
	StepCount      int64
	LossGradNorm   float64
	UpdateNorm     float64
	LastLatency    time.Duration
	AverageLatency time.Duration
}

func (m *Metrics) recordStep(lossGradNorm, updateNorm float64, start time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stepCount++
	m.lossGradNorm = lossGradNorm
	m.updateNorm = updateNorm
	m.lastLatency = time.Since(start)
	m.totalStepTime += m.lastLatency
}

// Snapshot returns a copy of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StepCount:    m.stepCount,
		LossGradNorm: m.lossGradNorm,
		UpdateNorm:   m.updateNorm,
		LastLatency:  m.lastLatency,
	}
	if m.stepCount > 0 {
		snap.AverageLatency = m.totalStepTime / time.Duration(m.stepCount)
	}
	return snap
}
