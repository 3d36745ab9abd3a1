package adapter

import (
	"sync"
	"time"
)

const (
	maxConsecutiveFails = 5
	minSuccessRate      = 0.5
	minSampleSize       = 10
)

// ProviderHealth is a point-in-time view of upstream call outcomes.
// The endpoint URL is left out because it embeds the API key.
type ProviderHealth struct {
	Provider         string    `json:"provider"`
	TotalRequests    int64     `json:"totalRequests"`
	SuccessfulReqs   int64     `json:"successfulRequests"`
	FailedReqs       int64     `json:"failedRequests"`
	SuccessRate      float64   `json:"successRate"`
	AverageLatencyMs int64     `json:"averageLatencyMs"`
	LastSuccess      time.Time `json:"lastSuccess"`
	LastFailure      time.Time `json:"lastFailure"`
	LastError        string    `json:"lastError,omitempty"`
	ConsecutiveFails int       `json:"consecutiveFails"`
	IsHealthy        bool      `json:"isHealthy"`
}

// HealthTracker counts upstream call outcomes. It is safe for concurrent use.
type HealthTracker struct {
	mu sync.RWMutex

	provider         string
	totalRequests    int64
	successfulReqs   int64
	failedReqs       int64
	totalLatency     time.Duration
	lastSuccess      time.Time
	lastFailure      time.Time
	lastError        string
	consecutiveFails int
}

// NewHealthTracker creates a tracker for the named provider
func NewHealthTracker(provider string) *HealthTracker {
	return &HealthTracker{provider: provider}
}

// RecordSuccess records a successful call and its latency
func (h *HealthTracker) RecordSuccess(duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests++
	h.successfulReqs++
	h.totalLatency += duration
	h.lastSuccess = time.Now()
	h.consecutiveFails = 0
}

// RecordFailure records a failed call
func (h *HealthTracker) RecordFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests++
	h.failedReqs++
	h.lastFailure = time.Now()
	h.consecutiveFails++
	if err != nil {
		h.lastError = err.Error()
	}
}

// Health returns the current health snapshot
func (h *HealthTracker) Health() ProviderHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var successRate float64
	if h.totalRequests > 0 {
		successRate = float64(h.successfulReqs) / float64(h.totalRequests)
	}

	var avgLatency time.Duration
	if h.successfulReqs > 0 {
		avgLatency = h.totalLatency / time.Duration(h.successfulReqs)
	}

	return ProviderHealth{
		Provider:         h.provider,
		TotalRequests:    h.totalRequests,
		SuccessfulReqs:   h.successfulReqs,
		FailedReqs:       h.failedReqs,
		SuccessRate:      successRate,
		AverageLatencyMs: avgLatency.Milliseconds(),
		LastSuccess:      h.lastSuccess,
		LastFailure:      h.lastFailure,
		LastError:        h.lastError,
		ConsecutiveFails: h.consecutiveFails,
		IsHealthy:        h.isHealthyLocked(),
	}
}

// isHealthyLocked must be called with the lock held
func (h *HealthTracker) isHealthyLocked() bool {
	if h.consecutiveFails >= maxConsecutiveFails {
		return false
	}
	if h.totalRequests >= minSampleSize {
		if float64(h.successfulReqs)/float64(h.totalRequests) < minSuccessRate {
			return false
		}
	}
	return true
}
