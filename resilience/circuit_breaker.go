package resilience

import (
	"sync"
	"time"

	"github.com/ALLiDoizCode/adp-relay/core"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// StateClosed allows all requests through
	StateClosed CircuitState = iota
	// StateOpen blocks all requests
	StateOpen
	// StateHalfOpen allows limited requests for testing
	StateHalfOpen
)

// String returns the string representation of the state
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker protects the transport from hammering an unavailable
// actor. Consecutive failures past the threshold open the circuit; after
// the sleep window a single probe is allowed through, and its outcome
// decides between closing and re-opening.
type CircuitBreaker struct {
	mu sync.Mutex

	failureThreshold int
	sleepWindow      time.Duration
	logger           core.Logger

	state          CircuitState
	failures       int
	stateChangedAt time.Time
	probeInFlight  bool
}

// NewCircuitBreaker creates a breaker that opens after failureThreshold
// consecutive failures and probes again after sleepWindow.
func NewCircuitBreaker(failureThreshold int, sleepWindow time.Duration, logger core.Logger) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 5
	}
	if sleepWindow <= 0 {
		sleepWindow = 30 * time.Second
	}
	if logger == nil {
		logger = &core.NoOpLogger{}
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		sleepWindow:      sleepWindow,
		logger:           logger,
		state:            StateClosed,
		stateChangedAt:   time.Now(),
	}
}

// CanExecute reports whether a request may proceed, transitioning from
// open to half-open once the sleep window has elapsed.
func (cb *CircuitBreaker) CanExecute() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.stateChangedAt) > cb.sleepWindow {
			cb.transition(StateHalfOpen)
			cb.probeInFlight = true
			return true
		}
		return false
	case StateHalfOpen:
		if cb.probeInFlight {
			return false
		}
		cb.probeInFlight = true
		return true
	default:
		return false
	}
}

// RecordSuccess notes a successful call, closing the circuit from
// half-open.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.probeInFlight = false
	if cb.state != StateClosed {
		cb.transition(StateClosed)
	}
}

// RecordFailure notes a failed call, opening the circuit when the
// threshold is reached or a half-open probe fails.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probeInFlight = false
	cb.failures++

	if cb.state == StateHalfOpen || (cb.state == StateClosed && cb.failures >= cb.failureThreshold) {
		cb.transition(StateOpen)
	}
}

// GetState returns the current state name.
func (cb *CircuitBreaker) GetState() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state.String()
}

// Reset returns the breaker to closed with counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probeInFlight = false
	cb.transition(StateClosed)
}

// transition changes state (must be called with lock held).
func (cb *CircuitBreaker) transition(newState CircuitState) {
	if cb.state == newState {
		return
	}
	old := cb.state
	cb.state = newState
	cb.stateChangedAt = time.Now()

	cb.logger.Info("Circuit breaker state changed", map[string]interface{}{
		"from":     old.String(),
		"to":       newState.String(),
		"failures": cb.failures,
	})
}
