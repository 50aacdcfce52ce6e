package market

import (
	"sync/atomic"
	"time"
)

// CircuitBreaker guards the outbound retrieval path. It is shared across all
// sessions in the process, so every counter is atomic. Three consecutive
// failures open the circuit; one success, or the recovery window elapsing,
// closes it again.
type CircuitBreaker struct {
	failureThreshold int32
	recoveryTimeout  time.Duration

	failureCount atomic.Int32
	lastFailure  atomic.Int64 // unix nanos, 0 = never
	open         atomic.Bool
}

func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = 60 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: int32(failureThreshold),
		recoveryTimeout:  recoveryTimeout,
	}
}

// CanProceed reports whether the guarded call may be attempted. An open
// circuit heals automatically once the recovery window has elapsed.
func (cb *CircuitBreaker) CanProceed() bool {
	if !cb.open.Load() {
		return true
	}
	last := cb.lastFailure.Load()
	if last > 0 && time.Since(time.Unix(0, last)) > cb.recoveryTimeout {
		cb.Reset()
		return true
	}
	return false
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.failureCount.Store(0)
	cb.lastFailure.Store(0)
	cb.open.Store(false)
}

func (cb *CircuitBreaker) RecordFailure() {
	count := cb.failureCount.Add(1)
	cb.lastFailure.Store(time.Now().UnixNano())
	if count >= cb.failureThreshold {
		cb.open.Store(true)
	}
}

func (cb *CircuitBreaker) Reset() {
	cb.failureCount.Store(0)
	cb.lastFailure.Store(0)
	cb.open.Store(false)
}

// Threshold returns the configured failure threshold.
func (cb *CircuitBreaker) Threshold() int {
	return int(cb.failureThreshold)
}

// FailureCount is exposed for logging and tests.
func (cb *CircuitBreaker) FailureCount() int {
	return int(cb.failureCount.Load())
}

// IsOpen is exposed for logging and tests.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.open.Load()
}
