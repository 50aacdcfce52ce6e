package market

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
	assert.True(t, cb.CanProceed())

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
	assert.False(t, cb.CanProceed())
}

func TestCircuitBreakerSuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	assert.Equal(t, 0, cb.FailureCount())

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreakerRecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(1, 20*time.Millisecond)

	cb.RecordFailure()
	assert.False(t, cb.CanProceed())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, cb.CanProceed())
	assert.False(t, cb.IsOpen())
}

func TestCircuitBreakerConcurrentFailures(t *testing.T) {
	cb := NewCircuitBreaker(50, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb.RecordFailure()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, cb.FailureCount())
	assert.True(t, cb.IsOpen())
}
