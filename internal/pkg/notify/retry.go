package notify

import (
	"math/rand"
	"time"
)

// RetryManager decides how long to wait before a failed task runs again.
type RetryManager struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewRetryManager(maxRetries int, baseDelay time.Duration) *RetryManager {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryManager{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   baseDelay * 16,
	}
}

// Next returns the delay before attempt+1, or false once attempt reached
// the retry limit.
func (r *RetryManager) Next(attempt int) (time.Duration, bool) {
	if attempt > r.maxRetries {
		return 0, false
	}
	return r.backoff(attempt), true
}

// backoff is base * 2^(attempt-1) with ±25% jitter, capped at maxDelay.
func (r *RetryManager) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return r.baseDelay
	}

	delay := r.baseDelay << (attempt - 1)
	if delay <= 0 || delay > r.maxDelay {
		delay = r.maxDelay
	}

	if quarter := int64(delay / 4); quarter > 0 {
		delay += time.Duration(rand.Int63n(2*quarter) - quarter)
	}

	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	return delay
}
