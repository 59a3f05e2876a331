package llm

import "time"

// RetryPolicy retries an operation with exponential backoff: the wait
// after failed attempt i (1-based) is BaseDelay * 2^(i-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
	Sleep       func(time.Duration)
}

// DefaultRetryPolicy makes 3 attempts, waiting 1s then 2s, and retries
// only transport failures.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   IsTransient,
		Sleep:       time.Sleep,
	}
}

// Delay returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 1)
}

// Do runs fn until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. It returns the number of attempts made and the
// last error.
func (p RetryPolicy) Do(fn func(attempt int) error) (int, error) {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= max; attempt++ {
		if err = fn(attempt); err == nil {
			return attempt, nil
		}
		if !p.retryable(err) {
			return attempt, err
		}
		if attempt < max {
			sleep(p.Delay(attempt))
		}
	}
	return max, err
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable == nil {
		return IsTransient(err)
	}
	return p.Retryable(err)
}
