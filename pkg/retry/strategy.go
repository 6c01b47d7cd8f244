package retry

import (
	"errors"
	"math/rand"
	"time"

	"github.com/code-payments/transfer-hook/pkg/retry/backoff"
)

// Strategy decides whether another attempt follows a failed one. A strategy
// may block before answering.
type Strategy func(attempts uint, err error) bool

// Limit allows at most maxAttempts attempts in total.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// Retriable allows another attempt only for errors matching isRetriable.
func Retriable(isRetriable func(error) bool) Strategy {
	return func(_ uint, err error) bool {
		return isRetriable(err)
	}
}

// RetriableErrors allows another attempt only for errors wrapping one of
// retriableErrors.
func RetriableErrors(retriableErrors ...error) Strategy {
	return Retriable(func(err error) bool {
		for _, retriable := range retriableErrors {
			if errors.Is(err, retriable) {
				return true
			}
		}
		return false
	})
}

// Backoff sleeps for the delay strategy yields, capped at maxBackoff, before
// allowing another attempt.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return BackoffWithJitter(strategy, maxBackoff, 0)
}

// BackoffWithJitter is Backoff with the capped delay scaled by a uniformly
// random factor in [1-jitter, 1+jitter].
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := strategy(attempts)
		if delay > maxBackoff {
			delay = maxBackoff
		}

		if jitter > 0 {
			delay = time.Duration(float64(delay) * (1 - jitter + 2*jitter*rand.Float64()))
		}

		sleeperImpl.Sleep(delay)
		return true
	}
}

type sleeper interface {
	Sleep(time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

var sleeperImpl sleeper = realSleeper{}
