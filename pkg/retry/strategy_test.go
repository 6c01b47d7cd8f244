package retry

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/code-payments/transfer-hook/pkg/retry/backoff"
)

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(d time.Duration) {
	s.delays = append(s.delays, d)
}

func withRecordingSleeper(t *testing.T) *recordingSleeper {
	s := &recordingSleeper{}
	sleeperImpl = s
	t.Cleanup(func() { sleeperImpl = realSleeper{} })
	return s
}

func TestLimit(t *testing.T) {
	strategy := Limit(2)
	assert.True(t, strategy(1, errors.New("test")))
	assert.False(t, strategy(2, errors.New("test")))

	attempts, err := Retry(func() error { return errors.New("test") }, Limit(2))
	assert.EqualError(t, err, "test")
	assert.EqualValues(t, 2, attempts)
}

func TestRetriableErrors(t *testing.T) {
	retriable := []error{errors.New("a"), errors.New("b")}

	strategy := RetriableErrors(retriable...)
	for _, err := range retriable {
		assert.True(t, strategy(1, err))
		assert.True(t, strategy(1, errors.Wrap(err, "wrapped")))
	}
	assert.False(t, strategy(1, errors.New("unexpected")))
}

func TestRetriable(t *testing.T) {
	strategy := Retriable(func(err error) bool { return err.Error() == "busy" })
	assert.True(t, strategy(3, errors.New("busy")))
	assert.False(t, strategy(1, errors.New("gone")))
}

func TestBackoff(t *testing.T) {
	sleeper := withRecordingSleeper(t)

	strategy := Backoff(backoff.BinaryExponential(100*time.Millisecond), 500*time.Millisecond)
	for i := uint(1); i <= 5; i++ {
		assert.True(t, strategy(i, errors.New("err")))
	}

	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
	}, sleeper.delays)
}

func TestBackoffWithJitter(t *testing.T) {
	sleeper := withRecordingSleeper(t)

	delay := 10 * time.Millisecond
	strategy := BackoffWithJitter(backoff.Constant(delay), delay, 0.1)

	var total time.Duration
	for i := 0; i < 1000; i++ {
		assert.True(t, strategy(1, errors.New("err")))

		actual := sleeper.delays[i]
		assert.True(t, actual >= 9*time.Millisecond, actual)
		assert.True(t, actual <= 11*time.Millisecond, actual)
		total += actual
	}

	assert.InDelta(t, float64(delay), float64(total/1000), 0.02*float64(delay))
}
