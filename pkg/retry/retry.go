package retry

// Action is an operation that may be attempted more than once.
type Action func() error

// Retrier runs actions under a fixed set of strategies.
type Retrier interface {
	Retry(action Action) (uint, error)
}

type retrier []Strategy

// NewRetrier returns a Retrier bound to strategies. Without strategies the
// action is attempted until it succeeds.
func NewRetrier(strategies ...Strategy) Retrier {
	return retrier(strategies)
}

func (r retrier) Retry(action Action) (uint, error) {
	return Retry(action, r...)
}

// Retry runs action until it succeeds or a strategy declines another attempt,
// and returns the number of attempts made along with the last error.
//
// Strategies are consulted in order and the first refusal wins, so strategies
// that sleep belong last.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	var attempts uint
	for {
		attempts++

		err := action()
		if err == nil || !shouldRetry(strategies, attempts, err) {
			return attempts, err
		}
	}
}

func shouldRetry(strategies []Strategy, attempts uint, err error) bool {
	for _, strategy := range strategies {
		if !strategy(attempts, err) {
			return false
		}
	}
	return true
}
