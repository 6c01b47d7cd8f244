// Package wrapper converts untyped config sources into typed ones.
package wrapper

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/config"
)

// ErrUnsuportedConversion indicates the source yielded a type the wrapper
// cannot convert.
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

type typed[T any] struct {
	source       config.Config
	defaultValue T
	convert      func(interface{}) (T, error)

	mu        sync.RWMutex
	lastValue T
}

func newTyped[T any](source config.Config, defaultValue T, convert func(interface{}) (T, error)) *typed[T] {
	return &typed[T]{
		source:       source,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

func (c *typed[T]) GetSafe(ctx context.Context) (T, error) {
	raw, err := c.source.Get(ctx)
	if err == config.ErrNoValue {
		c.remember(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return c.last(), err
	}

	value, err := c.convert(raw)
	if err != nil {
		return c.last(), err
	}

	c.remember(value)
	return value, nil
}

func (c *typed[T]) Get(ctx context.Context) T {
	value, _ := c.GetSafe(ctx)
	return value
}

func (c *typed[T]) Shutdown() {
	c.source.Shutdown()
}

func (c *typed[T]) last() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastValue
}

func (c *typed[T]) remember(value T) {
	c.mu.Lock()
	c.lastValue = value
	c.mu.Unlock()
}

// NewBoolConfig wraps source as a bool config. It converts bool and []byte
// values.
func NewBoolConfig(source config.Config, defaultValue bool) config.Bool {
	return newTyped(source, defaultValue, func(raw interface{}) (bool, error) {
		switch v := raw.(type) {
		case bool:
			return v, nil
		case []byte:
			return strconv.ParseBool(string(v))
		default:
			return false, ErrUnsuportedConversion
		}
	})
}

// NewUint64Config wraps source as a uint64 config. It converts unsigned
// integer and []byte values.
func NewUint64Config(source config.Config, defaultValue uint64) config.Uint64 {
	return newTyped(source, defaultValue, func(raw interface{}) (uint64, error) {
		switch v := raw.(type) {
		case uint64:
			return v, nil
		case uint:
			return uint64(v), nil
		case uint32:
			return uint64(v), nil
		case []byte:
			return strconv.ParseUint(string(v), 10, 64)
		default:
			return 0, ErrUnsuportedConversion
		}
	})
}

// NewStringConfig wraps source as a string config. It converts string and
// []byte values.
func NewStringConfig(source config.Config, defaultValue string) config.String {
	return newTyped(source, defaultValue, func(raw interface{}) (string, error) {
		switch v := raw.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			return "", ErrUnsuportedConversion
		}
	})
}
