// Package memory provides a mutable config.Config for tests.
package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/config"
)

var errDeveloperInduced = errors.New("in memory config: developer induced error")

type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a config holding value. A nil value yields
// config.ErrNoValue.
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements config.Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown
func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

func (c *Config) ClearValue() {
	c.SetValue(nil)
}

// InduceErrors makes Get fail until StopInducingErrors is called.
func (c *Config) InduceErrors() {
	c.mu.Lock()
	c.err = errDeveloperInduced
	c.mu.Unlock()
}

func (c *Config) StopInducingErrors() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}
