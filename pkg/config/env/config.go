// Package env provides config sources read from environment variables.
package env

import (
	"context"
	"os"
	"strings"

	"github.com/code-payments/transfer-hook/pkg/config"
	"github.com/code-payments/transfer-hook/pkg/config/wrapper"
)

type source struct {
	value []byte
}

// NewConfig returns a source holding the value of the upper cased
// environment variable key at construction time. Unset and empty variables
// hold no value.
func NewConfig(key string) config.Config {
	return &source{value: []byte(os.Getenv(strings.ToUpper(key)))}
}

func (s *source) Get(_ context.Context) (interface{}, error) {
	if len(s.value) == 0 {
		return nil, config.ErrNoValue
	}
	return s.value, nil
}

func (s *source) Shutdown() {}

func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}

func NewStringConfig(key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(key), defaultValue)
}

func NewBoolConfig(key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(key), defaultValue)
}
