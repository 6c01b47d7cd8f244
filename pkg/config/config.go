package config

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates the source holds no value.
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the source was used after Shutdown.
	ErrShutdown = errors.New("config: shutdown")
)

// Config is an untyped configuration source. Sources backed by text, such as
// the environment, yield []byte.
type Config interface {
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases the resources held by the source.
	Shutdown()
}

// Typed is a Config converted to T, falling back to a default when the
// source holds no value.
type Typed[T any] interface {
	// Get returns the current value, or the last good one if the source
	// fails.
	Get(ctx context.Context) T

	// GetSafe is Get, also reporting source or conversion failures.
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool   = Typed[bool]
	Uint64 = Typed[uint64]
	String = Typed[string]
)
