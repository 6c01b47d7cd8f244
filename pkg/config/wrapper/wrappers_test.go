package wrapper

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/config"
	"github.com/code-payments/transfer-hook/pkg/config/memory"
)

type wrapperTestCase[T any] struct {
	defaultValue T
	override     T
	raw          []byte
	rawValue     T
	invalidRaw   []byte
	unsupported  interface{}
}

func runWrapperTest[T any](t *testing.T, newWrapper func(config.Config, T) config.Typed[T], tc wrapperTestCase[T]) {
	ctx := context.Background()
	source := memory.NewConfig(nil)
	wrapper := newWrapper(source, tc.defaultValue)

	// No value yields the default
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.defaultValue, val)

	source.SetValue(tc.override)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.override, val)

	// Source failures yield the last good value
	source.InduceErrors()
	val, err = wrapper.GetSafe(ctx)
	assert.Error(t, err)
	assert.Equal(t, tc.override, val)
	assert.Equal(t, tc.override, wrapper.Get(ctx))
	source.StopInducingErrors()

	source.ClearValue()
	assert.Equal(t, tc.defaultValue, wrapper.Get(ctx))

	source.SetValue(tc.raw)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, tc.rawValue, val)

	if tc.invalidRaw != nil {
		source.SetValue(tc.invalidRaw)
		val, err = wrapper.GetSafe(ctx)
		assert.Error(t, err)
		assert.Equal(t, tc.rawValue, val)
	}

	source.SetValue(tc.unsupported)
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, tc.rawValue, val)

	wrapper.Shutdown()
	_, err = wrapper.GetSafe(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestBoolConfig(t *testing.T) {
	runWrapperTest(t, NewBoolConfig, wrapperTestCase[bool]{
		defaultValue: true,
		override:     false,
		raw:          []byte("true"),
		rawValue:     true,
		invalidRaw:   []byte("cannot convert"),
		unsupported:  "not supported",
	})
}

func TestUint64Config(t *testing.T) {
	runWrapperTest(t, NewUint64Config, wrapperTestCase[uint64]{
		defaultValue: math.MaxUint64,
		override:     0,
		raw:          []byte("1024"),
		rawValue:     1024,
		invalidRaw:   []byte("-1"),
		unsupported:  "not supported",
	})

	source := memory.NewConfig(uint(42))
	assert.EqualValues(t, 42, NewUint64Config(source, 1).Get(context.Background()))
}

func TestStringConfig(t *testing.T) {
	runWrapperTest(t, NewStringConfig, wrapperTestCase[string]{
		defaultValue: "confirmed",
		override:     "finalized",
		raw:          []byte("processed"),
		rawValue:     "processed",
		unsupported:  1234,
	})
}
