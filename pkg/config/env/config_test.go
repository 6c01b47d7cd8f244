package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/code-payments/transfer-hook/pkg/config"
)

func TestConfig(t *testing.T) {
	const key = "ENV_CONFIG_TEST_VAR"

	t.Setenv(key, "value")
	v, err := NewConfig(key).Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	// Keys are upper cased before lookup
	v, err = NewConfig("env_config_test_var").Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	t.Setenv(key, "")
	_, err = NewConfig(key).Get(context.Background())
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	ctx := context.Background()

	t.Setenv("ENV_CONFIG_TEST_UINT64", "42")
	t.Setenv("ENV_CONFIG_TEST_BOOL", "true")
	t.Setenv("ENV_CONFIG_TEST_STRING", "finalized")

	assert.EqualValues(t, 42, NewUint64Config("ENV_CONFIG_TEST_UINT64", 1).Get(ctx))
	assert.True(t, NewBoolConfig("ENV_CONFIG_TEST_BOOL", false).Get(ctx))
	assert.Equal(t, "finalized", NewStringConfig("ENV_CONFIG_TEST_STRING", "confirmed").Get(ctx))

	assert.EqualValues(t, 1, NewUint64Config("ENV_CONFIG_TEST_UNSET", 1).Get(ctx))
	assert.False(t, NewBoolConfig("ENV_CONFIG_TEST_UNSET", false).Get(ctx))
	assert.Equal(t, "confirmed", NewStringConfig("ENV_CONFIG_TEST_UNSET", "confirmed").Get(ctx))
}
