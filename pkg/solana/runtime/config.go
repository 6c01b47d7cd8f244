package runtime

import (
	"github.com/code-payments/transfer-hook/pkg/config"
	"github.com/code-payments/transfer-hook/pkg/config/env"
	"github.com/code-payments/transfer-hook/pkg/config/memory"
	"github.com/code-payments/transfer-hook/pkg/config/wrapper"
)

const (
	envConfigPrefix = "RUNTIME_"

	LockStripesConfigEnvName = envConfigPrefix + "LOCK_STRIPES"
	defaultLockStripes       = 1024

	// The transaction's own instructions count towards the depth.
	//
	// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/program-runtime/src/compute_budget.rs#L13
	MaxCallDepthConfigEnvName = envConfigPrefix + "MAX_CALL_DEPTH"
	defaultMaxCallDepth       = 5
)

type conf struct {
	lockStripes  config.Uint64
	maxCallDepth config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			lockStripes:  env.NewUint64Config(LockStripesConfigEnvName, defaultLockStripes),
			maxCallDepth: env.NewUint64Config(MaxCallDepthConfigEnvName, defaultMaxCallDepth),
		}
	}
}

type testOverrides struct {
	lockStripes  uint64
	maxCallDepth uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		lockStripes := uint64(defaultLockStripes)
		if overrides.lockStripes > 0 {
			lockStripes = overrides.lockStripes
		}

		maxCallDepth := uint64(defaultMaxCallDepth)
		if overrides.maxCallDepth > 0 {
			maxCallDepth = overrides.maxCallDepth
		}

		return &conf{
			lockStripes:  wrapper.NewUint64Config(memory.NewConfig(lockStripes), defaultLockStripes),
			maxCallDepth: wrapper.NewUint64Config(memory.NewConfig(maxCallDepth), defaultMaxCallDepth),
		}
	}
}
