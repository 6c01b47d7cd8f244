package offchain

import (
	"github.com/code-payments/transfer-hook/pkg/config"
	"github.com/code-payments/transfer-hook/pkg/config/env"
	"github.com/code-payments/transfer-hook/pkg/config/memory"
	"github.com/code-payments/transfer-hook/pkg/config/wrapper"
)

const (
	envConfigPrefix = "TRANSFER_HOOK_"

	RpcCommitmentConfigEnvName = envConfigPrefix + "RPC_COMMITMENT"
	defaultRpcCommitment       = "confirmed"

	AddressCacheBudgetConfigEnvName = envConfigPrefix + "ADDRESS_CACHE_BUDGET"
	defaultAddressCacheBudget       = 10_000

	DisableStoreLookupConfigEnvName = envConfigPrefix + "DISABLE_STORE_LOOKUP"
	defaultDisableStoreLookup       = false
)

type conf struct {
	rpcCommitment      config.String
	addressCacheBudget config.Uint64
	disableStoreLookup config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rpcCommitment:      env.NewStringConfig(RpcCommitmentConfigEnvName, defaultRpcCommitment),
			addressCacheBudget: env.NewUint64Config(AddressCacheBudgetConfigEnvName, defaultAddressCacheBudget),
			disableStoreLookup: env.NewBoolConfig(DisableStoreLookupConfigEnvName, defaultDisableStoreLookup),
		}
	}
}

type testOverrides struct {
	rpcCommitment      string
	addressCacheBudget uint64
	disableStoreLookup bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		rpcCommitment := defaultRpcCommitment
		if len(overrides.rpcCommitment) > 0 {
			rpcCommitment = overrides.rpcCommitment
		}

		addressCacheBudget := uint64(defaultAddressCacheBudget)
		if overrides.addressCacheBudget > 0 {
			addressCacheBudget = overrides.addressCacheBudget
		}

		return &conf{
			rpcCommitment:      wrapper.NewStringConfig(memory.NewConfig(rpcCommitment), defaultRpcCommitment),
			addressCacheBudget: wrapper.NewUint64Config(memory.NewConfig(addressCacheBudget), defaultAddressCacheBudget),
			disableStoreLookup: wrapper.NewBoolConfig(memory.NewConfig(overrides.disableStoreLookup), defaultDisableStoreLookup),
		}
	}
}
