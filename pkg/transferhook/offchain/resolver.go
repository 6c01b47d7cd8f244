package offchain

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/transfer-hook/pkg/cache"
	"github.com/code-payments/transfer-hook/pkg/data"
	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	"github.com/code-payments/transfer-hook/pkg/metrics"
	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

const (
	metricsStructName = "transferhook.offchain.resolver"

	addressCacheHitMetricName  = "TransferHook/address_cache_hit"
	addressCacheMissMetricName = "TransferHook/address_cache_miss"
	storeHitMetricName         = "TransferHook/store_hit"
	rpcFetchMetricName         = "TransferHook/rpc_fetch"

	invalidValidationAccountEventName = "TransferHookInvalidValidationAccount"
)

var (
	// ErrValidationAccountNotFound indicates the mint has no validation
	// account under the hook program.
	ErrValidationAccountNotFound = errors.New("validation account not found")

	// ErrInvalidValidationAccount indicates the account at the validation
	// address is not owned by the hook program.
	ErrInvalidValidationAccount = errors.New("invalid validation account")
)

type validationAddress struct {
	address ed25519.PublicKey
	bump    uint8
}

// Resolver completes hook instructions off-chain with the extra accounts a
// hook program stored for a mint.
//
// Validation accounts are never resized or rewritten once initialized, so an
// indexed record is served without consulting the chain.
type Resolver struct {
	log  *logrus.Entry
	conf *conf

	data         data.DatabaseData
	solanaClient solana.Client

	addressCache cache.Cache
}

func NewResolver(data data.DatabaseData, solanaClient solana.Client, configProvider ConfigProvider) *Resolver {
	conf := configProvider()

	return &Resolver{
		log:          logrus.StandardLogger().WithField("type", "transferhook/offchain"),
		conf:         conf,
		data:         data,
		solanaClient: solanaClient,
		addressCache: cache.NewCache(int(conf.addressCacheBudget.Get(context.Background()))),
	}
}

// GetValidationAddress returns the validation account address and bump for
// mint under hookProgram.
func (r *Resolver) GetValidationAddress(ctx context.Context, hookProgram, mint ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	key := base58.Encode(hookProgram) + ":" + base58.Encode(mint)

	if cached, ok := r.addressCache.Retrieve(key); ok {
		metrics.RecordCount(ctx, addressCacheHitMetricName, 1)

		entry := cached.(*validationAddress)
		return entry.address, entry.bump, nil
	}
	metrics.RecordCount(ctx, addressCacheMissMetricName, 1)

	address, bump, err := transferhook.GetExtraAccountMetasAddressAndBump(mint, hookProgram)
	if err != nil {
		return nil, 0, err
	}

	// A concurrent caller may have inserted the same derivation.
	err = r.addressCache.Insert(key, &validationAddress{address: address, bump: bump}, 1)
	if err != nil && err != cache.ErrKeyExists {
		r.log.WithError(err).Warn("failure caching validation address")
	}

	return address, bump, nil
}

// GetExtraAccountMetas returns the extra account metas stored for the hook
// instruction identified by d.
func (r *Resolver) GetExtraAccountMetas(ctx context.Context, hookProgram, mint ed25519.PublicKey, d discriminator.Discriminator) ([]solana.AccountMeta, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetExtraAccountMetas")
	defer tracer.End()

	record, err := r.getRecord(ctx, hookProgram, mint)
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}

	metas, err := record.GetExtraAccountMetas(d)
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrapf(err, "error unpacking extra account metas for %s", d)
	}
	return metas, nil
}

// AddExtraAccountMetas appends the stored extra account metas for the hook
// instruction identified by d to instruction, in stored order.
func (r *Resolver) AddExtraAccountMetas(ctx context.Context, instruction *solana.Instruction, hookProgram, mint ed25519.PublicKey, d discriminator.Discriminator) error {
	if !bytes.Equal(instruction.Program, hookProgram) {
		return errors.New("instruction does not target the hook program")
	}

	metas, err := r.GetExtraAccountMetas(ctx, hookProgram, mint, d)
	if err != nil {
		return err
	}

	instruction.Accounts = append(instruction.Accounts, metas...)
	return nil
}

// Refresh fetches the validation account from the chain and indexes it,
// ignoring any previously indexed state.
func (r *Resolver) Refresh(ctx context.Context, hookProgram, mint ed25519.PublicKey) (*extraaccountmetas.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Refresh")
	defer tracer.End()

	record, err := r.fetchAndIndex(ctx, hookProgram, mint)
	tracer.OnError(err)
	return record, err
}

func (r *Resolver) getRecord(ctx context.Context, hookProgram, mint ed25519.PublicKey) (*extraaccountmetas.Record, error) {
	if !r.conf.disableStoreLookup.Get(ctx) {
		record, err := r.data.GetExtraAccountMetasByMintAndProgram(ctx, base58.Encode(mint), base58.Encode(hookProgram))
		if err == nil {
			metrics.RecordCount(ctx, storeHitMetricName, 1)
			return record, nil
		} else if err != extraaccountmetas.ErrRecordNotFound {
			return nil, errors.Wrap(err, "error getting indexed extra account metas")
		}
	}

	return r.fetchAndIndex(ctx, hookProgram, mint)
}

func (r *Resolver) fetchAndIndex(ctx context.Context, hookProgram, mint ed25519.PublicKey) (*extraaccountmetas.Record, error) {
	log := r.log.WithFields(logrus.Fields{
		"method":  "fetchAndIndex",
		"program": base58.Encode(hookProgram),
		"mint":    base58.Encode(mint),
	})

	address, bump, err := r.GetValidationAddress(ctx, hookProgram, mint)
	if err != nil {
		return nil, err
	}

	metrics.RecordCount(ctx, rpcFetchMetricName, 1)
	info, err := r.solanaClient.GetAccountInfo(address, r.commitment(ctx))
	if err == solana.ErrNoAccountInfo {
		return nil, ErrValidationAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting validation account")
	}

	if !bytes.Equal(info.Owner, hookProgram) {
		r.recordInvalidValidationAccount(ctx, hookProgram, mint, "owner mismatch")
		return nil, errors.Wrapf(ErrInvalidValidationAccount, "owned by %s", base58.Encode(info.Owner))
	}

	record := extraaccountmetas.NewRecordFromAccountData(mint, hookProgram, address, bump, info.Data, info.Slot)
	if err := record.Validate(); err != nil {
		r.recordInvalidValidationAccount(ctx, hookProgram, mint, "malformed data")
		return nil, errors.Wrap(ErrInvalidValidationAccount, err.Error())
	}

	err = r.data.SaveExtraAccountMetas(ctx, record)
	switch err {
	case nil:
	case extraaccountmetas.ErrStaleRecord:
		log.Debug("validation account already indexed at a later slot")
	default:
		log.WithError(err).Warn("failure indexing validation account")
	}

	return record, nil
}

func (r *Resolver) recordInvalidValidationAccount(ctx context.Context, hookProgram, mint ed25519.PublicKey, reason string) {
	metrics.RecordEvent(ctx, invalidValidationAccountEventName, map[string]interface{}{
		"program": base58.Encode(hookProgram),
		"mint":    base58.Encode(mint),
		"reason":  reason,
	})
}

func (r *Resolver) commitment(ctx context.Context) solana.Commitment {
	value := r.conf.rpcCommitment.Get(ctx)
	commitment, err := solana.CommitmentFromString(value)
	if err != nil {
		r.log.WithError(err).Warnf("invalid commitment %q, using %s", value, defaultRpcCommitment)
		return solana.CommitmentConfirmed
	}
	return commitment
}

// InitializeParams describes a validation account to create.
type InitializeParams struct {
	// Payer funds the validation account and must sign.
	Payer ed25519.PublicKey

	HookProgram ed25519.PublicKey
	Mint        ed25519.PublicKey

	// Authority is the mint authority and must sign.
	Authority ed25519.PublicKey

	ExtraAccounts []solana.AccountMeta

	// ExtraAccountCounts partitions ExtraAccounts into the per instruction
	// lists the hook program stores. Empty means a single list.
	ExtraAccountCounts []int
}

// NewInitializeInstructions returns the instructions that fund the validation
// account for rent exemption and then initialize it.
func (r *Resolver) NewInitializeInstructions(ctx context.Context, params *InitializeParams) ([]solana.Instruction, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "NewInitializeInstructions")
	defer tracer.End()

	instructions, err := r.newInitializeInstructions(ctx, params)
	tracer.OnError(err)
	return instructions, err
}

func (r *Resolver) newInitializeInstructions(ctx context.Context, params *InitializeParams) ([]solana.Instruction, error) {
	counts := params.ExtraAccountCounts
	if len(counts) == 0 {
		counts = []int{len(params.ExtraAccounts)}
	}

	var total int
	for _, count := range counts {
		if count < 0 {
			return nil, errors.Errorf("invalid extra account count: %d", count)
		}
		total += count
	}
	if total != len(params.ExtraAccounts) {
		return nil, errors.Errorf("extra account counts sum to %d, have %d accounts", total, len(params.ExtraAccounts))
	}

	address, _, err := r.GetValidationAddress(ctx, params.HookProgram, params.Mint)
	if err != nil {
		return nil, err
	}

	size := accountresolution.SizeOf(counts...)
	lamports, err := r.solanaClient.GetMinimumBalanceForRentExemption(uint64(size))
	if err != nil {
		return nil, errors.Wrap(err, "error getting rent exemption balance")
	}

	return []solana.Instruction{
		system.Transfer(params.Payer, address, lamports),
		transferhook.NewInitializeExtraAccountMetasInstruction(
			params.HookProgram,
			&transferhook.InitializeExtraAccountMetasInstructionAccounts{
				ExtraAccountMetas: address,
				Mint:              params.Mint,
				Authority:         params.Authority,
			},
			params.ExtraAccounts...,
		),
	}, nil
}
