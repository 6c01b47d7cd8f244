package example

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
	"github.com/code-payments/transfer-hook/pkg/solana/token"
	"github.com/code-payments/transfer-hook/pkg/testutil"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

type testEnv struct {
	ctx  context.Context
	bank *runtime.Bank

	program    ed25519.PublicKey
	mint       ed25519.PublicKey
	authority  ed25519.PublicKey
	validation ed25519.PublicKey
	extra      []solana.AccountMeta
}

func setup(t *testing.T) *testEnv {
	keys := testutil.GenerateSolanaKeys(t, 9)

	env := &testEnv{
		ctx:       context.Background(),
		bank:      runtime.NewBank(runtime.WithEnvConfigs()),
		program:   keys[0],
		mint:      keys[1],
		authority: keys[2],
	}
	for _, key := range keys[3:] {
		env.extra = append(env.extra, solana.NewReadonlyAccountMeta(key, false))
	}

	var err error
	env.validation, err = transferhook.GetExtraAccountMetasAddress(env.mint, env.program)
	require.NoError(t, err)

	env.bank.RegisterProgram(env.program, NewProcessor())

	mint := &token.Mint{MintAuthority: env.authority, Supply: 1000, Decimals: 9, IsInitialized: true}
	env.bank.SetAccount(env.mint, &runtime.Account{Lamports: 1, Data: mint.Marshal(), Owner: token.ProgramKey})

	return env
}

func (e *testEnv) process(signers []ed25519.PublicKey, instruction solana.Instruction) error {
	return e.bank.ProcessTransaction(e.ctx, runtime.NewTransaction(signers, instruction))
}

func (e *testEnv) initialize() error {
	instruction := transferhook.NewInitializeExtraAccountMetasInstruction(
		e.program,
		&transferhook.InitializeExtraAccountMetasInstructionAccounts{
			ExtraAccountMetas: e.validation,
			Mint:              e.mint,
			Authority:         e.authority,
		},
		e.extra...,
	)
	return e.process([]ed25519.PublicKey{e.authority}, instruction)
}

func (e *testEnv) mintTo(extra []solana.AccountMeta) error {
	instruction := transferhook.NewMintToInstructionWithExtraAccountMetas(
		e.program,
		&transferhook.MintToInstructionAccounts{
			Mint:              e.mint,
			Destination:       e.extra[0].PublicKey,
			Authority:         e.authority,
			ExtraAccountMetas: e.validation,
		},
		&transferhook.MintTo{Amount: 10},
		extra,
	)
	return e.process(nil, instruction)
}

func (e *testEnv) transfer(extra []solana.AccountMeta) error {
	instruction := transferhook.NewTransferInstructionWithExtraAccountMetas(
		e.program,
		&transferhook.TransferInstructionAccounts{
			Source:            e.extra[0].PublicKey,
			Mint:              e.mint,
			Destination:       e.extra[1].PublicKey,
			Authority:         e.authority,
			ExtraAccountMetas: e.validation,
		},
		&transferhook.Transfer{Amount: 1_000_000},
		extra,
	)
	return e.process(nil, instruction)
}

func TestProcessor_Init(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize())

	account := env.bank.GetAccount(env.validation)
	require.NotNil(t, account)
	assert.True(t, account.IsOwnedBy(env.program))

	expected, err := ExampleData(env.extra)
	require.NoError(t, err)
	assert.Equal(t, expected, account.Data)
	assert.Len(t, account.Data, accountresolution.SizeOf(3, 3))

	forMinting, err := accountresolution.Unpack(account.Data, transferhook.MintToDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, env.extra[:3], forMinting)

	forTransferring, err := accountresolution.Unpack(account.Data, transferhook.TransferDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, env.extra[3:], forTransferring)

	// Initializing twice fails, the account is already allocated
	err = env.initialize()
	assert.True(t, errors.Is(err, system.ErrAccountAlreadyInUse))
	assert.Equal(t, expected, env.bank.GetAccount(env.validation).Data)
}

func TestProcessor_Init_NotEnoughAccounts(t *testing.T) {
	env := setup(t)
	env.extra = env.extra[:2]

	err := env.initialize()
	assert.True(t, errors.Is(err, solana.ErrNotEnoughAccountKeys))
}

func TestProcessor_Init_WrongAuthority(t *testing.T) {
	env := setup(t)
	env.authority = testutil.GenerateSolanaKey(t)

	err := env.initialize()
	assert.True(t, errors.Is(err, transferhook.ErrIncorrectMintAuthority))
	assert.Nil(t, env.bank.GetAccount(env.validation))
}

func TestProcessor_MintTo(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize())

	assert.NoError(t, env.mintTo(env.extra[:3]))

	for _, extra := range [][]solana.AccountMeta{
		nil,
		env.extra[:2],
		env.extra[:4],
		env.extra[3:],
		{env.extra[1], env.extra[0], env.extra[2]},
	} {
		err := env.mintTo(extra)
		assert.True(t, errors.Is(err, transferhook.ErrIncorrectAccount))
	}
}

func TestProcessor_Transfer(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.initialize())

	assert.NoError(t, env.transfer(env.extra[3:]))

	for _, extra := range [][]solana.AccountMeta{
		env.extra[3:5],
		append(append([]solana.AccountMeta{}, env.extra[3:]...), env.extra[0]),
		env.extra[:3],
	} {
		err := env.transfer(extra)
		assert.True(t, errors.Is(err, transferhook.ErrIncorrectAccount))
	}
}

func TestProcessor_Transfer_Uninitialized(t *testing.T) {
	env := setup(t)

	err := env.transfer(env.extra[3:])
	assert.Error(t, err)
}

func TestProcessor_Arbitrary(t *testing.T) {
	env := setup(t)

	instruction := solana.NewInstruction(
		env.program,
		Pack(Arbitrary{Arg: 1}),
		solana.NewReadonlyAccountMeta(env.mint, false),
		solana.NewReadonlyAccountMeta(env.authority, false),
	)
	assert.NoError(t, env.process(nil, instruction))

	instruction.Accounts = instruction.Accounts[:1]
	assert.True(t, errors.Is(env.process(nil, instruction), solana.ErrNotEnoughAccountKeys))
}

func TestProcessor_InvalidInstruction(t *testing.T) {
	env := setup(t)

	err := env.process(nil, solana.NewInstruction(env.program, []byte{1, 2, 3}))
	assert.True(t, errors.Is(err, solana.ErrInvalidInstructionData))
}

func TestExampleData(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 4)
	metas := make([]solana.AccountMeta, len(keys))
	for i, key := range keys {
		metas[i] = solana.NewAccountMeta(key, i%2 == 0)
	}

	data, err := ExampleData(metas)
	require.NoError(t, err)

	forMinting, err := accountresolution.Unpack(data, transferhook.MintToDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, metas[:3], forMinting)

	forTransferring, err := accountresolution.Unpack(data, transferhook.TransferDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, metas[3:], forTransferring)

	_, err = ExampleData(metas[:2])
	assert.Error(t, err)
}
