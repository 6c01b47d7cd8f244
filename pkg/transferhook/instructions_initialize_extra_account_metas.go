package transferhook

import (
	"crypto/ed25519"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
)

// InitializeExtraAccountMetasDiscriminator is the first 8 bytes of
// sha256("spl-hook-interface:initialize-extra-account-metas").
var InitializeExtraAccountMetasDiscriminator = discriminator.Discriminator{
	233, 153, 239, 113, 226, 61, 67, 134,
}

// InitializeExtraAccountMetas initializes the extra account metas in a
// validation account.
type InitializeExtraAccountMetas struct {
}

func (i InitializeExtraAccountMetas) Discriminator() discriminator.Discriminator {
	return InitializeExtraAccountMetasDiscriminator
}

func (i InitializeExtraAccountMetas) Pack() []byte {
	return InitializeExtraAccountMetasDiscriminator.Bytes()
}

type InitializeExtraAccountMetasInstructionAccounts struct {
	ExtraAccountMetas ed25519.PublicKey
	Mint              ed25519.PublicKey
	Authority         ed25519.PublicKey
}

// NewInitializeExtraAccountMetasInstruction builds the instruction creating
// the validation account. The additional accounts are written to the
// validation data by the hook program.
//
// Accounts expected by this instruction:
//
//  0. [w] Validation account
//  1. [] Mint
//  2. [s] Mint authority
//  3. [] System program
//  4..4+M [] M additional accounts
func NewInitializeExtraAccountMetasInstruction(
	program ed25519.PublicKey,
	accounts *InitializeExtraAccountMetasInstructionAccounts,
	additionalAccounts ...solana.AccountMeta,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		Data: InitializeExtraAccountMetas{}.Pack(),

		Accounts: append(
			[]solana.AccountMeta{
				{
					PublicKey:  accounts.ExtraAccountMetas,
					IsWritable: true,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.Mint,
					IsWritable: false,
					IsSigner:   false,
				},
				{
					PublicKey:  accounts.Authority,
					IsWritable: false,
					IsSigner:   true,
				},
				{
					PublicKey:  system.ProgramKey[:],
					IsWritable: false,
					IsSigner:   false,
				},
			},
			additionalAccounts...,
		),
	}
}
