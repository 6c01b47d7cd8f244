package transferhook

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/binary"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
)

// MintToDiscriminator is the first 8 bytes of
// sha256("spl-hook-interface:mint-to").
var MintToDiscriminator = discriminator.Discriminator{
	143, 74, 223, 72, 254, 24, 18, 53,
}

const (
	MintToArgsSize = 8 // amount
)

// MintTo runs additional logic after tokens are minted.
type MintTo struct {
	Amount uint64
}

func (m MintTo) Discriminator() discriminator.Discriminator {
	return MintToDiscriminator
}

func (m MintTo) Pack() []byte {
	data := make([]byte, discriminator.Length+MintToArgsSize)

	offset := copy(data, MintToDiscriminator[:])
	binary.PutUint64(data[offset:], m.Amount, &offset)

	return data
}

// Unmarshal decodes the payload following the discriminator. Trailing bytes
// are ignored.
func (m *MintTo) Unmarshal(payload []byte) error {
	if len(payload) < MintToArgsSize {
		return errors.Wrapf(solana.ErrInvalidInstructionData, "mint to payload too short: %d", len(payload))
	}

	var offset int
	binary.GetUint64(payload, &m.Amount, &offset)
	return nil
}

type MintToInstructionAccounts struct {
	Mint              ed25519.PublicKey
	Destination       ed25519.PublicKey
	Authority         ed25519.PublicKey
	ExtraAccountMetas ed25519.PublicKey
}

// NewMintToInstruction builds a hook MintTo instruction without the
// additional accounts.
//
// Accounts expected by this instruction:
//
//  0. [] Token mint
//  1. [] Destination account
//  2. [] Mint authority
//  3. [] Validation account
//  4..4+M [] M additional accounts, as written in the validation account
func NewMintToInstruction(
	program ed25519.PublicKey,
	accounts *MintToInstructionAccounts,
	args *MintTo,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		Data: args.Pack(),

		Accounts: []solana.AccountMeta{
			solana.NewReadonlyAccountMeta(accounts.Mint, false),
			solana.NewReadonlyAccountMeta(accounts.Destination, false),
			solana.NewReadonlyAccountMeta(accounts.Authority, false),
			solana.NewReadonlyAccountMeta(accounts.ExtraAccountMetas, false),
		},
	}
}

func NewMintToInstructionWithExtraAccountMetas(
	program ed25519.PublicKey,
	accounts *MintToInstructionAccounts,
	args *MintTo,
	additionalAccounts []solana.AccountMeta,
) solana.Instruction {
	instruction := NewMintToInstruction(program, accounts, args)
	instruction.Accounts = append(instruction.Accounts, additionalAccounts...)
	return instruction
}
