package transferhook

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/binary"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
)

// TransferDiscriminator is the first 8 bytes of
// sha256("spl-hook-interface:transfer").
var TransferDiscriminator = discriminator.Discriminator{
	31, 159, 135, 240, 172, 53, 179, 104,
}

const (
	TransferArgsSize = 8 // amount
)

// Transfer runs additional logic after tokens are transferred.
type Transfer struct {
	Amount uint64
}

func (t Transfer) Discriminator() discriminator.Discriminator {
	return TransferDiscriminator
}

func (t Transfer) Pack() []byte {
	data := make([]byte, discriminator.Length+TransferArgsSize)

	offset := copy(data, TransferDiscriminator[:])
	binary.PutUint64(data[offset:], t.Amount, &offset)

	return data
}

// Unmarshal decodes the payload following the discriminator. Trailing bytes
// are ignored.
func (t *Transfer) Unmarshal(payload []byte) error {
	if len(payload) < TransferArgsSize {
		return errors.Wrapf(solana.ErrInvalidInstructionData, "transfer payload too short: %d", len(payload))
	}

	var offset int
	binary.GetUint64(payload, &t.Amount, &offset)
	return nil
}

type TransferInstructionAccounts struct {
	Source            ed25519.PublicKey
	Mint              ed25519.PublicKey
	Destination       ed25519.PublicKey
	Authority         ed25519.PublicKey
	ExtraAccountMetas ed25519.PublicKey
}

// NewTransferInstruction builds a hook Transfer instruction without the
// additional accounts.
//
// Accounts expected by this instruction:
//
//  0. [] Source account
//  1. [] Token mint
//  2. [] Destination account
//  3. [] Source account's owner/delegate
//  4. [] Validation account
//  5..5+M [] M additional accounts, as written in the validation account
func NewTransferInstruction(
	program ed25519.PublicKey,
	accounts *TransferInstructionAccounts,
	args *Transfer,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		Data: args.Pack(),

		Accounts: []solana.AccountMeta{
			solana.NewReadonlyAccountMeta(accounts.Source, false),
			solana.NewReadonlyAccountMeta(accounts.Mint, false),
			solana.NewReadonlyAccountMeta(accounts.Destination, false),
			solana.NewReadonlyAccountMeta(accounts.Authority, false),
			solana.NewReadonlyAccountMeta(accounts.ExtraAccountMetas, false),
		},
	}
}

func NewTransferInstructionWithExtraAccountMetas(
	program ed25519.PublicKey,
	accounts *TransferInstructionAccounts,
	args *Transfer,
	additionalAccounts []solana.AccountMeta,
) solana.Instruction {
	instruction := NewTransferInstruction(program, accounts, args)
	instruction.Accounts = append(instruction.Accounts, additionalAccounts...)
	return instruction
}
