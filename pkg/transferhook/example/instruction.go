package example

import (
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

// ArbitraryDiscriminator is the first 8 bytes of
// sha256("spl-hook-interface-example:arbitrary").
var ArbitraryDiscriminator = discriminator.Discriminator{
	159, 188, 87, 78, 151, 190, 23, 195,
}

// Instruction is one of Init, MintTo, Transfer or Arbitrary.
type Instruction interface {
	Pack() []byte

	isInstruction()
}

// Init initializes the extra account metas on the validation account,
// writing into the first open TLV space.
//
// Accounts expected by this instruction:
//
//  0. [w] Validation account
//  1. [] Mint
//  2. [s] Mint authority
//  3. [] System program
//  4..7 [] Additional accounts required by MintTo
//  7..  [] Additional accounts required by Transfer
type Init struct{}

// MintTo runs additional mint logic.
//
// Accounts expected by this instruction:
//
//  0. [] Token mint
//  1. [] Destination account
//  2. [] Mint authority
//  3. [] Validation account
//  4..4+M [] M additional accounts, as written in the validation account
type MintTo struct {
	Amount uint64
}

// Transfer runs additional transfer logic.
//
// Accounts expected by this instruction:
//
//  0. [] Source account
//  1. [] Token mint
//  2. [] Destination account
//  3. [] Source account's owner/delegate
//  4. [] Validation account
//  5..5+M [] M additional accounts, as written in the validation account
type Transfer struct {
	Amount uint64
}

// Arbitrary is a program specific instruction outside of the interface.
//
// Accounts expected by this instruction:
//
//  0. [] Token mint
//  1. [] Mint authority
type Arbitrary struct {
	Arg uint8
}

const arbitraryArgsSize = 1

func (Init) isInstruction()      {}
func (MintTo) isInstruction()    {}
func (Transfer) isInstruction()  {}
func (Arbitrary) isInstruction() {}

func (i Init) Pack() []byte {
	return transferhook.InitializeExtraAccountMetas{}.Pack()
}

func (i MintTo) Pack() []byte {
	return transferhook.MintTo{Amount: i.Amount}.Pack()
}

func (i Transfer) Pack() []byte {
	return transferhook.Transfer{Amount: i.Amount}.Pack()
}

func (i Arbitrary) Pack() []byte {
	data := make([]byte, discriminator.Length+arbitraryArgsSize)
	offset := copy(data, ArbitraryDiscriminator[:])
	data[offset] = i.Arg
	return data
}

// Pack encodes instruction as discriminator ++ little endian payload.
func Pack(instruction Instruction) []byte {
	return instruction.Pack()
}

type decoder func(payload []byte) (Instruction, error)

var decoders = map[discriminator.Discriminator]decoder{
	transferhook.InitializeExtraAccountMetasDiscriminator: func(payload []byte) (Instruction, error) {
		return Init{}, nil
	},
	transferhook.MintToDiscriminator: func(payload []byte) (Instruction, error) {
		var args transferhook.MintTo
		if err := args.Unmarshal(payload); err != nil {
			return nil, err
		}
		return MintTo{Amount: args.Amount}, nil
	},
	transferhook.TransferDiscriminator: func(payload []byte) (Instruction, error) {
		var args transferhook.Transfer
		if err := args.Unmarshal(payload); err != nil {
			return nil, err
		}
		return Transfer{Amount: args.Amount}, nil
	},
	ArbitraryDiscriminator: func(payload []byte) (Instruction, error) {
		if len(payload) < arbitraryArgsSize {
			return nil, errors.Wrapf(solana.ErrInvalidInstructionData, "arbitrary payload too short: %d", len(payload))
		}
		return Arbitrary{Arg: payload[0]}, nil
	},
}

// Unpack decodes instruction data into one of the program's instructions.
func Unpack(data []byte) (Instruction, error) {
	d, payload, err := transferhook.UnpackWithDiscriminatorChecked(data)
	if err != nil {
		return nil, err
	}

	decode, ok := decoders[d]
	if !ok {
		return nil, errors.Wrapf(solana.ErrInvalidInstructionData, "unknown discriminator: %s", d)
	}
	return decode(payload)
}
