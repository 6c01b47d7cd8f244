package example

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/solana/runtime"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

// Processor is the example transfer hook program. It stores the accounts
// required by MintTo and Transfer at Init, and verifies they were supplied on
// every subsequent hook call.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Process(ictx *runtime.InvokeContext, program ed25519.PublicKey, accounts []*runtime.AccountInfo, data []byte) error {
	instruction, err := Unpack(data)
	if err != nil {
		return err
	}

	switch typed := instruction.(type) {
	case Init:
		ictx.Log("Instruction: Init")
		return p.processInit(ictx, program, accounts)
	case MintTo:
		ictx.Log("Instruction: Mint To")
		return p.processMintTo(program, accounts, typed.Amount)
	case Transfer:
		ictx.Log("Instruction: Transfer")
		return p.processTransfer(program, accounts, typed.Amount)
	case Arbitrary:
		ictx.Log("Instruction: Arbitrary")
		return p.processArbitrary(accounts, typed.Arg)
	default:
		return errors.Wrapf(solana.ErrInvalidInstructionData, "unhandled instruction %T", instruction)
	}
}

func (p *Processor) processInit(ictx *runtime.InvokeContext, program ed25519.PublicKey, accounts []*runtime.AccountInfo) error {
	if len(accounts) < 4+mintToAccountCount {
		return solana.ErrNotEnoughAccountKeys
	}

	validationInfo := accounts[0]
	mintInfo := accounts[1]
	authorityInfo := accounts[2]

	forMinting := accounts[4 : 4+mintToAccountCount]
	forTransferring := accounts[4+mintToAccountCount:]

	err := transferhook.CreateValidationAccountChecked(
		ictx,
		program,
		mintInfo,
		validationInfo,
		authorityInfo,
		len(forMinting),
		len(forTransferring),
	)
	if err != nil {
		return err
	}

	if err := accountresolution.InitWithAccountInfos(validationInfo.Data, transferhook.MintToDiscriminator, forMinting); err != nil {
		return err
	}
	return accountresolution.InitWithAccountInfos(validationInfo.Data, transferhook.TransferDiscriminator, forTransferring)
}

func (p *Processor) processMintTo(program ed25519.PublicKey, accounts []*runtime.AccountInfo, _ uint64) error {
	if len(accounts) < 4 {
		return solana.ErrNotEnoughAccountKeys
	}

	mintInfo := accounts[0]
	validationInfo := accounts[3]

	return transferhook.ValidateExecute(program, mintInfo, validationInfo, transferhook.MintToDiscriminator, accounts[4:])
}

func (p *Processor) processTransfer(program ed25519.PublicKey, accounts []*runtime.AccountInfo, _ uint64) error {
	if len(accounts) < 5 {
		return solana.ErrNotEnoughAccountKeys
	}

	mintInfo := accounts[1]
	validationInfo := accounts[4]

	return transferhook.ValidateExecute(program, mintInfo, validationInfo, transferhook.TransferDiscriminator, accounts[5:])
}

func (p *Processor) processArbitrary(accounts []*runtime.AccountInfo, _ uint8) error {
	if len(accounts) < 2 {
		return solana.ErrNotEnoughAccountKeys
	}
	return nil
}
