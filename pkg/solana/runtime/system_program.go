package runtime

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/system"
)

// systemProgram is the builtin implementation of the subset of the system
// program used to create accounts.
//
// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/programs/system/src/system_processor.rs
type systemProgram struct{}

func (p systemProgram) Process(ictx *InvokeContext, program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	instruction := solana.Instruction{
		Program:  program,
		Accounts: make([]solana.AccountMeta, len(accounts)),
		Data:     data,
	}
	for i, account := range accounts {
		instruction.Accounts[i] = account.Meta()
	}

	cmd, err := system.GetCommand(instruction)
	if err != nil {
		return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
	}

	switch cmd {
	case system.CommandCreateAccount:
		args, err := system.DecompileCreateAccount(instruction)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.createAccount(ictx, accounts[0], accounts[1], args.Lamports, args.Size, args.Owner)
	case system.CommandAllocate:
		args, err := system.DecompileAllocate(instruction)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.allocate(ictx, accounts[0], args.Size)
	case system.CommandAssign:
		args, err := system.DecompileAssign(instruction)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.assign(ictx, accounts[0], args.Owner)
	case system.CommandTransfer:
		args, err := system.DecompileTransfer(instruction)
		if err != nil {
			return errors.Wrap(solana.ErrInvalidInstructionData, err.Error())
		}
		return p.transfer(ictx, accounts[0], accounts[1], args.Lamports)
	default:
		return errors.Wrapf(solana.ErrInvalidInstructionData, "unsupported system command: %d", cmd)
	}
}

func (p systemProgram) allocate(ictx *InvokeContext, account *AccountInfo, size uint64) error {
	if !account.IsSigner {
		ictx.Log("Allocate: 'to' account %s must sign", base58.Encode(account.Key))
		return solana.ErrMissingRequiredSignature
	}

	if len(account.Data) > 0 || !account.IsOwnedBy(system.ProgramKey[:]) {
		ictx.Log("Allocate: account %s already in use", base58.Encode(account.Key))
		return system.ErrAccountAlreadyInUse
	}

	if size > system.MaxPermittedDataLength {
		ictx.Log("Allocate: requested %d, max allowed %d", size, system.MaxPermittedDataLength)
		return system.ErrInvalidAccountDataLength
	}

	account.Data = make([]byte, size)
	return nil
}

func (p systemProgram) assign(ictx *InvokeContext, account *AccountInfo, owner ed25519.PublicKey) error {
	if account.IsOwnedBy(owner) {
		return nil
	}

	if !account.IsSigner {
		ictx.Log("Assign: account %s must sign", base58.Encode(account.Key))
		return solana.ErrMissingRequiredSignature
	}

	account.Owner = append(ed25519.PublicKey(nil), owner...)
	return nil
}

func (p systemProgram) transfer(ictx *InvokeContext, from, to *AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		ictx.Log("Transfer: `from` account %s must sign", base58.Encode(from.Key))
		return solana.ErrMissingRequiredSignature
	}

	if len(from.Data) > 0 {
		ictx.Log("Transfer: `from` must not carry data")
		return solana.ErrInvalidArgument
	}

	if lamports > from.Lamports {
		ictx.Log("Transfer: insufficient lamports %d, need %d", from.Lamports, lamports)
		return system.ErrResultWithNegativeLamports
	}

	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}

func (p systemProgram) createAccount(ictx *InvokeContext, from, to *AccountInfo, lamports, size uint64, owner ed25519.PublicKey) error {
	if to.Lamports > 0 {
		ictx.Log("Create Account: account %s already in use", base58.Encode(to.Key))
		return system.ErrAccountAlreadyInUse
	}

	if err := p.allocate(ictx, to, size); err != nil {
		return err
	}
	if err := p.assign(ictx, to, owner); err != nil {
		return err
	}
	return p.transfer(ictx, from, to, lamports)
}
