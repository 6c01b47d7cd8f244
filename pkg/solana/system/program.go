package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

// ProgramKey is the system program address (11111111111111111111111111111111).
var ProgramKey [32]byte

// MaxPermittedDataLength is the largest account the system program will
// allocate.
//
// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/system_instruction.rs#L52
const MaxPermittedDataLength = 10 * 1024 * 1024

type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
	// nolint:varcheck,deadcode,unused
	CommandCreateAccountWithSeed
	// nolint:varcheck,deadcode,unused
	CommandAdvanceNonceAccount
	// nolint:varcheck,deadcode,unused
	CommandWithdrawNonceAccount
	// nolint:varcheck,deadcode,unused
	CommandInitializeNonceAccount
	// nolint:varcheck,deadcode,unused
	CommandAuthorizeNonceAccount
	CommandAllocate
)

const commandSize = 4

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	data := make([]byte, commandSize+2*8+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandCreateAccount))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

// Allocate space in a (possibly new) account without funding.
func Allocate(address ed25519.PublicKey, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] New account
	data := make([]byte, commandSize+8)
	binary.LittleEndian.PutUint32(data, uint32(CommandAllocate))
	binary.LittleEndian.PutUint64(data[4:], size)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(address, true),
	)
}

// Assign account to a program.
func Assign(address, owner ed25519.PublicKey) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Assigned account public key
	data := make([]byte, commandSize+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandAssign))
	copy(data[4:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(address, true),
	)
}

// Transfer lamports between system owned accounts.
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	data := make([]byte, commandSize+8)
	binary.LittleEndian.PutUint32(data, uint32(CommandTransfer))
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

// GetCommand returns the system command encoded in the instruction.
func GetCommand(i solana.Instruction) (Command, error) {
	if !bytes.Equal(i.Program, ProgramKey[:]) {
		return 0, solana.ErrIncorrectProgram
	}
	if len(i.Data) < commandSize {
		return 0, solana.ErrIncorrectInstruction
	}
	return Command(binary.LittleEndian.Uint32(i.Data)), nil
}

func checkInstruction(i solana.Instruction, cmd Command, accounts, dataSize int) error {
	actual, err := GetCommand(i)
	if err != nil {
		return err
	}
	if actual != cmd {
		return solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != accounts {
		return errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != dataSize {
		return errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	return nil
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(i solana.Instruction) (*DecompiledCreateAccount, error) {
	if err := checkInstruction(i, CommandCreateAccount, 2, commandSize+2*8+32); err != nil {
		return nil, err
	}

	v := &DecompiledCreateAccount{
		Funder:  i.Accounts[0].PublicKey,
		Address: i.Accounts[1].PublicKey,
	}
	v.Lamports = binary.LittleEndian.Uint64(i.Data[4:])
	v.Size = binary.LittleEndian.Uint64(i.Data[4+8:])
	v.Owner = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(v.Owner, i.Data[4+2*8:])

	return v, nil
}

type DecompiledAllocate struct {
	Address ed25519.PublicKey
	Size    uint64
}

func DecompileAllocate(i solana.Instruction) (*DecompiledAllocate, error) {
	if err := checkInstruction(i, CommandAllocate, 1, commandSize+8); err != nil {
		return nil, err
	}

	return &DecompiledAllocate{
		Address: i.Accounts[0].PublicKey,
		Size:    binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}

type DecompiledAssign struct {
	Address ed25519.PublicKey
	Owner   ed25519.PublicKey
}

func DecompileAssign(i solana.Instruction) (*DecompiledAssign, error) {
	if err := checkInstruction(i, CommandAssign, 1, commandSize+32); err != nil {
		return nil, err
	}

	v := &DecompiledAssign{
		Address: i.Accounts[0].PublicKey,
		Owner:   make(ed25519.PublicKey, ed25519.PublicKeySize),
	}
	copy(v.Owner, i.Data[4:])
	return v, nil
}

type DecompiledTransfer struct {
	From     ed25519.PublicKey
	To       ed25519.PublicKey
	Lamports uint64
}

func DecompileTransfer(i solana.Instruction) (*DecompiledTransfer, error) {
	if err := checkInstruction(i, CommandTransfer, 2, commandSize+8); err != nil {
		return nil, err
	}

	return &DecompiledTransfer{
		From:     i.Accounts[0].PublicKey,
		To:       i.Accounts[1].PublicKey,
		Lamports: binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}
