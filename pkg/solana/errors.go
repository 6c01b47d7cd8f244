package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// InstructionErrorKey is the string keys returned in an instruction error.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError                   InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument                InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData         InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData             InstructionErrorKey = "InvalidAccountData"
	InstructionErrorAccountDataTooSmall            InstructionErrorKey = "AccountDataTooSmall"
	InstructionErrorInsufficientFunds              InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID             InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature       InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized      InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorUninitializedAccount           InstructionErrorKey = "UninitializedAccount"
	InstructionErrorUnbalancedInstruction          InstructionErrorKey = "UnbalancedInstruction"
	InstructionErrorModifiedProgramID              InstructionErrorKey = "ModifiedProgramId"
	InstructionErrorExternalAccountLamportSpend    InstructionErrorKey = "ExternalAccountLamportSpend"
	InstructionErrorExternalAccountDataModified    InstructionErrorKey = "ExternalAccountDataModified"
	InstructionErrorReadonlyLamportChange          InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorReadonlyDataModified           InstructionErrorKey = "ReadonlyDataModified"
	InstructionErrorDuplicateAccountIndex          InstructionErrorKey = "DuplicateAccountIndex"
	InstructionErrorExecutableModified             InstructionErrorKey = "ExecutableModified"
	InstructionErrorRentEpochModified              InstructionErrorKey = "RentEpochModified"
	InstructionErrorNotEnoughAccountKeys           InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorAccountDataSizeChanged         InstructionErrorKey = "AccountDataSizeChanged"
	InstructionErrorAccountNotExecutable           InstructionErrorKey = "AccountNotExecutable"
	InstructionErrorAccountBorrowFailed            InstructionErrorKey = "AccountBorrowFailed"
	InstructionErrorAccountBorrowOutstanding       InstructionErrorKey = "AccountBorrowOutstanding"
	InstructionErrorDuplicateAccountOutOfSync      InstructionErrorKey = "DuplicateAccountOutOfSync"
	InstructionErrorCustom                         InstructionErrorKey = "Custom"
	InstructionErrorInvalidError                   InstructionErrorKey = "InvalidError"
	InstructionErrorExecutableDataModified         InstructionErrorKey = "ExecutableDataModified"
	InstructionErrorExecutableLamportChange        InstructionErrorKey = "ExecutableLamportChange"
	InstructionErrorExecutableAccountNotRentExempt InstructionErrorKey = "ExecutableAccountNotRentExempt"
	InstructionErrorUnsupportedProgramID           InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorCallDepth                      InstructionErrorKey = "CallDepth"
	InstructionErrorMissingAccount                 InstructionErrorKey = "MissingAccount"
	InstructionErrorReentrancyNotAllowed           InstructionErrorKey = "ReentrancyNotAllowed"
	InstructionErrorMaxSeedLengthExceeded          InstructionErrorKey = "MaxSeedLengthExceeded"
	InstructionErrorInvalidSeeds                   InstructionErrorKey = "InvalidSeeds"
	InstructionErrorInvalidRealloc                 InstructionErrorKey = "InvalidRealloc"
)

// ProgramError is a builtin error returned by a program while processing an
// instruction. Program specific failures use CustomError instead.
type ProgramError InstructionErrorKey

func (e ProgramError) Error() string {
	return string(e)
}

// Key returns the instruction error key the runtime reports for e.
func (e ProgramError) Key() InstructionErrorKey {
	return InstructionErrorKey(e)
}

var (
	ErrInvalidArgument             = ProgramError(InstructionErrorInvalidArgument)
	ErrInvalidInstructionData      = ProgramError(InstructionErrorInvalidInstructionData)
	ErrInvalidAccountData          = ProgramError(InstructionErrorInvalidAccountData)
	ErrAccountDataTooSmall         = ProgramError(InstructionErrorAccountDataTooSmall)
	ErrInsufficientFunds           = ProgramError(InstructionErrorInsufficientFunds)
	ErrIncorrectProgramID          = ProgramError(InstructionErrorIncorrectProgramID)
	ErrMissingRequiredSignature    = ProgramError(InstructionErrorMissingRequiredSignature)
	ErrAccountAlreadyInitialized   = ProgramError(InstructionErrorAccountAlreadyInitialized)
	ErrUninitializedAccount        = ProgramError(InstructionErrorUninitializedAccount)
	ErrUnbalancedInstruction       = ProgramError(InstructionErrorUnbalancedInstruction)
	ErrModifiedProgramID           = ProgramError(InstructionErrorModifiedProgramID)
	ErrExternalAccountLamportSpend = ProgramError(InstructionErrorExternalAccountLamportSpend)
	ErrExternalAccountDataModified = ProgramError(InstructionErrorExternalAccountDataModified)
	ErrReadonlyLamportChange       = ProgramError(InstructionErrorReadonlyLamportChange)
	ErrReadonlyDataModified        = ProgramError(InstructionErrorReadonlyDataModified)
	ErrNotEnoughAccountKeys        = ProgramError(InstructionErrorNotEnoughAccountKeys)
	ErrUnsupportedProgramID        = ProgramError(InstructionErrorUnsupportedProgramID)
	ErrCallDepth                   = ProgramError(InstructionErrorCallDepth)
	ErrMissingAccount              = ProgramError(InstructionErrorMissingAccount)
	ErrReentrancyNotAllowed        = ProgramError(InstructionErrorReentrancyNotAllowed)
	ErrInvalidSeeds                = ProgramError(InstructionErrorInvalidSeeds)
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %x", int(c))
}

// Code implements CodedError.
func (c CustomError) Code() CustomError {
	return c
}

// CodedError is implemented by program specific error enums that map onto a
// custom program error code.
type CodedError interface {
	error
	Code() CustomError
}

// InstructionError indicates an instruction returned an error in a transaction.
type InstructionError struct {
	Index int
	Err   error
}

// NewInstructionError wraps err as the failure of the instruction at index.
func NewInstructionError(index int, err error) InstructionError {
	return InstructionError{
		Index: index,
		Err:   err,
	}
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	if i.Err == nil {
		return ""
	}

	if i.CustomError() != nil {
		return InstructionErrorCustom
	}

	var programErr ProgramError
	if errors.As(i.Err, &programErr) {
		return programErr.Key()
	}

	return InstructionErrorKey(i.Err.Error())
}

func (i InstructionError) JSONString() string {
	if ce := i.CustomError(); ce != nil {
		return fmt.Sprintf(`[%d, {"%s": %d}]`, i.Index, InstructionErrorCustom, *ce)
	}

	return fmt.Sprintf(`[%d, "%s"]`, i.Index, i.ErrorKey())
}

func (i InstructionError) CustomError() *CustomError {
	var coded CodedError
	if errors.As(i.Err, &coded) {
		ce := coded.Code()
		return &ce
	}

	return nil
}
