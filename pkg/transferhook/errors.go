package transferhook

import (
	"fmt"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

// Error is a failure specific to the transfer hook interface. It is reported
// by the runtime as a custom program error.
type Error uint32

const (
	// Incorrect account provided
	ErrIncorrectAccount Error = iota

	// Mint has no mint authority
	ErrMintHasNoMintAuthority

	// Incorrect mint authority has signed the instruction
	ErrIncorrectMintAuthority
)

func (e Error) Error() string {
	switch e {
	case ErrIncorrectAccount:
		return "incorrect account provided"
	case ErrMintHasNoMintAuthority:
		return "mint has no mint authority"
	case ErrIncorrectMintAuthority:
		return "incorrect mint authority has signed the instruction"
	default:
		return fmt.Sprintf("unknown transfer hook error: %d", uint32(e))
	}
}

// Code implements solana.CodedError.
func (e Error) Code() solana.CustomError {
	return solana.CustomError(e)
}
