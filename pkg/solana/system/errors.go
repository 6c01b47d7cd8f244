package system

import (
	"github.com/code-payments/transfer-hook/pkg/solana"
)

// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/system_instruction.rs#L59
const (
	ErrAccountAlreadyInUse solana.CustomError = iota
	ErrResultWithNegativeLamports
	// nolint:varcheck,deadcode,unused
	ErrInvalidProgramId
	ErrInvalidAccountDataLength
	// nolint:varcheck,deadcode,unused
	ErrMaxSeedLengthExceeded
	// nolint:varcheck,deadcode,unused
	ErrAddressWithSeedMismatch
)
