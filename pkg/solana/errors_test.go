package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionError_ProgramError(t *testing.T) {
	e := NewInstructionError(2, ErrInvalidSeeds)

	assert.Equal(t, 2, e.Index)
	assert.Equal(t, InstructionErrorInvalidSeeds, e.ErrorKey())
	assert.Nil(t, e.CustomError())
	assert.Equal(t, `[2, "InvalidSeeds"]`, e.JSONString())
	assert.Equal(t, "Error processing Instruction 2: InvalidSeeds", e.Error())
	assert.True(t, errors.Is(e, ErrInvalidSeeds))
	assert.False(t, errors.Is(e, ErrMissingRequiredSignature))
}

func TestInstructionError_Wrapped(t *testing.T) {
	e := NewInstructionError(0, errors.Wrap(ErrInvalidInstructionData, "unexpected discriminator"))

	assert.Equal(t, InstructionErrorInvalidInstructionData, e.ErrorKey())
	assert.True(t, errors.Is(e, ErrInvalidInstructionData))
}

func TestInstructionError_Custom(t *testing.T) {
	e := NewInstructionError(1, CustomError(3))

	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	require.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(3), *e.CustomError())
	assert.Equal(t, `[1, {"Custom": 3}]`, e.JSONString())
	assert.True(t, errors.Is(e, CustomError(3)))
}

type testCodedError uint32

func (e testCodedError) Error() string {
	return "coded"
}

func (e testCodedError) Code() CustomError {
	return CustomError(e)
}

func TestInstructionError_CodedError(t *testing.T) {
	e := NewInstructionError(4, errors.Wrap(testCodedError(7), "context"))

	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	require.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(7), *e.CustomError())
}

func TestInstructionError_Empty(t *testing.T) {
	var e InstructionError
	assert.Equal(t, InstructionErrorKey(""), e.ErrorKey())
}
