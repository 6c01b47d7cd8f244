package tlv

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
)

var (
	typeA = discriminator.New("test", "a")
	typeB = discriminator.New("test", "b")
)

func TestState_AllocAndGet(t *testing.T) {
	data := make([]byte, 2*HeaderSize+3+5)

	state, err := Unpack(data)
	require.NoError(t, err)

	ds, err := state.Discriminators()
	require.NoError(t, err)
	assert.Empty(t, ds)

	_, err = state.GetBytes(typeA)
	assert.True(t, errors.Is(err, ErrTypeNotFound))

	value, err := state.Alloc(typeA, 3)
	require.NoError(t, err)
	require.Len(t, value, 3)
	copy(value, []byte{1, 2, 3})

	value, err = state.Alloc(typeB, 5)
	require.NoError(t, err)
	require.Len(t, value, 5)
	copy(value, []byte{4, 5, 6, 7, 8})

	// Writes through the state are visible in the underlying buffer
	reloaded, err := Unpack(data)
	require.NoError(t, err)

	actual, err := reloaded.GetBytes(typeA)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, actual)

	actual, err = reloaded.GetBytes(typeB)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6, 7, 8}, actual)

	ds, err = reloaded.Discriminators()
	require.NoError(t, err)
	assert.Equal(t, []discriminator.Discriminator{typeA, typeB}, ds)

	assert.Equal(t, typeA.Bytes(), data[:discriminator.Length])
	assert.Equal(t, []byte{3, 0, 0, 0}, data[discriminator.Length:HeaderSize])
}

func TestState_AllocDuplicate(t *testing.T) {
	state, err := Unpack(make([]byte, 100))
	require.NoError(t, err)

	_, err = state.Alloc(typeA, 1)
	require.NoError(t, err)

	_, err = state.Alloc(typeA, 1)
	assert.True(t, errors.Is(err, ErrTypeAlreadyExists))
}

func TestState_AllocNoSpace(t *testing.T) {
	state, err := Unpack(make([]byte, HeaderSize+4))
	require.NoError(t, err)

	_, err = state.Alloc(typeA, 5)
	assert.True(t, errors.Is(err, solana.ErrAccountDataTooSmall))

	_, err = state.Alloc(typeA, 4)
	require.NoError(t, err)

	_, err = state.Alloc(typeB, 0)
	assert.True(t, errors.Is(err, solana.ErrAccountDataTooSmall))
}

func TestState_AllocUninitialized(t *testing.T) {
	state, err := Unpack(make([]byte, 100))
	require.NoError(t, err)

	_, err = state.Alloc(discriminator.Uninitialized, 1)
	assert.True(t, errors.Is(err, solana.ErrInvalidArgument))
}

func TestUnpack_Malformed(t *testing.T) {
	// Length overruns the buffer
	data := make([]byte, HeaderSize+2)
	copy(data, typeA.Bytes())
	data[discriminator.Length] = 10

	_, err := Unpack(data)
	assert.True(t, errors.Is(err, solana.ErrInvalidAccountData))

	// Non-zero trailing bytes too short for a header
	data = make([]byte, HeaderSize+1+5)
	copy(data, typeA.Bytes())
	data[discriminator.Length] = 1
	data[HeaderSize+1] = 9

	_, err = Unpack(data)
	assert.True(t, errors.Is(err, solana.ErrInvalidAccountData))

	// Zero trailing bytes are fine
	data[HeaderSize+1] = 0
	_, err = Unpack(data)
	assert.NoError(t, err)
}

func TestUnpack_Empty(t *testing.T) {
	state, err := Unpack(nil)
	require.NoError(t, err)

	_, err = state.Alloc(typeA, 0)
	assert.True(t, errors.Is(err, solana.ErrAccountDataTooSmall))
}
