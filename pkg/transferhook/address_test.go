package transferhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/testutil"
)

func TestGetExtraAccountMetasAddress(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)
	mint, program, other := keys[0], keys[1], keys[2]

	address, bump, err := GetExtraAccountMetasAddressAndBump(mint, program)
	require.NoError(t, err)
	assert.False(t, solana.IsOnCurve(address))

	for i := 0; i < 3; i++ {
		actualAddress, actualBump, err := GetExtraAccountMetasAddressAndBump(mint, program)
		require.NoError(t, err)
		assert.Equal(t, address, actualAddress)
		assert.Equal(t, bump, actualBump)
	}

	actual, err := GetExtraAccountMetasAddress(mint, program)
	require.NoError(t, err)
	assert.Equal(t, address, actual)

	expected, err := solana.CreateProgramAddress(program, []byte("extra-account-metas"), mint, []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, expected, address)

	signerAddress, err := CollectExtraAccountMetasSignerSeeds(mint, bump).Address(program)
	require.NoError(t, err)
	assert.Equal(t, address, signerAddress)

	otherProgram, err := GetExtraAccountMetasAddress(mint, other)
	require.NoError(t, err)
	assert.NotEqual(t, address, otherProgram)

	otherMint, err := GetExtraAccountMetasAddress(other, program)
	require.NoError(t, err)
	assert.NotEqual(t, address, otherMint)
}
