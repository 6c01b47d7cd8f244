package discriminator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

func TestNew_KnownValues(t *testing.T) {
	for _, tc := range []struct {
		namespace string
		name      string
		expected  Discriminator
	}{
		{"spl-hook-interface", "initialize-extra-account-metas", Discriminator{233, 153, 239, 113, 226, 61, 67, 134}},
		{"spl-hook-interface", "mint-to", Discriminator{143, 74, 223, 72, 254, 24, 18, 53}},
		{"spl-hook-interface", "transfer", Discriminator{31, 159, 135, 240, 172, 53, 179, 104}},
		{"spl-hook-interface-example", "arbitrary", Discriminator{159, 188, 87, 78, 151, 190, 23, 195}},
	} {
		assert.Equal(t, tc.expected, New(tc.namespace, tc.name), "%s:%s", tc.namespace, tc.name)
	}
}

func TestNew_Deterministic(t *testing.T) {
	first := New("ns", "op")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, New("ns", "op"))
	}
	assert.NotEqual(t, first, New("ns", "op2"))
	assert.NotEqual(t, first, New("ns2", "op"))
	assert.False(t, first.IsUninitialized())
	assert.True(t, Uninitialized.IsUninitialized())
}

func TestFromBytes(t *testing.T) {
	d := New("ns", "op")

	actual, err := FromBytes(d.Bytes())
	require.NoError(t, err)
	assert.Equal(t, d, actual)

	_, err = FromBytes(d.Bytes()[:7])
	assert.Equal(t, ErrInvalidLength, err)

	_, err = FromBytes(append(d.Bytes(), 0))
	assert.Equal(t, ErrInvalidLength, err)
}

func TestSplit(t *testing.T) {
	d := New("ns", "op")

	actual, rest, err := Split(append(d.Bytes(), 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, d, actual)
	assert.Equal(t, []byte{1, 2, 3}, rest)

	actual, rest, err = Split(d.Bytes())
	require.NoError(t, err)
	assert.Equal(t, d, actual)
	assert.Empty(t, rest)

	for i := 0; i < Length; i++ {
		_, _, err = Split(make([]byte, i))
		assert.True(t, errors.Is(err, solana.ErrInvalidInstructionData))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "1f9f87f0ac35b368", New("spl-hook-interface", "transfer").String())
}
