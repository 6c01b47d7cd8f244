package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	key, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	buf := make([]byte, 32+(OptionSize+32)+(OptionSize+32)+8+4+1+1+1)

	var offset int
	PutKey32(buf[offset:], key, &offset)
	PutOptionalKey32(buf[offset:], key, &offset, OptionSize)
	PutOptionalKey32(buf[offset:], nil, &offset, OptionSize)
	PutUint64(buf[offset:], 1_000_000, &offset)
	PutUint32(buf[offset:], 42, &offset)
	PutUint8(buf[offset:], 7, &offset)
	PutBool(buf[offset:], true, &offset)
	PutBool(buf[offset:], false, &offset)
	require.Equal(t, len(buf), offset)

	var (
		actualKey      ed25519.PublicKey
		actualOptional ed25519.PublicKey
		actualNone     ed25519.PublicKey
		u64            uint64
		u32            uint32
		u8             uint8
		yes, no        bool
	)

	offset = 0
	GetKey32(buf[offset:], &actualKey, &offset)
	GetOptionalKey32(buf[offset:], &actualOptional, &offset, OptionSize)
	GetOptionalKey32(buf[offset:], &actualNone, &offset, OptionSize)
	GetUint64(buf[offset:], &u64, &offset)
	GetUint32(buf[offset:], &u32, &offset)
	GetUint8(buf[offset:], &u8, &offset)
	GetBool(buf[offset:], &yes, &offset)
	GetBool(buf[offset:], &no, &offset)
	require.Equal(t, len(buf), offset)

	assert.EqualValues(t, key, actualKey)
	assert.EqualValues(t, key, actualOptional)
	assert.Nil(t, actualNone)
	assert.EqualValues(t, 1_000_000, u64)
	assert.EqualValues(t, 42, u32)
	assert.EqualValues(t, 7, u8)
	assert.True(t, yes)
	assert.False(t, no)
}
