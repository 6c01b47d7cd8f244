package tests

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	"github.com/code-payments/transfer-hook/pkg/database/query"
	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/accountresolution"
	"github.com/code-payments/transfer-hook/pkg/testutil"
	"github.com/code-payments/transfer-hook/pkg/transferhook"
)

func RunTests(t *testing.T, s extraaccountmetas.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s extraaccountmetas.Store){
		testHappyPath,
		testStaleUpdate,
		testConflictingMintAndProgram,
		testInvalidRecord,
		testGetAllByProgram,
		testGetCountByProgram,
	} {
		tf(t, s)
		teardown()
	}
}

// NewTestRecord returns a record for a random mint under a random hook
// program, storing extraAccounts random metas for Transfer.
func NewTestRecord(t *testing.T, extraAccounts int) *extraaccountmetas.Record {
	return NewTestRecordForProgram(t, testutil.GenerateSolanaKey(t), extraAccounts)
}

func NewTestRecordForProgram(t *testing.T, program ed25519.PublicKey, extraAccounts int) *extraaccountmetas.Record {
	mint := testutil.GenerateSolanaKey(t)

	address, bump, err := transferhook.GetExtraAccountMetasAddressAndBump(mint, program)
	require.NoError(t, err)

	metas := make([]solana.AccountMeta, extraAccounts)
	for i, key := range testutil.GenerateSolanaKeys(t, extraAccounts) {
		metas[i] = solana.NewReadonlyAccountMeta(key, false)
	}

	data := make([]byte, accountresolution.SizeOf(extraAccounts))
	require.NoError(t, accountresolution.InitWithAccountMetas(data, transferhook.TransferDiscriminator, metas))

	return extraaccountmetas.NewRecordFromAccountData(mint, program, address, bump, data, 100)
}

func testHappyPath(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testHappyPath", func(t *testing.T) {
		start := time.Now()

		ctx := context.Background()

		expected := NewTestRecord(t, 3)
		cloned := expected.Clone()

		// Validate the record initially doesn't exist

		_, err := s.GetByAddress(ctx, expected.Address)
		assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)

		_, err = s.GetByMintAndProgram(ctx, expected.Mint, expected.Program)
		assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)

		// Save the record

		require.NoError(t, s.Save(ctx, expected))
		assert.True(t, expected.Id > 0)
		assert.True(t, expected.LastUpdatedAt.After(start))

		// Ensure we can fetch the same record by all supported indices

		actual, err := s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)
		assert.Equal(t, expected.Id, actual.Id)

		actual, err = s.GetByMintAndProgram(ctx, expected.Mint, expected.Program)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)

		metas, err := actual.GetExtraAccountMetas(transferhook.TransferDiscriminator)
		require.NoError(t, err)
		assert.Len(t, metas, 3)

		// Update the record at a later slot

		data := make([]byte, accountresolution.SizeOf(1))
		require.NoError(t, accountresolution.InitWithAccountMetas(data, transferhook.TransferDiscriminator, metas[:1]))

		expected.Data = data
		expected.Slot += 1
		cloned = expected.Clone()

		require.NoError(t, s.Save(ctx, expected))

		actual, err = s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)
		assert.Equal(t, expected.Id, actual.Id)

		metas, err = actual.GetExtraAccountMetas(transferhook.TransferDiscriminator)
		require.NoError(t, err)
		assert.Len(t, metas, 1)
	})
}

func testStaleUpdate(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testStaleUpdate", func(t *testing.T) {
		ctx := context.Background()

		expected := NewTestRecord(t, 2)
		require.NoError(t, s.Save(ctx, expected))
		cloned := expected.Clone()

		for _, slot := range []uint64{expected.Slot - 1, expected.Slot} {
			stale := expected.Clone()
			stale.Data = nil
			stale.Slot = slot
			assert.Equal(t, extraaccountmetas.ErrStaleRecord, s.Save(ctx, stale))
		}

		actual, err := s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assertEquivalentRecords(t, cloned, actual)
	})
}

func testConflictingMintAndProgram(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testConflictingMintAndProgram", func(t *testing.T) {
		ctx := context.Background()

		expected := NewTestRecord(t, 2)
		require.NoError(t, s.Save(ctx, expected))

		conflicting := expected.Clone()
		conflicting.Id = 0
		conflicting.Address = base58.Encode(testutil.GenerateSolanaKey(t))
		assert.ErrorIs(t, s.Save(ctx, conflicting), extraaccountmetas.ErrInvalidRecord)

		_, err := s.GetByAddress(ctx, conflicting.Address)
		assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)

		reused := expected.Clone()
		reused.Id = 0
		reused.Mint = base58.Encode(testutil.GenerateSolanaKey(t))
		reused.Slot = expected.Slot + 1
		assert.ErrorIs(t, s.Save(ctx, reused), extraaccountmetas.ErrInvalidRecord)

		actual, err := s.GetByAddress(ctx, expected.Address)
		require.NoError(t, err)
		assert.Equal(t, expected.Mint, actual.Mint)
		assert.Equal(t, expected.Slot, actual.Slot)
	})
}

func testInvalidRecord(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testInvalidRecord", func(t *testing.T) {
		ctx := context.Background()

		for _, mutate := range []func(r *extraaccountmetas.Record){
			func(r *extraaccountmetas.Record) { r.Address = "" },
			func(r *extraaccountmetas.Record) { r.Mint = "invalid" },
			func(r *extraaccountmetas.Record) { r.Program = base58.Encode([]byte{1, 2, 3}) },
			func(r *extraaccountmetas.Record) { r.Data = []byte{1, 2, 3, 4, 5, 6, 7, 8, 0xff, 0, 0, 0} },
		} {
			record := NewTestRecord(t, 1)
			mutate(record)
			assert.ErrorIs(t, s.Save(ctx, record), extraaccountmetas.ErrInvalidRecord)
		}
	})
}

func testGetAllByProgram(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testGetAllByProgram", func(t *testing.T) {
		ctx := context.Background()

		program := testutil.GenerateSolanaKey(t)

		var expected []*extraaccountmetas.Record
		for i := 0; i < 5; i++ {
			record := NewTestRecordForProgram(t, program, i)
			require.NoError(t, s.Save(ctx, record))
			expected = append(expected, record.Clone())

			// Records for other programs are never returned
			require.NoError(t, s.Save(ctx, NewTestRecord(t, i)))
		}

		_, err := s.GetAllByProgram(ctx, base58.Encode(testutil.GenerateSolanaKey(t)), query.EmptyCursor, 10, query.Ascending)
		assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)

		actual, err := s.GetAllByProgram(ctx, base58.Encode(program), query.EmptyCursor, 10, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 5)
		for i := range expected {
			assertEquivalentRecords(t, expected[i], actual[i])
		}

		actual, err = s.GetAllByProgram(ctx, base58.Encode(program), query.EmptyCursor, 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 5)
		for i := range expected {
			assertEquivalentRecords(t, expected[len(expected)-1-i], actual[i])
		}

		actual, err = s.GetAllByProgram(ctx, base58.Encode(program), query.ToCursor(expected[1].Id), 2, query.Ascending)
		require.NoError(t, err)
		require.Len(t, actual, 2)
		assertEquivalentRecords(t, expected[2], actual[0])
		assertEquivalentRecords(t, expected[3], actual[1])

		actual, err = s.GetAllByProgram(ctx, base58.Encode(program), query.ToCursor(expected[3].Id), 10, query.Descending)
		require.NoError(t, err)
		require.Len(t, actual, 3)
		assertEquivalentRecords(t, expected[2], actual[0])
		assertEquivalentRecords(t, expected[0], actual[2])

		_, err = s.GetAllByProgram(ctx, base58.Encode(program), query.ToCursor(expected[4].Id), 10, query.Ascending)
		assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)
	})
}

func testGetCountByProgram(t *testing.T, s extraaccountmetas.Store) {
	t.Run("testGetCountByProgram", func(t *testing.T) {
		ctx := context.Background()

		program := testutil.GenerateSolanaKey(t)

		for i := 0; i < 3; i++ {
			count, err := s.GetCountByProgram(ctx, base58.Encode(program))
			require.NoError(t, err)
			assert.EqualValues(t, i, count)

			require.NoError(t, s.Save(ctx, NewTestRecordForProgram(t, program, 1)))
		}

		count, err := s.GetCountByProgram(ctx, base58.Encode(program))
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *extraaccountmetas.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Bump, obj2.Bump)
	assert.Equal(t, obj1.Mint, obj2.Mint)
	assert.Equal(t, obj1.Program, obj2.Program)
	assert.Equal(t, obj1.Data, obj2.Data)
	assert.Equal(t, obj1.Slot, obj2.Slot)
	assert.True(t, obj1.Equal(obj2))
}
