package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas/tests"
	"github.com/code-payments/transfer-hook/pkg/database/query"
	"github.com/code-payments/transfer-hook/pkg/testutil"
)

func TestDatabaseProvider_ExtraAccountMetas(t *testing.T) {
	ctx := context.Background()
	db := NewTestDatabaseProvider()

	program := testutil.GenerateSolanaKey(t)

	var ids []uint64
	for i := 0; i < 3; i++ {
		record := tests.NewTestRecordForProgram(t, program, 1)
		require.NoError(t, db.SaveExtraAccountMetas(ctx, record))
		ids = append(ids, record.Id)

		actual, err := db.GetExtraAccountMetasByAddress(ctx, record.Address)
		require.NoError(t, err)
		assert.True(t, record.Equal(actual))

		actual, err = db.GetExtraAccountMetasByMintAndProgram(ctx, record.Mint, record.Program)
		require.NoError(t, err)
		assert.True(t, record.Equal(actual))
	}

	count, err := db.GetExtraAccountMetasCountByProgram(ctx, base58.Encode(program))
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	records, err := db.GetAllExtraAccountMetasByProgram(ctx, base58.Encode(program))
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, ids[i], record.Id)
	}

	records, err = db.GetAllExtraAccountMetasByProgram(
		ctx,
		base58.Encode(program),
		query.WithDirection(query.Descending),
		query.WithLimit(2),
	)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ids[2], records[0].Id)
	assert.Equal(t, ids[1], records[1].Id)

	records, err = db.GetAllExtraAccountMetasByProgram(ctx, base58.Encode(program), query.WithCursor(query.ToCursor(ids[0])))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ids[1], records[0].Id)

	_, err = db.GetAllExtraAccountMetasByProgram(ctx, base58.Encode(program), query.WithLimit(maxExtraAccountMetasReqSize+1))
	assert.Equal(t, query.ErrQueryNotSupported, err)

	_, err = db.GetExtraAccountMetasByAddress(ctx, base58.Encode(testutil.GenerateSolanaKey(t)))
	assert.Equal(t, extraaccountmetas.ErrRecordNotFound, err)
}

func TestDatabaseProvider_ExecuteInTxWithoutDatabase(t *testing.T) {
	db := NewTestDatabaseProvider()

	var called bool
	require.NoError(t, db.ExecuteInTx(context.Background(), sql.LevelDefault, func(ctx context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)

	errExpected := errors.New("failed")
	assert.Equal(t, errExpected, db.ExecuteInTx(context.Background(), sql.LevelDefault, func(ctx context.Context) error {
		return errExpected
	}))
}
