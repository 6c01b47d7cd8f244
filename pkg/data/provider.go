package data

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	pg "github.com/code-payments/transfer-hook/pkg/database/postgres"
	"github.com/code-payments/transfer-hook/pkg/database/query"

	extraaccountmetas_memory_client "github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas/memory"
	extraaccountmetas_postgres_client "github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas/postgres"
)

const (
	maxExtraAccountMetasReqSize = 1024
)

// DatabaseData is the persisted state used by off-chain transfer hook
// tooling.
type DatabaseData interface {
	// ExtraAccountMetas
	// --------------------------------------------------------------------------------
	SaveExtraAccountMetas(ctx context.Context, record *extraaccountmetas.Record) error
	GetExtraAccountMetasByAddress(ctx context.Context, address string) (*extraaccountmetas.Record, error)
	GetExtraAccountMetasByMintAndProgram(ctx context.Context, mint, program string) (*extraaccountmetas.Record, error)
	GetAllExtraAccountMetasByProgram(ctx context.Context, program string, opts ...query.Option) ([]*extraaccountmetas.Record, error)
	GetExtraAccountMetasCountByProgram(ctx context.Context, program string) (uint64, error)

	// Utilities
	// --------------------------------------------------------------------------------
	ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error
}

type DatabaseProvider struct {
	extraAccountMetas extraaccountmetas.Store

	db *sqlx.DB
}

// NewDatabaseProvider returns postgres backed stores for dbConfig.
func NewDatabaseProvider(dbConfig *pg.Config) (DatabaseData, error) {
	db, err := pg.Open(dbConfig)
	if err != nil {
		return nil, err
	}

	return &DatabaseProvider{
		extraAccountMetas: extraaccountmetas_postgres_client.New(db),

		db: sqlx.NewDb(db, "pgx"),
	}, nil
}

// NewTestDatabaseProvider returns in memory stores.
func NewTestDatabaseProvider() DatabaseData {
	return &DatabaseProvider{
		extraAccountMetas: extraaccountmetas_memory_client.New(),
	}
}

// ExtraAccountMetas
// --------------------------------------------------------------------------------
func (dp *DatabaseProvider) SaveExtraAccountMetas(ctx context.Context, record *extraaccountmetas.Record) error {
	return dp.extraAccountMetas.Save(ctx, record)
}
func (dp *DatabaseProvider) GetExtraAccountMetasByAddress(ctx context.Context, address string) (*extraaccountmetas.Record, error) {
	return dp.extraAccountMetas.GetByAddress(ctx, address)
}
func (dp *DatabaseProvider) GetExtraAccountMetasByMintAndProgram(ctx context.Context, mint, program string) (*extraaccountmetas.Record, error) {
	return dp.extraAccountMetas.GetByMintAndProgram(ctx, mint, program)
}
func (dp *DatabaseProvider) GetAllExtraAccountMetasByProgram(ctx context.Context, program string, opts ...query.Option) ([]*extraaccountmetas.Record, error) {
	req, err := query.DefaultPaginationHandlerWithLimit(maxExtraAccountMetasReqSize, opts...)
	if err != nil {
		return nil, err
	}

	return dp.extraAccountMetas.GetAllByProgram(ctx, program, req.Cursor, req.Limit, req.SortBy)
}
func (dp *DatabaseProvider) GetExtraAccountMetasCountByProgram(ctx context.Context, program string) (uint64, error) {
	return dp.extraAccountMetas.GetCountByProgram(ctx, program)
}

// Utilities
// --------------------------------------------------------------------------------

// ExecuteInTx runs fn in a transaction that postgres stores join. The in
// memory provider has no transactions and runs fn directly.
func (dp *DatabaseProvider) ExecuteInTx(ctx context.Context, isolation sql.IsolationLevel, fn func(ctx context.Context) error) error {
	if dp.db == nil {
		return fn(ctx)
	}

	err := pg.ExecuteTxWithinCtx(ctx, dp.db, isolation, fn)
	if errors.Is(err, pg.ErrAlreadyInTx) {
		return errors.Wrap(err, "nested transactions are not supported")
	}
	return err
}
