package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	pgutil "github.com/code-payments/transfer-hook/pkg/database/postgres"
	"github.com/code-payments/transfer-hook/pkg/database/query"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed extraaccountmetas.Store
func New(db *sql.DB) extraaccountmetas.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Save implements extraaccountmetas.Store.Save
func (s *store) Save(ctx context.Context, record *extraaccountmetas.Record) error {
	model, err := toModel(record)
	if err != nil {
		return err
	}

	err = pgutil.ExecuteRetryable(func() error {
		return model.dbSave(ctx, s.db)
	})
	if err != nil {
		return err
	}

	res := fromModel(model)
	res.CopyTo(record)

	return nil
}

// GetByAddress implements extraaccountmetas.Store.GetByAddress
func (s *store) GetByAddress(ctx context.Context, address string) (*extraaccountmetas.Record, error) {
	model, err := dbGetByAddress(ctx, s.db, address)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetByMintAndProgram implements extraaccountmetas.Store.GetByMintAndProgram
func (s *store) GetByMintAndProgram(ctx context.Context, mint, program string) (*extraaccountmetas.Record, error) {
	model, err := dbGetByMintAndProgram(ctx, s.db, mint, program)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetAllByProgram implements extraaccountmetas.Store.GetAllByProgram
func (s *store) GetAllByProgram(ctx context.Context, program string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*extraaccountmetas.Record, error) {
	models, err := dbGetAllByProgram(ctx, s.db, program, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*extraaccountmetas.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}
	return res, nil
}

// GetCountByProgram implements extraaccountmetas.Store.GetCountByProgram
func (s *store) GetCountByProgram(ctx context.Context, program string) (uint64, error) {
	return dbGetCountByProgram(ctx, s.db, program)
}
