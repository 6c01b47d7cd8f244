package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	pgutil "github.com/code-payments/transfer-hook/pkg/database/postgres"
	q "github.com/code-payments/transfer-hook/pkg/database/query"
)

const (
	tableName = "transferhook__core_extraaccountmetas"

	allColumns = `id, address, bump, mint, program, data, slot, last_updated_at`
)

type model struct {
	Id sql.NullInt64 `db:"id"`

	Address string `db:"address"`
	Bump    uint   `db:"bump"`

	Mint    string `db:"mint"`
	Program string `db:"program"`

	Data []byte `db:"data"`

	Slot uint64 `db:"slot"`

	LastUpdatedAt time.Time `db:"last_updated_at"`
}

func toModel(obj *extraaccountmetas.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address: obj.Address,
		Bump:    uint(obj.Bump),

		Mint:    obj.Mint,
		Program: obj.Program,

		Data: obj.Data,

		Slot: obj.Slot,

		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *extraaccountmetas.Record {
	return &extraaccountmetas.Record{
		Id: uint64(obj.Id.Int64),

		Address: obj.Address,
		Bump:    uint8(obj.Bump),

		Mint:    obj.Mint,
		Program: obj.Program,

		Data: obj.Data,

		Slot: obj.Slot,

		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := `INSERT INTO ` + tableName + `
			(address, bump, mint, program, data, slot, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)

			ON CONFLICT (address)
			DO UPDATE
				SET data = $5, slot = $6, last_updated_at = $7
				WHERE ` + tableName + `.address = $1 AND ` + tableName + `.mint = $3 AND ` + tableName + `.program = $4 AND ` + tableName + `.slot < $6

			RETURNING
				` + allColumns

		m.LastUpdatedAt = time.Now()

		err := tx.QueryRowxContext(
			ctx,
			query,

			m.Address,
			m.Bump,

			m.Mint,
			m.Program,

			m.Data,

			m.Slot,

			m.LastUpdatedAt.UTC(),
		).StructScan(m)

		if pgutil.IsNoRows(err) {
			return dbCheckExisting(ctx, tx, m)
		}
		return pgutil.CheckUniqueViolation(err, extraaccountmetas.ErrInvalidRecord)
	})
}

// dbCheckExisting classifies an upsert that updated nothing.
func dbCheckExisting(ctx context.Context, tx *sqlx.Tx, m *model) error {
	existing := &model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := tx.GetContext(ctx, existing, query, m.Address)
	if err != nil {
		return err
	}

	if existing.Mint != m.Mint || existing.Program != m.Program {
		return extraaccountmetas.ErrInvalidRecord
	}
	return extraaccountmetas.ErrStaleRecord
}

func dbGetByAddress(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE address = $1
		LIMIT 1`

	err := db.GetContext(ctx, res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, extraaccountmetas.ErrRecordNotFound)
	}
	return res, nil
}

func dbGetByMintAndProgram(ctx context.Context, db *sqlx.DB, mint, program string) (*model, error) {
	res := &model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE mint = $1 AND program = $2
		LIMIT 1`

	err := db.GetContext(ctx, res, query, mint, program)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, extraaccountmetas.ErrRecordNotFound)
	}
	return res, nil
}

func dbGetAllByProgram(ctx context.Context, db *sqlx.DB, program string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	query := `SELECT ` + allColumns + `
		FROM ` + tableName + `
		WHERE (program = $1)
	`

	opts := []interface{}{program}
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, extraaccountmetas.ErrRecordNotFound)
	}

	if len(res) == 0 {
		return nil, extraaccountmetas.ErrRecordNotFound
	}
	return res, nil
}

func dbGetCountByProgram(ctx context.Context, db *sqlx.DB, program string) (uint64, error) {
	var res uint64

	query := `SELECT COUNT(*) FROM ` + tableName + ` WHERE program = $1`
	err := db.GetContext(ctx, &res, query, program)
	if err != nil {
		return 0, err
	}

	return res, nil
}
