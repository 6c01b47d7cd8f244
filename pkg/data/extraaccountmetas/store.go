package extraaccountmetas

import (
	"context"

	"github.com/code-payments/transfer-hook/pkg/database/query"
)

type Store interface {
	// Save creates or updates the indexed validation account. Updates observed
	// at an older or equal slot fail with ErrStaleRecord.
	Save(ctx context.Context, record *Record) error

	// GetByAddress gets the indexed validation account by its address
	GetByAddress(ctx context.Context, address string) (*Record, error)

	// GetByMintAndProgram gets the indexed validation account derived for the
	// mint under the hook program
	GetByMintAndProgram(ctx context.Context, mint, program string) (*Record, error)

	// GetAllByProgram gets all indexed validation accounts for a hook program
	GetAllByProgram(ctx context.Context, program string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)

	// GetCountByProgram gets the number of indexed validation accounts for a
	// hook program
	GetCountByProgram(ctx context.Context, program string) (uint64, error)
}
