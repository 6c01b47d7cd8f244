package query

import "strconv"

const (
	defaultPagingLimit = 1000
)

// PaginateQuery appends id cursor, ordering and limit clauses to query, which
// must end in a parenthesized WHERE clause:
//
//	SELECT ... WHERE (program = $1)
//
// becomes, for an ascending cursor query with a limit,
//
//	SELECT ... WHERE (program = $1) AND id > $2 ORDER BY id ASC LIMIT $3
func PaginateQuery(query string, opts []interface{},
	cursor Cursor, limit uint64, direction Ordering) (string, []interface{}) {

	if len(cursor) > 0 {
		v := strconv.Itoa(len(opts) + 1)

		if direction == Ascending {
			query += " AND id > $" + v
		} else {
			query += " AND id < $" + v
		}

		opts = append(opts, cursor.ToUint64())
	}

	if direction == Ascending {
		query += " ORDER BY id ASC"
	} else {
		query += " ORDER BY id DESC"
	}

	if limit > 0 {
		v := strconv.Itoa(len(opts) + 1)

		query += " LIMIT $" + v

		opts = append(opts, limit)
	}

	return query, opts
}

// DefaultPaginationHandler applies opts over ascending, cursor-less defaults
// capped at defaultPagingLimit results.
func DefaultPaginationHandler(opts ...Option) (*QueryOptions, error) {
	return DefaultPaginationHandlerWithLimit(defaultPagingLimit, opts...)
}

// DefaultPaginationHandlerWithLimit is DefaultPaginationHandler with a caller
// provided cap, which is also the default limit.
func DefaultPaginationHandlerWithLimit(limit uint64, opts ...Option) (*QueryOptions, error) {
	req := QueryOptions{
		Limit:     limit,
		SortBy:    Ascending,
		Supported: CanLimitResults | CanSortBy | CanQueryByCursor,
	}
	if err := req.Apply(opts...); err != nil {
		return nil, ErrQueryNotSupported
	}

	if req.Limit > limit {
		return nil, ErrQueryNotSupported
	}

	return &req, nil
}
