package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateQuery(t *testing.T) {
	base := "SELECT * FROM t WHERE (program = $1)"

	for _, tc := range []struct {
		cursor    Cursor
		limit     uint64
		direction Ordering
		query     string
		args      []interface{}
	}{
		{EmptyCursor, 0, Ascending, base + " ORDER BY id ASC", []interface{}{"p"}},
		{EmptyCursor, 10, Descending, base + " ORDER BY id DESC LIMIT $2", []interface{}{"p", uint64(10)}},
		{ToCursor(5), 10, Ascending, base + " AND id > $2 ORDER BY id ASC LIMIT $3", []interface{}{"p", uint64(5), uint64(10)}},
		{ToCursor(5), 0, Descending, base + " AND id < $2 ORDER BY id DESC", []interface{}{"p", uint64(5)}},
	} {
		query, args := PaginateQuery(base, []interface{}{"p"}, tc.cursor, tc.limit, tc.direction)
		assert.Equal(t, tc.query, query)
		assert.Equal(t, tc.args, args)
	}
}

func TestDefaultPaginationHandler(t *testing.T) {
	req, err := DefaultPaginationHandler()
	require.NoError(t, err)
	assert.EqualValues(t, defaultPagingLimit, req.Limit)
	assert.Equal(t, Ascending, req.SortBy)
	assert.Empty(t, req.Cursor)

	req, err = DefaultPaginationHandlerWithLimit(20, WithLimit(5), WithDirection(Descending), WithCursor(ToCursor(7)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, req.Limit)
	assert.Equal(t, Descending, req.SortBy)
	assert.EqualValues(t, 7, req.Cursor.ToUint64())

	_, err = DefaultPaginationHandlerWithLimit(20, WithLimit(21))
	assert.Equal(t, ErrQueryNotSupported, err)
}

func TestOrdering(t *testing.T) {
	for _, o := range []Ordering{Ascending, Descending} {
		s, err := FromOrdering(o)
		require.NoError(t, err)

		actual, err := ToOrdering(s)
		require.NoError(t, err)
		assert.Equal(t, o, actual)
	}

	_, err := ToOrdering("sideways")
	assert.Error(t, err)
}
