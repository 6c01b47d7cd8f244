package pg

import (
	"database/sql"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorChecks(t *testing.T) {
	errOut := errors.New("out")
	errOther := errors.New("other")

	uniqueViolation := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	serializationFailure := &pgconn.PgError{Code: pgerrcode.SerializationFailure}

	assert.Equal(t, errOut, CheckNoRows(sql.ErrNoRows, errOut))
	assert.Equal(t, errOut, CheckNoRows(errors.Wrap(sql.ErrNoRows, "query"), errOut))
	assert.Equal(t, errOther, CheckNoRows(errOther, errOut))
	assert.NoError(t, CheckNoRows(nil, errOut))

	assert.Equal(t, errOut, CheckUniqueViolation(uniqueViolation, errOut))
	assert.Equal(t, errOut, CheckUniqueViolation(errors.Wrap(uniqueViolation, "insert"), errOut))
	assert.Equal(t, serializationFailure, CheckUniqueViolation(serializationFailure, errOut))
	assert.NoError(t, CheckUniqueViolation(nil, errOut))

	assert.True(t, IsSerializationFailure(serializationFailure))
	assert.False(t, IsSerializationFailure(uniqueViolation))
	assert.False(t, IsSerializationFailure(nil))
}

func TestExecuteRetryable(t *testing.T) {
	var calls int
	err := ExecuteRetryable(func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = ExecuteRetryable(func() error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
	})
	assert.True(t, IsSerializationFailure(err))
	assert.Equal(t, maxSerializationAttempts, calls)

	calls = 0
	errFatal := errors.New("fatal")
	err = ExecuteRetryable(func() error {
		calls++
		return errFatal
	})
	assert.Equal(t, errFatal, err)
	assert.Equal(t, 1, calls)
}
