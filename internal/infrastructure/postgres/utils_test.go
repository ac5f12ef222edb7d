package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "clientes_email_key"})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isForeignKeyViolation(err))
	assert.Equal(t, "clientes_email_key", constraintName(err))

	assert.False(t, isUniqueViolation(errors.New("connection reset")))
	assert.Empty(t, constraintName(errors.New("x")))
}

func TestClientWriteError(t *testing.T) {
	assert.ErrorContains(t, clientWriteError("insert client", &pgconn.PgError{Code: "23505", ConstraintName: "clientes_email_key"}), "email")
	assert.ErrorContains(t, clientWriteError("insert client", &pgconn.PgError{Code: "23505", ConstraintName: "clientes_pkey"}), "duplicado")
}

func TestOwnerArgs(t *testing.T) {
	s, u := ownerArgs(entity.SessionOwner("abc"))
	if assert.NotNil(t, s) {
		assert.Equal(t, "abc", *s)
	}
	assert.Nil(t, u)

	s, u = ownerArgs(entity.UserOwner("u-1"))
	assert.Nil(t, s)
	if assert.NotNil(t, u) {
		assert.Equal(t, "u-1", *u)
	}
}

func TestLimitAndTimeArgs(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Equal(t, 20, limitArg(20))
	assert.Nil(t, timeArg(time.Time{}))

	now := time.Date(2024, 3, 5, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, now, timeArg(now))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), dayStart(now))
}
