package pgsql

import (
	"errors"
	"testing"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePgError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, apperrors.ErrDuplicate},
		{"agent floor", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: agentFloorConstraint}, apperrors.ErrInsufficientFunds},
		{"other check", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "ledger_transactions_amount_check"}, apperrors.ErrValidation},
		{"missing parent row", &pgconn.PgError{Code: pgForeignKeyViolation}, apperrors.ErrNotFound},
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, apperrors.ErrVersionConflict},
		{"deadlock", &pgconn.PgError{Code: pgDeadlockDetected}, apperrors.ErrVersionConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := translatePgError(tc.err, "op")
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "op")
		})
	}
}

func TestTranslatePgErrorKeepsUnknownCauses(t *testing.T) {
	cause := errors.New("connection reset")
	err := translatePgError(cause, "failed to save")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.CodeSettlementFailed, apperrors.CodeOf(err))
}
