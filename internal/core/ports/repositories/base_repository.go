package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerStore opens atomic units of work spanning accounts, ledger
// transactions and settlement records.
type LedgerStore interface {
	// Begin starts a new unit of work. Nothing written through the returned
	// LedgerTx is visible to other readers until Commit succeeds.
	Begin(ctx context.Context) (LedgerTx, error)
}

// LedgerTx is one all-or-nothing unit of work.
type LedgerTx interface {
	// FindAccountByID reads an account as seen by this unit of work,
	// including deltas it has already applied.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ApplyDelta adds signedAmount to the account balance if its current
	// version equals expectedVersion, returning the new balance and version.
	// A stale version yields apperrors.ErrVersionConflict.
	ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, expectedVersion int64, at time.Time) (decimal.Decimal, int64, error)

	// InsertTransactions appends ledger transaction rows.
	InsertTransactions(ctx context.Context, txns []domain.LedgerTransaction) error

	// SaveSettlement records a settlement. A second settlement with the same
	// idempotency key yields apperrors.ErrDuplicate.
	SaveSettlement(ctx context.Context, entry domain.SettlementEntry) error

	// MarkSettlementReversed links a settlement to the entry that reversed it.
	// An already reversed settlement yields apperrors.ErrConflict.
	MarkSettlementReversed(ctx context.Context, settlementID string, reversedBy string) error

	// Commit makes every change visible at once.
	Commit(ctx context.Context) error

	// Rollback discards every change. Calling it after Commit is a no-op.
	Rollback(ctx context.Context) error
}
