package repositories

import (
	"context"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
)

// SettlementReader defines read operations for settlement records
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement and its transactions.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementEntry, error)

	// FindSettlementByReference retrieves the settlement recorded for a business reference.
	FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error)
}

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// ListTransactionsByAccountID returns a newest-first page of an account's
	// transactions and the token for the next page, if any.
	ListTransactionsByAccountID(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error)
}

// LedgerRepositoryFacade combines ledger reads with the unit-of-work entry point
type LedgerRepositoryFacade interface {
	SettlementReader
	TransactionReader
	LedgerStore
}
