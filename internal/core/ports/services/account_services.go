package services

import (
	"context"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// Get retrieves a specific account by its unique identifier.
	Get(ctx context.Context, accountID string) (*domain.Account, error)

	// GetByOwner retrieves the account owned by a provider or agent.
	GetByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error)

	// GetMany retrieves several accounts; a missing id yields ErrAccountNotFound.
	GetMany(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// GetAccountBalance returns the current balance and version of an account.
	GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error)

	// ListTransactions returns a newest-first page of an account's statement.
	ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// Create registers a new account with a zero balance.
	Create(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// EnsureSystemAccounts creates any configured system account that does not exist yet.
	EnsureSystemAccounts(ctx context.Context, system domain.SystemAccounts, currencyCode string) error
}

// BalanceMutatorSvc is the only path through which an account balance changes.
type BalanceMutatorSvc interface {
	// ApplyDelta adds signedAmount to the account inside the given unit of
	// work, provided the account is still at expectedVersion.
	ApplyDelta(ctx context.Context, tx portsrepo.LedgerTx, accountID string, signedAmount decimal.Decimal, expectedVersion int64) (decimal.Decimal, int64, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	BalanceMutatorSvc
}
