package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultCurrencyCode = "USD"

// accountService is the account registry. It is the only component that
// forwards balance deltas to storage.
type accountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryFacade
	txnRepo         portsrepo.TransactionReader
	defaultCurrency string
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithDefaultCurrency sets the currency used when a request carries none.
func WithDefaultCurrency(code string) AccountServiceOption {
	return func(s *accountService) {
		if code != "" {
			s.defaultCurrency = code
		}
	}
}

// WithAccountClock overrides the clock used for audit timestamps.
func WithAccountClock(clock func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account registry.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:     accountRepo,
		txnRepo:         txnRepo,
		defaultCurrency: defaultCurrencyCode,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Create(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if err := validateCreateAccount(req); err != nil {
		s.LogDebug(ctx, "Rejected account creation", slog.String("error", err.Error()))
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = req.Category.DefaultKind()
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}
	accountID := req.AccountID
	if accountID == "" {
		accountID = uuid.NewString()
	}

	now := s.now()
	account := domain.Account{
		AccountID:    accountID,
		Name:         req.Name,
		Kind:         kind,
		Category:     req.Category,
		CurrencyCode: currency,
		CreditLimit:  req.CreditLimit,
		Balance:      decimal.Zero,
		Version:      0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.OwnerType != "" {
		account.Owner = &domain.OwnerRef{Type: req.OwnerType, ID: req.OwnerID}
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", accountID), slog.String("category", string(account.Category)))
	return &account, nil
}

func validateCreateAccount(req dto.CreateAccountRequest) error {
	if !req.Category.IsValid() {
		return fmt.Errorf("unknown account category %q: %w", req.Category, apperrors.ErrValidation)
	}
	if req.Kind != "" && !req.Kind.IsValid() {
		return fmt.Errorf("unknown account kind %q: %w", req.Kind, apperrors.ErrValidation)
	}

	ownerType, needsOwner := req.Category.OwnerType()
	switch {
	case needsOwner && (req.OwnerType != ownerType || req.OwnerID == ""):
		return fmt.Errorf("%s accounts require a %s owner reference: %w", req.Category, ownerType, apperrors.ErrValidation)
	case !needsOwner && (req.OwnerType != "" || req.OwnerID != ""):
		return fmt.Errorf("%s accounts cannot have an owner: %w", req.Category, apperrors.ErrValidation)
	}

	if req.CreditLimit.IsNegative() {
		return fmt.Errorf("credit limit %s is negative: %w", req.CreditLimit, apperrors.ErrInvalidAmount)
	}
	if !req.CreditLimit.IsZero() && req.Category != domain.CategoryAgent {
		return fmt.Errorf("only agent accounts carry a credit limit: %w", apperrors.ErrValidation)
	}
	return nil
}

func (s *accountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
		}
		s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error) {
	if !ownerType.IsValid() || ownerID == "" {
		return nil, fmt.Errorf("invalid owner reference %s/%s: %w", ownerType, ownerID, apperrors.ErrValidation)
	}
	account, err := s.accountRepo.FindAccountByOwner(ctx, ownerType, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account for %s %s: %w", ownerType, ownerID, apperrors.ErrAccountNotFound)
		}
		s.LogError(ctx, err, "Failed to find account by owner", slog.String("owner_type", string(ownerType)), slog.String("owner_id", ownerID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetMany(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("account %s: %w", id, apperrors.ErrAccountNotFound)
		}
	}
	return accounts, nil
}

func (s *accountService) GetAccountBalance(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:    account.AccountID,
		CurrencyCode: account.CurrencyCode,
		Balance:      account.Balance,
		Version:      account.Version,
	}, nil
}

func (s *accountService) ListTransactions(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error) {
	if _, err := s.Get(ctx, accountID); err != nil {
		return nil, nil, err
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, nil, fmt.Errorf("from must not be after to: %w", apperrors.ErrValidation)
	}
	filter.Limit = pagination.NormalizeLimit(filter.Limit)

	txns, nextToken, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID, filter)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		}
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.LedgerTransaction{}
	}
	return txns, nextToken, nil
}

func (s *accountService) ApplyDelta(ctx context.Context, tx portsrepo.LedgerTx, accountID string, signedAmount decimal.Decimal, expectedVersion int64) (decimal.Decimal, int64, error) {
	if signedAmount.IsZero() {
		return decimal.Zero, 0, fmt.Errorf("delta for account %s is zero: %w", accountID, apperrors.ErrInvalidAmount)
	}

	balance, version, err := tx.ApplyDelta(ctx, accountID, signedAmount, expectedVersion, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAccountNotFound) {
			err = fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
		}
		return decimal.Zero, 0, err
	}

	s.LogDebug(ctx, "Applied balance delta",
		slog.String("account_id", accountID),
		slog.String("delta", signedAmount.String()),
		slog.Int64("version", version))
	return balance, version, nil
}

func (s *accountService) EnsureSystemAccounts(ctx context.Context, system domain.SystemAccounts, currencyCode string) error {
	if err := system.Validate(); err != nil {
		return fmt.Errorf("%s: %w", err, apperrors.ErrValidation)
	}

	for _, def := range system.Definitions() {
		accountID, category := def.ID, def.Category
		existing, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err == nil {
			if existing.Category != category {
				return fmt.Errorf("system account %s has category %s, want %s: %w", accountID, existing.Category, category, apperrors.ErrConflict)
			}
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("failed to look up system account %s: %w", accountID, err)
		}

		_, err = s.Create(ctx, dto.CreateAccountRequest{
			AccountID:    accountID,
			Name:         systemAccountName(category),
			Category:     category,
			CurrencyCode: currencyCode,
		}, "system")
		if err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
			return err
		}
	}
	return nil
}

func systemAccountName(category domain.AccountCategory) string {
	switch category {
	case domain.CategoryWallet:
		return "Payment Gateway Wallet"
	case domain.CategorySalesClearing:
		return "Sales Clearing"
	case domain.CategoryCommissionRevenue:
		return "Commission Revenue"
	case domain.CategoryDepositEquity:
		return "Agent Deposits"
	}
	return string(category)
}
