package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/core/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepository ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// MockTransactionReader is a mock type for the TransactionReader interface
type MockTransactionReader struct {
	mock.Mock
}

func (m *MockTransactionReader) ListTransactionsByAccountID(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error) {
	args := m.Called(ctx, accountID, filter)
	var txns []domain.LedgerTransaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.LedgerTransaction)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return txns, next, args.Error(2)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAccountRepository
	mockTxnRepo *MockTransactionReader
	service     portssvc.AccountSvcFacade
	now         time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionReader)
	suite.now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockTxnRepo,
		services.WithDefaultCurrency("EUR"),
		services.WithAccountClock(func() time.Time { return suite.now }),
	)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreate_AgentAccount() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:        "Agent Two",
		Category:    domain.CategoryAgent,
		OwnerType:   domain.OwnerAgent,
		OwnerID:     "agent-2",
		CreditLimit: dec("250"),
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.Create(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(domain.Liability, created.Kind)
	suite.Equal("EUR", created.CurrencyCode)
	suite.True(created.Balance.IsZero())
	suite.Equal(int64(0), created.Version)
	suite.Require().NotNil(created.Owner)
	suite.Equal(domain.OwnerRef{Type: domain.OwnerAgent, ID: "agent-2"}, *created.Owner)
	suite.True(created.BalanceFloor().Equal(dec("-250")))
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.Equal(suite.now, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreate_RejectsInvalidRequests() {
	cases := map[string]dto.CreateAccountRequest{
		"unknown category":           {Name: "x", Category: "BANK"},
		"provider without owner":     {Name: "x", Category: domain.CategoryProvider},
		"wallet with owner":          {Name: "x", Category: domain.CategoryWallet, OwnerType: domain.OwnerAgent, OwnerID: "a"},
		"credit limit on a provider": {Name: "x", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "p", CreditLimit: dec("10")},
		"negative credit limit":      {Name: "x", Category: domain.CategoryAgent, OwnerType: domain.OwnerAgent, OwnerID: "a", CreditLimit: dec("-1")},
		"owner type mismatch":        {Name: "x", Category: domain.CategoryAgent, OwnerType: domain.OwnerProvider, OwnerID: "a"},
	}

	for name, req := range cases {
		suite.Run(name, func() {
			created, err := suite.service.Create(context.Background(), req, "tester")
			suite.Nil(created)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreate_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Hotel", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "p-9"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.Create(ctx, req, "tester")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGet_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.Get(ctx, "missing")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.Equal(apperrors.CodeAccountNotFound, apperrors.CodeOf(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetMany_ReportsMissingAccount() {
	ctx := context.Background()
	ids := []string{"a", "b"}
	suite.mockRepo.On("FindAccountsByIDs", ctx, ids).Return(map[string]domain.Account{"a": {AccountID: "a"}}, nil).Once()

	accounts, err := suite.service.GetMany(ctx, ids)

	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *AccountServiceTestSuite) TestGetByOwner() {
	ctx := context.Background()
	expected := &domain.Account{AccountID: "acc-1", Owner: &domain.OwnerRef{Type: domain.OwnerProvider, ID: "p-1"}}
	suite.mockRepo.On("FindAccountByOwner", ctx, domain.OwnerProvider, "p-1").Return(expected, nil).Once()

	account, err := suite.service.GetByOwner(ctx, domain.OwnerProvider, "p-1")

	suite.Require().NoError(err)
	suite.Equal(expected, account)

	_, err = suite.service.GetByOwner(ctx, "CUSTOMER", "c-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{
		AccountID: "acc-1", CurrencyCode: "USD", Balance: dec("12.5"), Version: 4,
	}, nil).Once()

	balance, err := suite.service.GetAccountBalance(ctx, "acc-1")

	suite.Require().NoError(err)
	suite.True(balance.Balance.Equal(dec("12.5")))
	suite.Equal(int64(4), balance.Version)
}

func (suite *AccountServiceTestSuite) TestListTransactions_NormalizesLimit() {
	ctx := context.Background()
	next := "token"
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1"}, nil).Once()
	suite.mockTxnRepo.On("ListTransactionsByAccountID", ctx, "acc-1", mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.Limit == 20
	})).Return(nil, &next, nil).Once()

	txns, token, err := suite.service.ListTransactions(ctx, "acc-1", domain.TransactionFilter{})

	suite.Require().NoError(err)
	suite.NotNil(txns)
	suite.Empty(txns)
	suite.Equal(&next, token)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListTransactions_InvertedRange() {
	ctx := context.Background()
	from := suite.now
	to := suite.now.Add(-time.Hour)
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1"}, nil).Once()

	_, _, err := suite.service.ListTransactions(ctx, "acc-1", domain.TransactionFilter{From: &from, To: &to})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "ListTransactionsByAccountID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestApplyDelta() {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	tx.On("ApplyDelta", ctx, "acc-1", mock.MatchedBy(decimalEq("-5")), int64(2), suite.now).
		Return(dec("7.5"), int64(3), nil).Once()

	balance, version, err := suite.service.ApplyDelta(ctx, tx, "acc-1", dec("-5"), 2)

	suite.Require().NoError(err)
	suite.True(balance.Equal(dec("7.5")))
	suite.Equal(int64(3), version)
	tx.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestApplyDelta_RejectsZero() {
	tx := new(MockLedgerTx)

	_, _, err := suite.service.ApplyDelta(context.Background(), tx, "acc-1", decimal.Zero, 0)

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	tx.AssertNotCalled(suite.T(), "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestApplyDelta_PassesVersionConflictThrough() {
	ctx := context.Background()
	tx := new(MockLedgerTx)
	tx.On("ApplyDelta", ctx, "acc-1", mock.Anything, int64(1), mock.Anything).
		Return(decimal.Zero, int64(0), apperrors.ErrVersionConflict).Once()

	_, _, err := suite.service.ApplyDelta(ctx, tx, "acc-1", dec("1"), 1)

	suite.ErrorIs(err, apperrors.ErrVersionConflict)
}

func (suite *AccountServiceTestSuite) TestEnsureSystemAccounts_CreatesMissing() {
	ctx := context.Background()
	system := domain.SystemAccounts{
		WalletAccountID:        "w",
		SalesClearingAccountID: "c",
		CommissionAccountID:    "r",
		DepositAccountID:       "d",
	}
	suite.mockRepo.On("FindAccountByID", ctx, "w").Return(&domain.Account{AccountID: "w", Category: domain.CategoryWallet}, nil).Once()
	for _, id := range []string{"c", "r", "d"} {
		suite.mockRepo.On("FindAccountByID", ctx, id).Return(nil, apperrors.ErrNotFound).Once()
	}
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Times(3)

	err := suite.service.EnsureSystemAccounts(ctx, system, "USD")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestEnsureSystemAccounts_CategoryClash() {
	ctx := context.Background()
	system := domain.SystemAccounts{WalletAccountID: "w", SalesClearingAccountID: "c", CommissionAccountID: "r", DepositAccountID: "d"}
	suite.mockRepo.On("FindAccountByID", ctx, mock.Anything).Return(&domain.Account{Category: domain.CategoryProvider}, nil)

	err := suite.service.EnsureSystemAccounts(ctx, system, "USD")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestEnsureSystemAccounts_SharedID() {
	ctx := context.Background()
	system := domain.SystemAccounts{WalletAccountID: "w", SalesClearingAccountID: "c", CommissionAccountID: "w", DepositAccountID: "d"}

	err := suite.service.EnsureSystemAccounts(ctx, system, "USD")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func decimalEq(want string) func(decimal.Decimal) bool {
	return func(got decimal.Decimal) bool {
		return got.Equal(dec(want))
	}
}
