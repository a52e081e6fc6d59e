package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/core/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSystem = domain.SystemAccounts{
	WalletAccountID:        "sys-wallet",
	SalesClearingAccountID: "sys-clearing",
	CommissionAccountID:    "sys-commission",
	DepositAccountID:       "sys-deposits",
}

const (
	providerAccountID = "acc-provider-1"
	agentAccountID    = "acc-agent-1"
	otherAccountID    = "acc-provider-2"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerFixture wires real services over the in-memory store.
type ledgerFixture struct {
	ctx      context.Context
	store    *memory.Store
	services *portssvc.ServiceContainer
}

func newLedgerFixture(t *testing.T, cfg services.ContainerConfig, wrap func(portsrepo.LedgerRepositoryFacade) portsrepo.LedgerRepositoryFacade) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	provider := store.Provider()
	if wrap != nil {
		provider.LedgerRepo = wrap(store)
	}
	cfg.System = testSystem
	container := services.NewContainer(provider, cfg)

	require.NoError(t, container.Account.EnsureSystemAccounts(ctx, testSystem, "USD"))
	for _, req := range []dto.CreateAccountRequest{
		{AccountID: providerAccountID, Name: "Sea Breeze Hotel", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "prov-1"},
		{AccountID: otherAccountID, Name: "Desert Tours", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "prov-2"},
		{AccountID: agentAccountID, Name: "Agent One", Category: domain.CategoryAgent, OwnerType: domain.OwnerAgent, OwnerID: "agent-1"},
	} {
		_, err := container.Account.Create(ctx, req, "tester")
		require.NoError(t, err)
	}

	return &ledgerFixture{ctx: ctx, store: store, services: container}
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	bal, err := f.services.Account.GetAccountBalance(f.ctx, accountID)
	require.NoError(t, err)
	return bal.Balance
}

func (f *ledgerFixture) balances(t *testing.T) map[string]decimal.Decimal {
	t.Helper()
	out := make(map[string]decimal.Decimal)
	for _, id := range f.accountIDs() {
		out[id] = f.balance(t, id)
	}
	return out
}

func (f *ledgerFixture) assertBalances(t *testing.T, want map[string]decimal.Decimal) {
	t.Helper()
	got := f.balances(t)
	for id, bal := range want {
		require.True(t, bal.Equal(got[id]), "account %s: want %s, got %s", id, bal, got[id])
	}
}

func (f *ledgerFixture) accountIDs() []string {
	return []string{
		testSystem.WalletAccountID, testSystem.SalesClearingAccountID, testSystem.CommissionAccountID,
		testSystem.DepositAccountID, providerAccountID, otherAccountID, agentAccountID,
	}
}

// assertLedgerInvariants checks that every balance equals credits minus debits
// over the account history and that the whole ledger nets to zero.
func (f *ledgerFixture) assertLedgerInvariants(t *testing.T) {
	t.Helper()
	total := decimal.Zero
	for _, id := range f.accountIDs() {
		sum := decimal.Zero
		var token *string
		for {
			page, next, err := f.services.Account.ListTransactions(f.ctx, id, domain.TransactionFilter{Limit: 200, NextToken: token})
			require.NoError(t, err)
			for _, txn := range page {
				if txn.Direction == domain.Credit {
					sum = sum.Add(txn.Amount)
				} else {
					sum = sum.Sub(txn.Amount)
				}
			}
			if next == nil {
				break
			}
			token = next
		}
		bal := f.balance(t, id)
		require.True(t, sum.Equal(bal), "account %s balance %s != history %s", id, bal, sum)
		total = total.Add(bal)
	}
	require.True(t, total.IsZero(), "ledger does not net to zero: %s", total)
}

func (f *ledgerFixture) deposit(t *testing.T, depositID, amount string) {
	t.Helper()
	_, err := f.services.Settlement.Settle(f.ctx, domain.AgentDeposit{
		DepositID: depositID, AgentID: "agent-1", Amount: dec(amount), RequestedBy: "tester",
	}.ToSettlementEvent())
	require.NoError(t, err)
}

// faultyLedger injects failures into units of work.
type faultyLedger struct {
	portsrepo.LedgerRepositoryFacade
	failApplyOn string
	commitErr   error
}

type faultyTx struct {
	portsrepo.LedgerTx
	ledger *faultyLedger
}

func (l *faultyLedger) Begin(ctx context.Context) (portsrepo.LedgerTx, error) {
	tx, err := l.LedgerRepositoryFacade.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyTx{LedgerTx: tx, ledger: l}, nil
}

func (t *faultyTx) ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, expectedVersion int64, at time.Time) (decimal.Decimal, int64, error) {
	if accountID == t.ledger.failApplyOn {
		return decimal.Zero, 0, errors.New("storage unavailable")
	}
	return t.LedgerTx.ApplyDelta(ctx, accountID, signedAmount, expectedVersion, at)
}

func (t *faultyTx) Commit(ctx context.Context) error {
	if t.ledger.commitErr != nil {
		_ = t.LedgerTx.Rollback(ctx)
		return t.ledger.commitErr
	}
	return t.LedgerTx.Commit(ctx)
}

// MockPublisher is a mock type for the SettlementPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSettlement(ctx context.Context, notification domain.SettlementNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
