package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	now   time.Time
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewStore()
	s.now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, acc := range []domain.Account{
		{AccountID: "wallet", Category: domain.CategoryWallet, Kind: domain.Asset},
		{AccountID: "clearing", Category: domain.CategorySalesClearing, Kind: domain.Liability},
		{AccountID: "agent-acc", Category: domain.CategoryAgent, Kind: domain.Liability, Owner: &domain.OwnerRef{Type: domain.OwnerAgent, ID: "agent-1"}},
	} {
		s.Require().NoError(s.store.SaveAccount(s.ctx, acc))
	}
}

func (s *StoreTestSuite) post(settlementID string, amount string) error {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback(s.ctx)

	amt := decimal.RequireFromString(amount)
	for i, leg := range []struct {
		account string
		signed  decimal.Decimal
		dir     domain.Direction
	}{
		{"wallet", amt.Neg(), domain.Debit},
		{"clearing", amt, domain.Credit},
	} {
		acc, err := tx.FindAccountByID(s.ctx, leg.account)
		if err != nil {
			return err
		}
		bal, ver, err := tx.ApplyDelta(s.ctx, leg.account, leg.signed, acc.Version, s.now)
		if err != nil {
			return err
		}
		err = tx.InsertTransactions(s.ctx, []domain.LedgerTransaction{{
			TransactionID: settlementID + "-" + leg.account, SettlementID: settlementID, AccountID: leg.account,
			LegIndex: i, Direction: leg.dir, Amount: amt, ReferenceType: domain.RefVoucher, ReferenceID: settlementID,
			BalanceBefore: acc.Balance, BalanceAfter: bal, VersionAfter: ver, CreatedAt: s.now,
		}})
		if err != nil {
			return err
		}
	}
	if err := tx.SaveSettlement(s.ctx, domain.SettlementEntry{
		SettlementID: settlementID, ReferenceType: domain.RefVoucher, ReferenceID: settlementID,
		IdempotencyKey: domain.IdempotencyKey(domain.RefVoucher, settlementID), Status: domain.StatusPosted,
	}); err != nil {
		return err
	}
	return tx.Commit(s.ctx)
}

func (s *StoreTestSuite) TestCommitPublishesEverything() {
	s.Require().NoError(s.post("stl-1", "500"))

	wallet, err := s.store.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(-500).Equal(wallet.Balance))
	s.Equal(int64(1), wallet.Version)

	entry, err := s.store.FindSettlementByReference(s.ctx, domain.RefVoucher, "stl-1")
	s.Require().NoError(err)
	s.Len(entry.Transactions, 2)
}

func (s *StoreTestSuite) TestRollbackLeavesNoTrace() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	_, _, err = tx.ApplyDelta(s.ctx, "wallet", decimal.NewFromInt(-10), 0, s.now)
	s.Require().NoError(err)

	staged, err := tx.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(-10).Equal(staged.Balance), "unit of work sees its own deltas")

	live, err := s.store.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(live.Balance.IsZero(), "staged deltas are invisible outside the unit of work")

	s.Require().NoError(tx.Rollback(s.ctx))
	live, err = s.store.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(live.Balance.IsZero())
	s.Equal(int64(0), live.Version)
}

func (s *StoreTestSuite) TestStaleVersionIsRejected() {
	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	defer tx.Rollback(s.ctx)

	_, _, err = tx.ApplyDelta(s.ctx, "wallet", decimal.NewFromInt(1), 7, s.now)
	s.ErrorIs(err, apperrors.ErrVersionConflict)

	_, _, err = tx.ApplyDelta(s.ctx, "missing", decimal.NewFromInt(1), 0, s.now)
	s.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (s *StoreTestSuite) TestConcurrentCommitConflicts() {
	first, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	second, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)

	_, _, err = first.ApplyDelta(s.ctx, "wallet", decimal.NewFromInt(5), 0, s.now)
	s.Require().NoError(err)
	_, _, err = second.ApplyDelta(s.ctx, "wallet", decimal.NewFromInt(7), 0, s.now)
	s.Require().NoError(err)

	s.Require().NoError(first.Commit(s.ctx))
	s.ErrorIs(second.Commit(s.ctx), apperrors.ErrVersionConflict)

	live, err := s.store.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(5).Equal(live.Balance))
}

func (s *StoreTestSuite) TestDuplicateIdempotencyKey() {
	s.Require().NoError(s.post("stl-1", "5"))
	s.ErrorIs(s.post("stl-1", "5"), apperrors.ErrDuplicate)

	wallet, err := s.store.FindAccountByID(s.ctx, "wallet")
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(-5).Equal(wallet.Balance), "the duplicate must not move balances")
}

func (s *StoreTestSuite) TestMarkSettlementReversedOnce() {
	s.Require().NoError(s.post("stl-1", "5"))

	tx, err := s.store.Begin(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(tx.MarkSettlementReversed(s.ctx, "stl-1", "stl-2"))
	s.Require().NoError(tx.Commit(s.ctx))

	entry, err := s.store.FindSettlementByID(s.ctx, "stl-1")
	s.Require().NoError(err)
	s.Require().NotNil(entry.ReversedBySettlementID)
	s.Equal("stl-2", *entry.ReversedBySettlementID)

	tx, err = s.store.Begin(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(tx.MarkSettlementReversed(s.ctx, "stl-1", "stl-3"))
	s.ErrorIs(tx.Commit(s.ctx), apperrors.ErrConflict)
}

func (s *StoreTestSuite) TestListTransactionsPaginates() {
	for i, id := range []string{"a", "b", "c"} {
		s.now = s.now.Add(time.Duration(i+1) * time.Minute)
		s.Require().NoError(s.post(id, "1"))
	}

	page, next, err := s.store.ListTransactionsByAccountID(s.ctx, "wallet", domain.TransactionFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Require().NotNil(next)
	s.Equal("c", page[0].SettlementID)
	s.Equal("b", page[1].SettlementID)

	page, next, err = s.store.ListTransactionsByAccountID(s.ctx, "wallet", domain.TransactionFilter{Limit: 2, NextToken: next})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Nil(next)
	s.Equal("a", page[0].SettlementID)

	credits, _, err := s.store.ListTransactionsByAccountID(s.ctx, "wallet", domain.TransactionFilter{Direction: domain.Credit})
	s.Require().NoError(err)
	s.Empty(credits)

	bad := "not-a-token"
	_, _, err = s.store.ListTransactionsByAccountID(s.ctx, "wallet", domain.TransactionFilter{NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestStore_OwnerAndMirrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	owner := domain.OwnerRef{Type: domain.OwnerProvider, ID: "prov-1"}

	require.NoError(t, store.SaveAccount(ctx, domain.Account{AccountID: "p1", Category: domain.CategoryProvider, Owner: &owner}))
	err := store.SaveAccount(ctx, domain.Account{AccountID: "p2", Category: domain.CategoryProvider, Owner: &owner})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	acc, err := store.FindAccountByOwner(ctx, domain.OwnerProvider, "prov-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", acc.AccountID)

	require.NoError(t, store.SaveBalanceMirror(ctx, domain.BalanceMirror{Owner: owner, Balance: decimal.NewFromInt(10), Version: 2}))
	require.NoError(t, store.SaveBalanceMirror(ctx, domain.BalanceMirror{Owner: owner, Balance: decimal.NewFromInt(5), Version: 1}))
	mirror, err := store.FindBalanceMirror(ctx, owner)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(mirror.Balance), "older mirror must not overwrite a newer one")

	_, err = store.FindReferenceStatus(ctx, domain.RefBooking, "bk-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
