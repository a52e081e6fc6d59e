package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var errTxDone = errors.New("memory: unit of work already finished")

// ledgerTx is a staging log over the store.
type ledgerTx struct {
	store    *Store
	base     map[string]int64 // version of each touched account when first read
	staged   map[string]domain.Account
	txns     []domain.LedgerTransaction
	entries  []domain.SettlementEntry
	reversed map[string]string
	done     bool
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

// Begin starts a new unit of work.
func (s *Store) Begin(ctx context.Context) (portsrepo.LedgerTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ledgerTx{
		store:    s,
		base:     make(map[string]int64),
		staged:   make(map[string]domain.Account),
		reversed: make(map[string]string),
	}, nil
}

func (t *ledgerTx) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if t.done {
		return nil, errTxDone
	}
	if acc, ok := t.staged[accountID]; ok {
		return copyAccount(acc), nil
	}
	return t.store.FindAccountByID(ctx, accountID)
}

func (t *ledgerTx) ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, expectedVersion int64, at time.Time) (decimal.Decimal, int64, error) {
	acc, err := t.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, 0, fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
		}
		return decimal.Zero, 0, err
	}
	if acc.Version != expectedVersion {
		return decimal.Zero, 0, fmt.Errorf("account %s at version %d, expected %d: %w",
			accountID, acc.Version, expectedVersion, apperrors.ErrVersionConflict)
	}

	if _, touched := t.base[accountID]; !touched {
		t.base[accountID] = acc.Version
	}
	acc.Balance = acc.Balance.Add(signedAmount)
	acc.Version++
	acc.LastUpdatedAt = at
	t.staged[accountID] = *acc
	return acc.Balance, acc.Version, nil
}

func (t *ledgerTx) InsertTransactions(ctx context.Context, txns []domain.LedgerTransaction) error {
	if t.done {
		return errTxDone
	}
	t.txns = append(t.txns, txns...)
	return nil
}

func (t *ledgerTx) SaveSettlement(ctx context.Context, entry domain.SettlementEntry) error {
	if t.done {
		return errTxDone
	}
	for _, staged := range t.entries {
		if staged.IdempotencyKey == entry.IdempotencyKey {
			return fmt.Errorf("settlement %s: %w", entry.IdempotencyKey, apperrors.ErrDuplicate)
		}
	}
	entry.Transactions = nil
	t.entries = append(t.entries, entry)
	return nil
}

func (t *ledgerTx) MarkSettlementReversed(ctx context.Context, settlementID string, reversedBy string) error {
	if t.done {
		return errTxDone
	}
	if _, ok := t.reversed[settlementID]; ok {
		return fmt.Errorf("settlement %s already reversed: %w", settlementID, apperrors.ErrConflict)
	}
	t.reversed[settlementID] = reversedBy
	return nil
}

// Commit publishes every staged change under the store lock, or none of them.
func (t *ledgerTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for accountID, version := range t.base {
		live, ok := s.accounts[accountID]
		if !ok {
			return fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
		}
		if live.Version != version {
			return fmt.Errorf("account %s moved from version %d to %d: %w",
				accountID, version, live.Version, apperrors.ErrVersionConflict)
		}
	}
	for _, entry := range t.entries {
		if _, exists := s.idempotency[entry.IdempotencyKey]; exists {
			return fmt.Errorf("settlement %s: %w", entry.IdempotencyKey, apperrors.ErrDuplicate)
		}
	}
	for settlementID := range t.reversed {
		orig, ok := s.settlements[settlementID]
		if !ok {
			return fmt.Errorf("settlement %s: %w", settlementID, apperrors.ErrNotFound)
		}
		if orig.ReversedBySettlementID != nil {
			return fmt.Errorf("settlement %s already reversed: %w", settlementID, apperrors.ErrConflict)
		}
	}

	for accountID, acc := range t.staged {
		s.accounts[accountID] = acc
	}
	for _, txn := range t.txns {
		s.byAccount[txn.AccountID] = append(s.byAccount[txn.AccountID], txn)
		s.bySettlement[txn.SettlementID] = append(s.bySettlement[txn.SettlementID], txn)
	}
	for _, entry := range t.entries {
		s.settlements[entry.SettlementID] = entry
		s.idempotency[entry.IdempotencyKey] = entry.SettlementID
	}
	for settlementID, reversedBy := range t.reversed {
		orig := s.settlements[settlementID]
		by := reversedBy
		orig.ReversedBySettlementID = &by
		s.settlements[settlementID] = orig
	}
	return nil
}

// Rollback discards the staging log.
func (t *ledgerTx) Rollback(ctx context.Context) error {
	t.done = true
	t.staged = nil
	t.txns = nil
	t.entries = nil
	return nil
}
