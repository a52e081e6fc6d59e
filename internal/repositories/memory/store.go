// Package memory is an in-process implementation of the settlement
// repositories. Units of work stage their changes in a private log and
// publish them under the store lock on Commit, re-checking every touched
// account's version, so a failed or rolled back unit leaves no trace.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/utils/pagination"
)

// Store holds accounts, settlements, transactions and reference statuses in memory.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	owners       map[domain.OwnerRef]string
	byAccount    map[string][]domain.LedgerTransaction
	bySettlement map[string][]domain.LedgerTransaction
	settlements  map[string]domain.SettlementEntry
	idempotency  map[string]string
	statuses     map[string]domain.ReferenceStatus
	mirrors      map[domain.OwnerRef]domain.BalanceMirror
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade    = (*Store)(nil)
	_ portsrepo.ReferenceStatusRepository = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		owners:       make(map[domain.OwnerRef]string),
		byAccount:    make(map[string][]domain.LedgerTransaction),
		bySettlement: make(map[string][]domain.LedgerTransaction),
		settlements:  make(map[string]domain.SettlementEntry),
		idempotency:  make(map[string]string),
		statuses:     make(map[string]domain.ReferenceStatus),
		mirrors:      make(map[domain.OwnerRef]domain.BalanceMirror),
	}
}

// Provider returns a RepositoryProvider backed entirely by this store.
func (s *Store) Provider() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:   s,
		LedgerRepo:    s,
		ReferenceRepo: s,
	}
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyAccount(acc), nil
}

// FindAccountByOwner retrieves the account owned by a provider or agent.
func (s *Store) FindAccountByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, ok := s.owners[domain.OwnerRef{Type: ownerType, ID: ownerID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyAccount(s.accounts[accountID]), nil
}

// FindAccountsByIDs retrieves the accounts that exist among accountIDs.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			found[id] = *copyAccount(acc)
		}
	}
	return found, nil
}

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}
	if account.Owner != nil {
		if _, exists := s.owners[*account.Owner]; exists {
			return fmt.Errorf("owner %s/%s already has an account: %w", account.Owner.Type, account.Owner.ID, apperrors.ErrDuplicate)
		}
		s.owners[*account.Owner] = account.AccountID
	}
	s.accounts[account.AccountID] = *copyAccount(account)
	return nil
}

// FindSettlementByID retrieves a settlement and its transactions.
func (s *Store) FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.settlements[settlementID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.hydrate(entry), nil
}

// FindSettlementByReference retrieves the settlement recorded for a business reference.
func (s *Store) FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settlementID, ok := s.idempotency[domain.IdempotencyKey(refType, refID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.hydrate(s.settlements[settlementID]), nil
}

// hydrate must be called with the lock held.
func (s *Store) hydrate(entry domain.SettlementEntry) *domain.SettlementEntry {
	entry.Legs = append([]domain.Leg(nil), entry.Legs...)
	entry.Transactions = append([]domain.LedgerTransaction(nil), s.bySettlement[entry.SettlementID]...)
	return &entry
}

// ListTransactionsByAccountID returns a newest-first page of an account's transactions.
func (s *Store) ListTransactionsByAccountID(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	s.mu.RLock()
	history := s.byAccount[accountID]
	rows := make([]domain.LedgerTransaction, 0, len(history))
	for _, txn := range history {
		if matchesFilter(txn, filter) {
			rows = append(rows, txn)
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].TransactionID > rows[j].TransactionID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	if filter.NextToken != nil && *filter.NextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		start := len(rows)
		for i, txn := range rows {
			if pagination.IsAfter(txn.CreatedAt, txn.TransactionID, cursorTime, cursorID) {
				start = i
				break
			}
		}
		rows = rows[start:]
	}

	var nextToken *string
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextToken = &token
	}
	return rows, nextToken, nil
}

func matchesFilter(txn domain.LedgerTransaction, filter domain.TransactionFilter) bool {
	if filter.ReferenceType != "" && txn.ReferenceType != filter.ReferenceType {
		return false
	}
	if filter.Direction != "" && txn.Direction != filter.Direction {
		return false
	}
	if filter.From != nil && txn.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !txn.CreatedAt.Before(*filter.To) {
		return false
	}
	return true
}

// SaveReferenceStatus inserts or replaces the status of a reference.
func (s *Store) SaveReferenceStatus(ctx context.Context, status domain.ReferenceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[domain.IdempotencyKey(status.ReferenceType, status.ReferenceID)] = status
	return nil
}

// FindReferenceStatus retrieves the status of a reference.
func (s *Store) FindReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[domain.IdempotencyKey(refType, refID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &status, nil
}

// SaveBalanceMirror stores the mirror unless a newer one is already stored.
func (s *Store) SaveBalanceMirror(ctx context.Context, mirror domain.BalanceMirror) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.mirrors[mirror.Owner]; ok && current.Version >= mirror.Version {
		return nil
	}
	s.mirrors[mirror.Owner] = mirror
	return nil
}

// FindBalanceMirror retrieves the mirror held for an owner.
func (s *Store) FindBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mirror, ok := s.mirrors[owner]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &mirror, nil
}

func copyAccount(acc domain.Account) *domain.Account {
	if acc.Owner != nil {
		owner := *acc.Owner
		acc.Owner = &owner
	}
	return &acc
}
