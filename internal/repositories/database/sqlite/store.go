package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/models"
	"github.com/SscSPs/travel_settlement/internal/utils/mapping"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

const accountColumns = `account_id, name, kind, category, owner_type, owner_id, currency_code, credit_limit, balance, version, created_at, created_by, last_updated_at, last_updated_by`

// Store is a single-file SQLite implementation of every settlement repository.
// Amounts are stored as decimal strings and times as unix milliseconds.
type Store struct {
	sqlDB *sql.DB
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade    = (*Store)(nil)
	_ portsrepo.ReferenceStatusRepository = (*Store)(nil)
)

// Open opens a SQLite store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	// Write transactions take the database lock at BEGIN so concurrent units
	// of work queue on busy_timeout instead of failing at commit.
	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:   s,
		LedgerRepo:    s,
		ReferenceRepo: s,
	}
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// nullableText stores an empty document as NULL.
func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// translateSQLiteError maps SQLite result codes onto application errors.
func translateSQLiteError(err error, msg string) error {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%s: %w", msg, apperrors.ErrDuplicate)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", msg, apperrors.ErrNotFound)
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return fmt.Errorf("%s: %w", msg, apperrors.ErrVersionConflict)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var m models.Account
	var createdAt, updatedAt int64
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Kind,
		&m.Category,
		&m.OwnerType,
		&m.OwnerID,
		&m.CurrencyCode,
		&m.CreditLimit,
		&m.Balance,
		&m.Version,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = fromMillis(createdAt)
	m.LastUpdatedAt = fromMillis(updatedAt)
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

func findAccount(ctx context.Context, q queryRower, query string, args ...any) (*domain.Account, error) {
	account, err := scanAccount(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// SaveAccount inserts a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO accounts (`+accountColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		m.AccountID,
		m.Name,
		m.Kind,
		m.Category,
		m.OwnerType,
		m.OwnerID,
		m.CurrencyCode,
		m.CreditLimit.String(),
		m.Balance.String(),
		m.Version,
		toMillis(m.CreatedAt),
		m.CreatedBy,
		toMillis(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		return translateSQLiteError(err, "save account "+m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, s.sqlDB, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
}

// FindAccountByOwner retrieves the account owned by a provider or agent.
func (s *Store) FindAccountByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error) {
	return findAccount(ctx, s.sqlDB, `SELECT `+accountColumns+` FROM accounts WHERE owner_type = ? AND owner_id = ?`, string(ownerType), ownerID)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(accountIDs)), ", ")
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// SaveReferenceStatus inserts or replaces the status of a reference.
func (s *Store) SaveReferenceStatus(ctx context.Context, status domain.ReferenceStatus) error {
	m := mapping.ToModelReferenceStatus(status)
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO reference_statuses (reference_type, reference_id, state, settlement_id, last_error, updated_at, updated_by)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (reference_type, reference_id) DO UPDATE SET
	state = excluded.state,
	settlement_id = excluded.settlement_id,
	last_error = excluded.last_error,
	updated_at = excluded.updated_at,
	updated_by = excluded.updated_by
`,
		m.ReferenceType, m.ReferenceID, m.State, m.SettlementID, m.LastError, toMillis(m.UpdatedAt), m.UpdatedBy)
	if err != nil {
		return translateSQLiteError(err, "save reference status")
	}
	return nil
}

// FindReferenceStatus retrieves the status of a reference.
func (s *Store) FindReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error) {
	var m models.ReferenceStatus
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT reference_type, reference_id, state, settlement_id, last_error, updated_at, updated_by
FROM reference_statuses
WHERE reference_type = ? AND reference_id = ?
`, string(refType), refID).Scan(&m.ReferenceType, &m.ReferenceID, &m.State, &m.SettlementID, &m.LastError, &updatedAt, &m.UpdatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find reference status: %w", err)
	}
	m.UpdatedAt = fromMillis(updatedAt)
	status := mapping.ToDomainReferenceStatus(m)
	return &status, nil
}

// SaveBalanceMirror stores the mirror unless a newer one is already stored.
func (s *Store) SaveBalanceMirror(ctx context.Context, mirror domain.BalanceMirror) error {
	m := mapping.ToModelBalanceMirror(mirror)
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO balance_mirrors (owner_type, owner_id, account_id, balance, version, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (owner_type, owner_id) DO UPDATE SET
	account_id = excluded.account_id,
	balance = excluded.balance,
	version = excluded.version,
	updated_at = excluded.updated_at
WHERE balance_mirrors.version < excluded.version
`,
		m.OwnerType, m.OwnerID, m.AccountID, m.Balance.String(), m.Version, toMillis(m.UpdatedAt))
	if err != nil {
		return translateSQLiteError(err, "save balance mirror")
	}
	return nil
}

// FindBalanceMirror retrieves the mirror held for an owner.
func (s *Store) FindBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error) {
	var m models.BalanceMirror
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT owner_type, owner_id, account_id, balance, version, updated_at
FROM balance_mirrors
WHERE owner_type = ? AND owner_id = ?
`, string(owner.Type), owner.ID).Scan(&m.OwnerType, &m.OwnerID, &m.AccountID, &m.Balance, &m.Version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find balance mirror: %w", err)
	}
	m.UpdatedAt = fromMillis(updatedAt)
	mirror := mapping.ToDomainBalanceMirror(m)
	return &mirror, nil
}
