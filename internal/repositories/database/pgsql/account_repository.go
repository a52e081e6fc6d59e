package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/models"
	"github.com/SscSPs/travel_settlement/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, kind, category, owner_type, owner_id, currency_code, credit_limit, balance, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
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
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Kind,
		m.Category,
		m.OwnerType,
		m.OwnerID,
		m.CurrencyCode,
		m.CreditLimit,
		m.Balance,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return translatePgError(err, "failed to save account "+m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID)
}

// FindAccountByOwner retrieves the account owned by a provider or agent.
func (r *PgxAccountRepository) FindAccountByOwner(ctx context.Context, ownerType domain.OwnerType, ownerID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, `SELECT `+accountColumns+` FROM accounts WHERE owner_type = $1 AND owner_id = $2;`, string(ownerType), ownerID)
}

func findAccount(ctx context.Context, q querier, query string, args ...any) (*domain.Account, error) {
	account, err := scanAccount(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are
// simply absent from the result.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}
