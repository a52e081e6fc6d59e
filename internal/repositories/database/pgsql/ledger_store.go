package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/travel_settlement/internal/models"
	"github.com/SscSPs/travel_settlement/internal/utils/mapping"
	"github.com/SscSPs/travel_settlement/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const settlementColumns = `settlement_id, reference_type, reference_id, idempotency_key, fingerprint, legs, breakdown, total_amount, status, reverses_settlement_id, reversed_by_settlement_id, created_at, created_by`

const transactionColumns = `transaction_id, settlement_id, account_id, leg_index, direction, amount, reference_type, reference_id, balance_before, balance_after, version_after, created_at`

// PgxLedgerStore persists settlements and ledger transactions and opens
// ledger units of work on a pooled connection.
type PgxLedgerStore struct {
	BaseRepository
}

func newPgxLedgerStore(pool *pgxpool.Pool) *PgxLedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerStore)(nil)

// Begin starts a read-committed transaction. Row locks taken by
// FindAccountByID and the version guard in ApplyDelta keep concurrent
// units of work from interleaving on the same account.
func (r *PgxLedgerStore) Begin(ctx context.Context) (portsrepo.LedgerTx, error) {
	tx, err := r.BaseRepository.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxLedgerTx{base: &r.BaseRepository, tx: tx}, nil
}

func scanSettlement(row pgx.Row) (*domain.SettlementEntry, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.IdempotencyKey,
		&m.Fingerprint,
		&m.Legs,
		&m.Breakdown,
		&m.TotalAmount,
		&m.Status,
		&m.ReversesSettlementID,
		&m.ReversedBySettlementID,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	entry, err := mapping.ToDomainSettlement(m)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanTransaction(row pgx.Row) (domain.LedgerTransaction, error) {
	var m models.LedgerTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.SettlementID,
		&m.AccountID,
		&m.LegIndex,
		&m.Direction,
		&m.Amount,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.VersionAfter,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}
	return mapping.ToDomainLedgerTransaction(m), nil
}

func collectTransactions(rows pgx.Rows) ([]domain.LedgerTransaction, error) {
	defer rows.Close()

	var txns []domain.LedgerTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// findSettlement loads one settlement and its transactions in leg order.
func (r *PgxLedgerStore) findSettlement(ctx context.Context, where string, args ...any) (*domain.SettlementEntry, error) {
	entry, err := scanSettlement(r.Pool.QueryRow(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settlement: %w", err)
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM ledger_transactions WHERE settlement_id = $1 ORDER BY leg_index;`,
		entry.SettlementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions of settlement %s: %w", entry.SettlementID, err)
	}
	if entry.Transactions, err = collectTransactions(rows); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindSettlementByID retrieves a settlement and its transactions.
func (r *PgxLedgerStore) FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementEntry, error) {
	return r.findSettlement(ctx, `settlement_id = $1;`, settlementID)
}

// FindSettlementByReference retrieves the settlement recorded for a business reference.
func (r *PgxLedgerStore) FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error) {
	return r.findSettlement(ctx, `reference_type = $1 AND reference_id = $2;`, string(refType), refID)
}

// ListTransactionsByAccountID returns a newest-first page of an account's
// transactions using keyset pagination on (created_at, transaction_id).
func (r *PgxLedgerStore) ListTransactionsByAccountID(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	conditions := []string{"account_id = $1"}
	args := []any{accountID}
	addCondition := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = len(args)
		}
		conditions = append(conditions, fmt.Sprintf(format, placeholders...))
	}

	if filter.ReferenceType != "" {
		addCondition("reference_type = $%d", string(filter.ReferenceType))
	}
	if filter.Direction != "" {
		addCondition("direction = $%d", string(filter.Direction))
	}
	if filter.From != nil {
		addCondition("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("created_at < $%d", *filter.To)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		addCondition("(created_at, transaction_id) < ($%d, $%d)", cursorTime, cursorID)
	}

	// Fetch one extra row to know whether another page exists.
	args = append(args, limit+1)
	query := fmt.Sprintf(`SELECT %s FROM ledger_transactions WHERE %s ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;`,
		transactionColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextToken = &token
	}
	if txns == nil {
		txns = []domain.LedgerTransaction{}
	}
	return txns, nextToken, nil
}

// pgxLedgerTx is a ledger unit of work backed by one database transaction.
type pgxLedgerTx struct {
	base *BaseRepository
	tx   pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// FindAccountByID reads the account and locks its row until the transaction ends.
func (t *pgxLedgerTx) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, t.tx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID)
}

func (t *pgxLedgerTx) ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, expectedVersion int64, at time.Time) (decimal.Decimal, int64, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, version = version + 1, last_updated_at = $4
		WHERE account_id = $1 AND version = $3
		RETURNING balance, version;
	`
	var balance decimal.Decimal
	var version int64
	err := t.tx.QueryRow(ctx, query, accountID, signedAmount, expectedVersion, at).Scan(&balance, &version)
	if err == nil {
		return balance, version, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, 0, translatePgError(err, "failed to apply delta to account "+accountID)
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to check account %s: %w", accountID, err)
	}
	if !exists {
		return decimal.Zero, 0, fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
	}
	return decimal.Zero, 0, fmt.Errorf("account %s is no longer at version %d: %w", accountID, expectedVersion, apperrors.ErrVersionConflict)
}

func (t *pgxLedgerTx) InsertTransactions(ctx context.Context, txns []domain.LedgerTransaction) error {
	if len(txns) == 0 {
		return nil
	}

	query := `INSERT INTO ledger_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelLedgerTransaction(txn)
		batch.Queue(query,
			m.TransactionID,
			m.SettlementID,
			m.AccountID,
			m.LegIndex,
			m.Direction,
			m.Amount,
			m.ReferenceType,
			m.ReferenceID,
			m.BalanceBefore,
			m.BalanceAfter,
			m.VersionAfter,
			m.CreatedAt,
		)
	}

	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := range txns {
		if _, err := br.Exec(); err != nil {
			return translatePgError(err, fmt.Sprintf("failed to insert transaction %d", i))
		}
	}
	return nil
}

func (t *pgxLedgerTx) SaveSettlement(ctx context.Context, entry domain.SettlementEntry) error {
	m, err := mapping.ToModelSettlement(entry)
	if err != nil {
		return err
	}

	query := `INSERT INTO settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err = t.tx.Exec(ctx, query,
		m.SettlementID,
		m.ReferenceType,
		m.ReferenceID,
		m.IdempotencyKey,
		m.Fingerprint,
		m.Legs,
		m.Breakdown,
		m.TotalAmount,
		m.Status,
		m.ReversesSettlementID,
		m.ReversedBySettlementID,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return translatePgError(err, "failed to save settlement "+m.IdempotencyKey)
	}
	return nil
}

func (t *pgxLedgerTx) MarkSettlementReversed(ctx context.Context, settlementID string, reversedBy string) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE settlements SET reversed_by_settlement_id = $2 WHERE settlement_id = $1 AND reversed_by_settlement_id IS NULL;`,
		settlementID, reversedBy)
	if err != nil {
		return translatePgError(err, "failed to mark settlement "+settlementID+" reversed")
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM settlements WHERE settlement_id = $1);`, settlementID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check settlement %s: %w", settlementID, err)
	}
	if !exists {
		return fmt.Errorf("settlement %s: %w", settlementID, apperrors.ErrNotFound)
	}
	return fmt.Errorf("settlement %s already reversed: %w", settlementID, apperrors.ErrConflict)
}

func (t *pgxLedgerTx) Commit(ctx context.Context) error {
	return t.base.Commit(ctx, t.tx)
}

func (t *pgxLedgerTx) Rollback(ctx context.Context) error {
	return t.base.Rollback(ctx, t.tx)
}
