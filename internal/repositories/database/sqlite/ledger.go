package sqlite

import (
	"context"
	"database/sql"
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
	"github.com/shopspring/decimal"
)

const settlementColumns = `settlement_id, reference_type, reference_id, idempotency_key, fingerprint, legs, breakdown, total_amount, status, reverses_settlement_id, reversed_by_settlement_id, created_at, created_by`

const transactionColumns = `transaction_id, settlement_id, account_id, leg_index, direction, amount, reference_type, reference_id, balance_before, balance_after, version_after, created_at`

func scanSettlement(row rowScanner) (*domain.SettlementEntry, error) {
	var m models.Settlement
	var createdAt int64
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
		&createdAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = fromMillis(createdAt)
	entry, err := mapping.ToDomainSettlement(m)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanTransactions(rows *sql.Rows) ([]domain.LedgerTransaction, error) {
	defer rows.Close()

	txns := []domain.LedgerTransaction{}
	for rows.Next() {
		var m models.LedgerTransaction
		var createdAt int64
		err := rows.Scan(
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
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		m.CreatedAt = fromMillis(createdAt)
		txns = append(txns, mapping.ToDomainLedgerTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

func (s *Store) findSettlement(ctx context.Context, where string, args ...any) (*domain.SettlementEntry, error) {
	entry, err := scanSettlement(s.sqlDB.QueryRowContext(ctx, `SELECT `+settlementColumns+` FROM settlements WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find settlement: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM ledger_transactions WHERE settlement_id = ? ORDER BY leg_index`,
		entry.SettlementID)
	if err != nil {
		return nil, fmt.Errorf("query settlement transactions: %w", err)
	}
	if entry.Transactions, err = scanTransactions(rows); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindSettlementByID retrieves a settlement and its transactions.
func (s *Store) FindSettlementByID(ctx context.Context, settlementID string) (*domain.SettlementEntry, error) {
	return s.findSettlement(ctx, `settlement_id = ?`, settlementID)
}

// FindSettlementByReference retrieves the settlement recorded for a business reference.
func (s *Store) FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error) {
	return s.findSettlement(ctx, `reference_type = ? AND reference_id = ?`, string(refType), refID)
}

// ListTransactionsByAccountID returns a newest-first page of an account's transactions.
func (s *Store) ListTransactionsByAccountID(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.LedgerTransaction, *string, error) {
	limit := pagination.NormalizeLimit(filter.Limit)

	conditions := []string{"account_id = ?"}
	args := []any{accountID}
	if filter.ReferenceType != "" {
		conditions = append(conditions, "reference_type = ?")
		args = append(args, string(filter.ReferenceType))
	}
	if filter.Direction != "" {
		conditions = append(conditions, "direction = ?")
		args = append(args, string(filter.Direction))
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, toMillis(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at < ?")
		args = append(args, toMillis(*filter.To))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		conditions = append(conditions, "(created_at, transaction_id) < (?, ?)")
		args = append(args, toMillis(cursorTime), cursorID)
	}
	args = append(args, limit+1)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+transactionColumns+`
FROM ledger_transactions
WHERE `+strings.Join(conditions, " AND ")+`
ORDER BY created_at DESC, transaction_id DESC
LIMIT ?
`, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("list transactions: %w", err)
	}
	txns, err := scanTransactions(rows)
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
	return txns, nextToken, nil
}

// Begin starts a write transaction. The connection takes the database write
// lock immediately, so units of work run one at a time.
func (s *Store) Begin(ctx context.Context) (portsrepo.LedgerTx, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateSQLiteError(err, "begin transaction")
	}
	return &ledgerTx{tx: tx}, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (t *ledgerTx) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, t.tx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ?`, accountID)
}

func (t *ledgerTx) ApplyDelta(ctx context.Context, accountID string, signedAmount decimal.Decimal, expectedVersion int64, at time.Time) (decimal.Decimal, int64, error) {
	var current decimal.Decimal
	var version int64
	err := t.tx.QueryRowContext(ctx, `SELECT balance, version FROM accounts WHERE account_id = ?`, accountID).Scan(&current, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, 0, fmt.Errorf("account %s: %w", accountID, apperrors.ErrAccountNotFound)
		}
		return decimal.Zero, 0, fmt.Errorf("read account %s: %w", accountID, err)
	}
	if version != expectedVersion {
		return decimal.Zero, 0, fmt.Errorf("account %s at version %d, expected %d: %w",
			accountID, version, expectedVersion, apperrors.ErrVersionConflict)
	}

	balance := current.Add(signedAmount)
	res, err := t.tx.ExecContext(ctx, `
UPDATE accounts
SET balance = ?, version = version + 1, last_updated_at = ?
WHERE account_id = ? AND version = ?
`, balance.String(), toMillis(at), accountID, expectedVersion)
	if err != nil {
		return decimal.Zero, 0, translateSQLiteError(err, "apply delta to account "+accountID)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return decimal.Zero, 0, fmt.Errorf("account %s moved during update: %w", accountID, apperrors.ErrVersionConflict)
	}
	return balance, version + 1, nil
}

func (t *ledgerTx) InsertTransactions(ctx context.Context, txns []domain.LedgerTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx, `
INSERT INTO ledger_transactions (`+transactionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, txn := range txns {
		m := mapping.ToModelLedgerTransaction(txn)
		_, err := stmt.ExecContext(ctx,
			m.TransactionID,
			m.SettlementID,
			m.AccountID,
			m.LegIndex,
			m.Direction,
			m.Amount.String(),
			m.ReferenceType,
			m.ReferenceID,
			m.BalanceBefore.String(),
			m.BalanceAfter.String(),
			m.VersionAfter,
			toMillis(m.CreatedAt),
		)
		if err != nil {
			return translateSQLiteError(err, "insert transaction "+m.TransactionID)
		}
	}
	return nil
}

func (t *ledgerTx) SaveSettlement(ctx context.Context, entry domain.SettlementEntry) error {
	m, err := mapping.ToModelSettlement(entry)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx, `
INSERT INTO settlements (`+settlementColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		m.SettlementID,
		m.ReferenceType,
		m.ReferenceID,
		m.IdempotencyKey,
		m.Fingerprint,
		string(m.Legs),
		nullableText(m.Breakdown),
		m.TotalAmount.String(),
		m.Status,
		m.ReversesSettlementID,
		m.ReversedBySettlementID,
		toMillis(m.CreatedAt),
		m.CreatedBy,
	)
	if err != nil {
		return translateSQLiteError(err, "save settlement "+m.IdempotencyKey)
	}
	return nil
}

func (t *ledgerTx) MarkSettlementReversed(ctx context.Context, settlementID string, reversedBy string) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE settlements SET reversed_by_settlement_id = ? WHERE settlement_id = ? AND reversed_by_settlement_id IS NULL`,
		reversedBy, settlementID)
	if err != nil {
		return translateSQLiteError(err, "mark settlement "+settlementID+" reversed")
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM settlements WHERE settlement_id = ?)`, settlementID).Scan(&exists); err != nil {
		return fmt.Errorf("check settlement %s: %w", settlementID, err)
	}
	if !exists {
		return fmt.Errorf("settlement %s: %w", settlementID, apperrors.ErrNotFound)
	}
	return fmt.Errorf("settlement %s already reversed: %w", settlementID, apperrors.ErrConflict)
}

func (t *ledgerTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return translateSQLiteError(err, "commit transaction")
	}
	return nil
}

func (t *ledgerTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
