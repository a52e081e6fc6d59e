package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is one immutable ledger row.
type LedgerTransaction struct {
	TransactionID string          `db:"transaction_id"`
	SettlementID  string          `db:"settlement_id"`
	AccountID     string          `db:"account_id"`
	LegIndex      int             `db:"leg_index"`
	Direction     string          `db:"direction"`
	Amount        decimal.Decimal `db:"amount"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   string          `db:"reference_id"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	VersionAfter  int64           `db:"version_after"`
	CreatedAt     time.Time       `db:"created_at"`
}
