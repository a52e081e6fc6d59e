package models

import (
	"github.com/shopspring/decimal"
)

// Account is the stored form of a ledger account.
// OwnerType and OwnerID are NULL for system accounts.
type Account struct {
	AccountID    string          `db:"account_id"`
	Name         string          `db:"name"`
	Kind         string          `db:"kind"`
	Category     string          `db:"category"`
	OwnerType    *string         `db:"owner_type"`
	OwnerID      *string         `db:"owner_id"`
	CurrencyCode string          `db:"currency_code"`
	CreditLimit  decimal.Decimal `db:"credit_limit"`
	Balance      decimal.Decimal `db:"balance"`
	Version      int64           `db:"version"`
	AuditFields
}
