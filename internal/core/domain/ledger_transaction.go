package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a ledger line is a Debit or a Credit.
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// IsValid reports whether d is DEBIT or CREDIT.
func (d Direction) IsValid() bool {
	return d == Debit || d == Credit
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

// LedgerTransaction is an immutable record of one leg applied to one account.
type LedgerTransaction struct {
	TransactionID string          `json:"transactionID"`
	SettlementID  string          `json:"settlementID"`
	AccountID     string          `json:"accountID"`
	LegIndex      int             `json:"legIndex"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	VersionAfter  int64           `json:"versionAfter"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TransactionFilter narrows an account statement listing.
type TransactionFilter struct {
	ReferenceType ReferenceType
	Direction     Direction
	From          *time.Time
	To            *time.Time
	Limit         int
	NextToken     *string
}
