package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is the stored form of a settlement entry. Legs and Breakdown
// are JSON documents.
type Settlement struct {
	SettlementID           string          `db:"settlement_id"`
	ReferenceType          string          `db:"reference_type"`
	ReferenceID            string          `db:"reference_id"`
	IdempotencyKey         string          `db:"idempotency_key"`
	Fingerprint            string          `db:"fingerprint"`
	Legs                   []byte          `db:"legs"`
	Breakdown              []byte          `db:"breakdown"`
	TotalAmount            decimal.Decimal `db:"total_amount"`
	Status                 string          `db:"status"`
	ReversesSettlementID   *string         `db:"reverses_settlement_id"`
	ReversedBySettlementID *string         `db:"reversed_by_settlement_id"`
	CreatedAt              time.Time       `db:"created_at"`
	CreatedBy              string          `db:"created_by"`
}

// ReferenceStatus is the stored state of a business reference.
type ReferenceStatus struct {
	ReferenceType string    `db:"reference_type"`
	ReferenceID   string    `db:"reference_id"`
	State         string    `db:"state"`
	SettlementID  *string   `db:"settlement_id"`
	LastError     *string   `db:"last_error"`
	UpdatedAt     time.Time `db:"updated_at"`
	UpdatedBy     string    `db:"updated_by"`
}

// BalanceMirror is the stored copy of an owner's registry balance.
type BalanceMirror struct {
	OwnerType string          `db:"owner_type"`
	OwnerID   string          `db:"owner_id"`
	AccountID string          `db:"account_id"`
	Balance   decimal.Decimal `db:"balance"`
	Version   int64           `db:"version"`
	UpdatedAt time.Time       `db:"updated_at"`
}
