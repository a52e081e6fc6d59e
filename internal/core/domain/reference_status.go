package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceState is the settlement-facing status of an external entity.
type ReferenceState string

const (
	ReferencePaid      ReferenceState = "PAID"
	ReferenceApproved  ReferenceState = "APPROVED"
	ReferenceConfirmed ReferenceState = "CONFIRMED"
	ReferenceFailed    ReferenceState = "FAILED"
)

// IsSettled reports whether the entity has been marked as settled.
func (s ReferenceState) IsSettled() bool {
	return s == ReferencePaid || s == ReferenceApproved || s == ReferenceConfirmed
}

// ReferenceStatus records what an event adapter reflected on its entity.
type ReferenceStatus struct {
	ReferenceType ReferenceType  `json:"referenceType"`
	ReferenceID   string         `json:"referenceID"`
	State         ReferenceState `json:"state"`
	SettlementID  string         `json:"settlementID,omitempty"`
	LastError     string         `json:"lastError,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	UpdatedBy     string         `json:"updatedBy"`
}

// BalanceMirror is a provider's or agent's read-only copy of its account balance.
// A mirror is only replaced by one carrying a higher Version.
type BalanceMirror struct {
	Owner     OwnerRef        `json:"owner"`
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
