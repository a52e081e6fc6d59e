package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType identifies the business object a settlement settles.
type ReferenceType string

const (
	RefBooking         ReferenceType = "BOOKING"
	RefVoucher         ReferenceType = "VOUCHER"
	RefAgentDeposit    ReferenceType = "AGENT_DEPOSIT"
	RefProviderPayment ReferenceType = "PROVIDER_PAYMENT"
	RefReversal        ReferenceType = "REVERSAL"
)

// IsValid reports whether r is a known reference type.
func (r ReferenceType) IsValid() bool {
	switch r {
	case RefBooking, RefVoucher, RefAgentDeposit, RefProviderPayment, RefReversal:
		return true
	}
	return false
}

// IdempotencyKey derives the settlement idempotency key for a business reference.
func IdempotencyKey(refType ReferenceType, refID string) string {
	return string(refType) + ":" + refID
}

// SettlementStatus is the externally visible outcome of a settlement.
type SettlementStatus string

const (
	StatusPending SettlementStatus = "PENDING"
	StatusPosted  SettlementStatus = "POSTED"
	StatusFailed  SettlementStatus = "FAILED"
)

// SettlementState is the lifecycle state of a settlement attempt.
type SettlementState string

const (
	StateRequested  SettlementState = "REQUESTED"
	StateValidated  SettlementState = "VALIDATED"
	StatePosting    SettlementState = "POSTING"
	StatePosted     SettlementState = "POSTED"
	StateRejected   SettlementState = "REJECTED"
	StateRolledBack SettlementState = "ROLLED_BACK"
	StateFailed     SettlementState = "FAILED"
)

var settlementTransitions = map[SettlementState][]SettlementState{
	StateRequested:  {StateValidated, StateRejected},
	StateValidated:  {StatePosting, StateRejected},
	StatePosting:    {StatePosted, StateRolledBack},
	StateRolledBack: {StateFailed},
}

// CanTransition reports whether moving from s to next is allowed.
func (s SettlementState) CanTransition(next SettlementState) bool {
	for _, allowed := range settlementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s SettlementState) IsTerminal() bool {
	return len(settlementTransitions[s]) == 0
}

// Status maps a lifecycle state to the status reported to callers.
func (s SettlementState) Status() SettlementStatus {
	switch s {
	case StatePosted:
		return StatusPosted
	case StateRejected, StateFailed:
		return StatusFailed
	}
	return StatusPending
}

// Leg is one side of a balanced settlement.
type Leg struct {
	AccountID string          `json:"accountID"`
	Direction Direction       `json:"direction"`
	Amount    decimal.Decimal `json:"amount"` // strictly positive
	Memo      string          `json:"memo,omitempty"`
}

// SettlementEntry is the record of one balanced multi-leg settlement.
type SettlementEntry struct {
	SettlementID           string               `json:"settlementID"`
	ReferenceType          ReferenceType        `json:"referenceType"`
	ReferenceID            string               `json:"referenceID"`
	IdempotencyKey         string               `json:"idempotencyKey"`
	Fingerprint            string               `json:"-"`
	Legs                   []Leg                `json:"legs"`
	Transactions           []LedgerTransaction  `json:"transactions,omitempty"`
	TotalAmount            decimal.Decimal      `json:"totalAmount"`
	IsBalanced             bool                 `json:"isBalanced"`
	Status                 SettlementStatus     `json:"status"`
	Breakdown              *CommissionBreakdown `json:"breakdown,omitempty"`
	ReversesSettlementID   *string              `json:"reversesSettlementID,omitempty"`
	ReversedBySettlementID *string              `json:"reversedBySettlementID,omitempty"`
	CreatedAt              time.Time            `json:"createdAt"`
	CreatedBy              string               `json:"createdBy"`
}

// IsReversal reports whether this entry reverses another settlement.
func (e SettlementEntry) IsReversal() bool {
	return e.ReversesSettlementID != nil
}

// IsReversed reports whether a later settlement reversed this one.
func (e SettlementEntry) IsReversed() bool {
	return e.ReversedBySettlementID != nil
}

// SettlementNotificationKind names the event emitted after a settlement commits.
type SettlementNotificationKind string

const (
	NotificationPosted   SettlementNotificationKind = "settlement.posted"
	NotificationReversed SettlementNotificationKind = "settlement.reversed"
)

// SettlementNotification is published once a settlement has committed.
type SettlementNotification struct {
	Kind                 SettlementNotificationKind `json:"kind"`
	SettlementID         string                     `json:"settlementID"`
	ReferenceType        ReferenceType              `json:"referenceType"`
	ReferenceID          string                     `json:"referenceID"`
	TotalAmount          decimal.Decimal            `json:"totalAmount"`
	Legs                 []Leg                      `json:"legs"`
	ReversesSettlementID *string                    `json:"reversesSettlementID,omitempty"`
	OccurredAt           time.Time                  `json:"occurredAt"`
}

// NewSettlementNotification builds the notification for a committed entry.
func NewSettlementNotification(entry SettlementEntry, at time.Time) SettlementNotification {
	kind := NotificationPosted
	if entry.IsReversal() {
		kind = NotificationReversed
	}
	return SettlementNotification{
		Kind:                 kind,
		SettlementID:         entry.SettlementID,
		ReferenceType:        entry.ReferenceType,
		ReferenceID:          entry.ReferenceID,
		TotalAmount:          entry.TotalAmount,
		Legs:                 entry.Legs,
		ReversesSettlementID: entry.ReversesSettlementID,
		OccurredAt:           at,
	}
}
