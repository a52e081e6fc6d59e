package dto

import (
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CommissionRuleRequest is a commission rule as sent by callers.
type CommissionRuleRequest struct {
	Type  domain.CommissionRuleType `json:"type" binding:"required,oneof=FIXED PERCENTAGE"`
	Value decimal.Decimal           `json:"value"`
}

// ToDomain converts the request to a domain rule. A nil request stays nil.
func (r *CommissionRuleRequest) ToDomain() *domain.CommissionRule {
	if r == nil {
		return nil
	}
	return &domain.CommissionRule{Type: r.Type, Value: r.Value}
}

// OwnerRefRequest references a provider or agent.
type OwnerRefRequest struct {
	Type domain.OwnerType `json:"type" binding:"required"`
	ID   string           `json:"id" binding:"required"`
}

// ToDomain converts the request to a domain owner reference.
func (r *OwnerRefRequest) ToDomain() *domain.OwnerRef {
	if r == nil {
		return nil
	}
	return &domain.OwnerRef{Type: r.Type, ID: r.ID}
}

// SettleRequest is the generic settlement request body.
type SettleRequest struct {
	Kind              domain.EventKind       `json:"kind" binding:"required,oneof=BOOKING_PAYMENT VOUCHER AGENT_DEPOSIT PROVIDER_PAYMENT"`
	ReferenceID       string                 `json:"referenceID" binding:"required,max=128"`
	BaseAmount        decimal.Decimal        `json:"baseAmount"`
	CommissionRule    *CommissionRuleRequest `json:"commissionRule"`
	AgentRule         *CommissionRuleRequest `json:"agentRule"`
	PayerAccountID    string                 `json:"payerAccountID"`
	ProviderAccountID string                 `json:"providerAccountID"`
	ProviderID        string                 `json:"providerID"`
	AgentAccountID    string                 `json:"agentAccountID"`
	AgentID           string                 `json:"agentID"`
	Amount            decimal.Decimal        `json:"amount"`
	VoucherType       domain.VoucherType     `json:"voucherType" binding:"omitempty,oneof=RECEIPT PAYMENT TRANSFER"`
	FromAccountID     string                 `json:"fromAccountID"`
	ToAccountID       string                 `json:"toAccountID"`
	Beneficiary       *OwnerRefRequest       `json:"beneficiary"`
}

var kindReferenceTypes = map[domain.EventKind]domain.ReferenceType{
	domain.EventBookingPayment:  domain.RefBooking,
	domain.EventVoucher:         domain.RefVoucher,
	domain.EventAgentDeposit:    domain.RefAgentDeposit,
	domain.EventProviderPayment: domain.RefProviderPayment,
}

// ToSettlementEvent converts the request to a domain event.
func (r SettleRequest) ToSettlementEvent(requestedBy string) domain.SettlementEvent {
	return domain.SettlementEvent{
		Kind:              r.Kind,
		ReferenceType:     kindReferenceTypes[r.Kind],
		ReferenceID:       r.ReferenceID,
		BaseAmount:        r.BaseAmount,
		CommissionRule:    r.CommissionRule.ToDomain(),
		AgentRule:         r.AgentRule.ToDomain(),
		PayerAccountID:    r.PayerAccountID,
		ProviderAccountID: r.ProviderAccountID,
		ProviderID:        r.ProviderID,
		AgentAccountID:    r.AgentAccountID,
		AgentID:           r.AgentID,
		Amount:            r.Amount,
		VoucherType:       r.VoucherType,
		FromAccountID:     r.FromAccountID,
		ToAccountID:       r.ToAccountID,
		Beneficiary:       r.Beneficiary.ToDomain(),
		RequestedBy:       requestedBy,
	}
}

// FindSettlementParams looks a settlement up by its business reference.
type FindSettlementParams struct {
	ReferenceType domain.ReferenceType `form:"referenceType" binding:"required,oneof=BOOKING VOUCHER AGENT_DEPOSIT PROVIDER_PAYMENT REVERSAL"`
	ReferenceID   string               `form:"referenceID" binding:"required"`
}

// LegResponse is one leg of a settlement.
type LegResponse struct {
	AccountID string           `json:"accountID"`
	Direction domain.Direction `json:"direction"`
	Amount    decimal.Decimal  `json:"amount"`
	Memo      string           `json:"memo,omitempty"`
}

// SettlementResponse defines the data returned for a settlement.
type SettlementResponse struct {
	SettlementID           string                      `json:"settlementID"`
	ReferenceType          domain.ReferenceType        `json:"referenceType"`
	ReferenceID            string                      `json:"referenceID"`
	Status                 domain.SettlementStatus     `json:"status"`
	TotalAmount            decimal.Decimal             `json:"totalAmount"`
	IsBalanced             bool                        `json:"isBalanced"`
	Legs                   []LegResponse               `json:"legs"`
	Transactions           []TransactionResponse       `json:"transactions,omitempty"`
	Breakdown              *domain.CommissionBreakdown `json:"breakdown,omitempty"`
	ReversesSettlementID   *string                     `json:"reversesSettlementID,omitempty"`
	ReversedBySettlementID *string                     `json:"reversedBySettlementID,omitempty"`
	CreatedAt              time.Time                   `json:"createdAt"`
	CreatedBy              string                      `json:"createdBy"`
}

// ToSettlementResponse converts a domain.SettlementEntry to its DTO.
func ToSettlementResponse(entry *domain.SettlementEntry) SettlementResponse {
	res := SettlementResponse{
		SettlementID:           entry.SettlementID,
		ReferenceType:          entry.ReferenceType,
		ReferenceID:            entry.ReferenceID,
		Status:                 entry.Status,
		TotalAmount:            entry.TotalAmount,
		IsBalanced:             entry.IsBalanced,
		Legs:                   make([]LegResponse, len(entry.Legs)),
		Breakdown:              entry.Breakdown,
		ReversesSettlementID:   entry.ReversesSettlementID,
		ReversedBySettlementID: entry.ReversedBySettlementID,
		CreatedAt:              entry.CreatedAt,
		CreatedBy:              entry.CreatedBy,
	}
	for i, leg := range entry.Legs {
		res.Legs[i] = LegResponse{AccountID: leg.AccountID, Direction: leg.Direction, Amount: leg.Amount, Memo: leg.Memo}
	}
	for _, txn := range entry.Transactions {
		res.Transactions = append(res.Transactions, ToTransactionResponse(txn))
	}
	return res
}

// SettlementResultResponse is returned by every settling endpoint.
type SettlementResultResponse struct {
	Code       apperrors.ResultCode    `json:"code"`
	Status     domain.SettlementStatus `json:"status"`
	Replayed   bool                    `json:"replayed"`
	Settlement *SettlementResponse     `json:"settlement,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

// ReverseSettlementRequest carries the optional reason for a reversal.
type ReverseSettlementRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
