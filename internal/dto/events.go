package dto

import (
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BookingPaymentRequest approves a customer payment for a booking.
type BookingPaymentRequest struct {
	BaseAmount        decimal.Decimal        `json:"baseAmount"`
	CommissionRule    *CommissionRuleRequest `json:"commissionRule"`
	AgentRule         *CommissionRuleRequest `json:"agentRule"`
	PayerAccountID    string                 `json:"payerAccountID"`
	ProviderAccountID string                 `json:"providerAccountID"`
	ProviderID        string                 `json:"providerID"`
	AgentAccountID    string                 `json:"agentAccountID"`
	AgentID           string                 `json:"agentID"`
}

// ToDomain converts the request for the given booking.
func (r BookingPaymentRequest) ToDomain(bookingID, requestedBy string) domain.BookingPayment {
	return domain.BookingPayment{
		BookingID:         bookingID,
		BaseAmount:        r.BaseAmount,
		CommissionRule:    r.CommissionRule.ToDomain(),
		AgentRule:         r.AgentRule.ToDomain(),
		PayerAccountID:    r.PayerAccountID,
		ProviderAccountID: r.ProviderAccountID,
		ProviderID:        r.ProviderID,
		AgentAccountID:    r.AgentAccountID,
		AgentID:           r.AgentID,
		RequestedBy:       requestedBy,
	}
}

// VoucherApprovalRequest approves a voucher.
type VoucherApprovalRequest struct {
	Type          domain.VoucherType `json:"type" binding:"required,oneof=RECEIPT PAYMENT TRANSFER"`
	Amount        decimal.Decimal    `json:"amount"`
	FromAccountID string             `json:"fromAccountID" binding:"required"`
	ToAccountID   string             `json:"toAccountID" binding:"required"`
	Beneficiary   *OwnerRefRequest   `json:"beneficiary"`
}

// ToDomain converts the request for the given voucher.
func (r VoucherApprovalRequest) ToDomain(voucherID, requestedBy string) domain.Voucher {
	return domain.Voucher{
		VoucherID:     voucherID,
		Type:          r.Type,
		Amount:        r.Amount,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Beneficiary:   r.Beneficiary.ToDomain(),
		RequestedBy:   requestedBy,
	}
}

// AgentDepositRequest confirms an agent deposit.
type AgentDepositRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	AgentAccountID string          `json:"agentAccountID"`
}

// ToDomain converts the request for the given agent and deposit.
func (r AgentDepositRequest) ToDomain(agentID, depositID, requestedBy string) domain.AgentDeposit {
	return domain.AgentDeposit{
		DepositID:      depositID,
		AgentID:        agentID,
		AgentAccountID: r.AgentAccountID,
		Amount:         r.Amount,
		RequestedBy:    requestedBy,
	}
}

// ProviderPaymentRequest approves an external provider sale.
type ProviderPaymentRequest struct {
	BaseAmount        decimal.Decimal        `json:"baseAmount"`
	CommissionRule    *CommissionRuleRequest `json:"commissionRule"`
	PayerAccountID    string                 `json:"payerAccountID"`
	ProviderAccountID string                 `json:"providerAccountID"`
	ProviderID        string                 `json:"providerID"`
}

// ToDomain converts the request for the given payment.
func (r ProviderPaymentRequest) ToDomain(paymentID, requestedBy string) domain.ProviderPayment {
	return domain.ProviderPayment{
		PaymentID:         paymentID,
		BaseAmount:        r.BaseAmount,
		CommissionRule:    r.CommissionRule.ToDomain(),
		PayerAccountID:    r.PayerAccountID,
		ProviderAccountID: r.ProviderAccountID,
		ProviderID:        r.ProviderID,
		RequestedBy:       requestedBy,
	}
}

// ReferenceStatusResponse reports the status an adapter recorded for a reference.
type ReferenceStatusResponse struct {
	ReferenceType domain.ReferenceType  `json:"referenceType"`
	ReferenceID   string                `json:"referenceID"`
	State         domain.ReferenceState `json:"state"`
	SettlementID  string                `json:"settlementID,omitempty"`
	LastError     string                `json:"lastError,omitempty"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// ToReferenceStatusResponse converts a domain.ReferenceStatus to its DTO.
func ToReferenceStatusResponse(s *domain.ReferenceStatus) ReferenceStatusResponse {
	return ReferenceStatusResponse{
		ReferenceType: s.ReferenceType,
		ReferenceID:   s.ReferenceID,
		State:         s.State,
		SettlementID:  s.SettlementID,
		LastError:     s.LastError,
		UpdatedAt:     s.UpdatedAt,
	}
}

// BalanceMirrorResponse is an owner's mirrored balance.
type BalanceMirrorResponse struct {
	OwnerType        domain.OwnerType `json:"ownerType"`
	OwnerID          string           `json:"ownerID"`
	AccountID        string           `json:"accountID"`
	Balance          decimal.Decimal  `json:"balance"`
	FormattedBalance string           `json:"formattedBalance,omitempty"`
	Version          int64            `json:"version"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ToBalanceMirrorResponse converts a domain.BalanceMirror to its DTO.
func ToBalanceMirrorResponse(m *domain.BalanceMirror, formatted string) BalanceMirrorResponse {
	return BalanceMirrorResponse{
		OwnerType:        m.Owner.Type,
		OwnerID:          m.Owner.ID,
		AccountID:        m.AccountID,
		Balance:          m.Balance,
		FormattedBalance: formatted,
		Version:          m.Version,
		UpdatedAt:        m.UpdatedAt,
	}
}
