package domain

import "github.com/shopspring/decimal"

// EventKind selects the leg template a settlement event is built with.
type EventKind string

const (
	EventBookingPayment  EventKind = "BOOKING_PAYMENT"
	EventVoucher         EventKind = "VOUCHER"
	EventAgentDeposit    EventKind = "AGENT_DEPOSIT"
	EventProviderPayment EventKind = "PROVIDER_PAYMENT"
)

// VoucherType classifies a voucher. All voucher types post the same two legs.
type VoucherType string

const (
	VoucherReceipt  VoucherType = "RECEIPT"
	VoucherPayment  VoucherType = "PAYMENT"
	VoucherTransfer VoucherType = "TRANSFER"
)

// SettlementEvent is one monetary event handed to the settlement engine.
// Provider and agent accounts are referenced either by account id or by the
// owning entity's id; display names are never used for resolution.
type SettlementEvent struct {
	Kind          EventKind     `json:"kind" validate:"required,oneof=BOOKING_PAYMENT VOUCHER AGENT_DEPOSIT PROVIDER_PAYMENT"`
	ReferenceType ReferenceType `json:"referenceType" validate:"required,oneof=BOOKING VOUCHER AGENT_DEPOSIT PROVIDER_PAYMENT"`
	ReferenceID   string        `json:"referenceID" validate:"required,max=128"`

	// Booking and provider payment inputs.
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	CommissionRule    *CommissionRule `json:"commissionRule,omitempty"`
	AgentRule         *CommissionRule `json:"agentRule,omitempty"`
	PayerAccountID    string          `json:"payerAccountID,omitempty"`
	ProviderAccountID string          `json:"providerAccountID,omitempty"`
	ProviderID        string          `json:"providerID,omitempty"`
	AgentAccountID    string          `json:"agentAccountID,omitempty"`
	AgentID           string          `json:"agentID,omitempty"`

	// Voucher and deposit inputs.
	Amount        decimal.Decimal `json:"amount"`
	VoucherType   VoucherType     `json:"voucherType,omitempty" validate:"omitempty,oneof=RECEIPT PAYMENT TRANSFER"`
	FromAccountID string          `json:"fromAccountID,omitempty"`
	ToAccountID   string          `json:"toAccountID,omitempty"`
	Beneficiary   *OwnerRef       `json:"beneficiary,omitempty"`

	RequestedBy string `json:"-"`
}

// IsAgentSourced reports whether the booking was sold through an agent.
func (e SettlementEvent) IsAgentSourced() bool {
	return e.AgentAccountID != "" || e.AgentID != ""
}

// BookingPayment is an approved customer payment for a booking.
type BookingPayment struct {
	BookingID         string
	BaseAmount        decimal.Decimal
	CommissionRule    *CommissionRule
	AgentRule         *CommissionRule
	PayerAccountID    string
	ProviderAccountID string
	ProviderID        string
	AgentAccountID    string
	AgentID           string
	RequestedBy       string
}

// ToSettlementEvent translates the payment into a settlement event.
func (p BookingPayment) ToSettlementEvent() SettlementEvent {
	return SettlementEvent{
		Kind:              EventBookingPayment,
		ReferenceType:     RefBooking,
		ReferenceID:       p.BookingID,
		BaseAmount:        p.BaseAmount,
		CommissionRule:    p.CommissionRule,
		AgentRule:         p.AgentRule,
		PayerAccountID:    p.PayerAccountID,
		ProviderAccountID: p.ProviderAccountID,
		ProviderID:        p.ProviderID,
		AgentAccountID:    p.AgentAccountID,
		AgentID:           p.AgentID,
		RequestedBy:       p.RequestedBy,
	}
}

// Voucher is an approved receipt, payment or transfer voucher.
type Voucher struct {
	VoucherID     string
	Type          VoucherType
	Amount        decimal.Decimal
	FromAccountID string
	ToAccountID   string
	Beneficiary   *OwnerRef
	RequestedBy   string
}

// ToSettlementEvent translates the voucher into a settlement event.
func (v Voucher) ToSettlementEvent() SettlementEvent {
	return SettlementEvent{
		Kind:          EventVoucher,
		ReferenceType: RefVoucher,
		ReferenceID:   v.VoucherID,
		Amount:        v.Amount,
		VoucherType:   v.Type,
		FromAccountID: v.FromAccountID,
		ToAccountID:   v.ToAccountID,
		Beneficiary:   v.Beneficiary,
		RequestedBy:   v.RequestedBy,
	}
}

// AgentDeposit is a confirmed top-up of an agent's balance.
type AgentDeposit struct {
	DepositID      string
	AgentID        string
	AgentAccountID string
	Amount         decimal.Decimal
	RequestedBy    string
}

// ToSettlementEvent translates the deposit into a settlement event.
func (d AgentDeposit) ToSettlementEvent() SettlementEvent {
	return SettlementEvent{
		Kind:           EventAgentDeposit,
		ReferenceType:  RefAgentDeposit,
		ReferenceID:    d.DepositID,
		Amount:         d.Amount,
		AgentID:        d.AgentID,
		AgentAccountID: d.AgentAccountID,
		RequestedBy:    d.RequestedBy,
	}
}

// ProviderPayment is an approved sale made through an external provider.
type ProviderPayment struct {
	PaymentID         string
	BaseAmount        decimal.Decimal
	CommissionRule    *CommissionRule
	PayerAccountID    string
	ProviderAccountID string
	ProviderID        string
	RequestedBy       string
}

// ToSettlementEvent translates the provider payment into a settlement event.
func (p ProviderPayment) ToSettlementEvent() SettlementEvent {
	return SettlementEvent{
		Kind:              EventProviderPayment,
		ReferenceType:     RefProviderPayment,
		ReferenceID:       p.PaymentID,
		BaseAmount:        p.BaseAmount,
		CommissionRule:    p.CommissionRule,
		PayerAccountID:    p.PayerAccountID,
		ProviderAccountID: p.ProviderAccountID,
		ProviderID:        p.ProviderID,
		RequestedBy:       p.RequestedBy,
	}
}
