package services

import (
	"context"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
)

// BookingPaymentApprover settles an approved booking payment and marks the
// booking PAID on success.
type BookingPaymentApprover interface {
	ApproveBookingPayment(ctx context.Context, payment domain.BookingPayment) (*SettlementResult, error)
}

// VoucherProcessor settles an approved voucher, marks it APPROVED and
// refreshes the beneficiary's balance mirror.
type VoucherProcessor interface {
	ProcessVoucher(ctx context.Context, voucher domain.Voucher) (*SettlementResult, error)
}

// AgentDepositHandler settles a confirmed agent deposit and marks it CONFIRMED.
type AgentDepositHandler interface {
	RecordAgentDeposit(ctx context.Context, deposit domain.AgentDeposit) (*SettlementResult, error)
}

// ProviderPaymentApprover settles an external provider sale and marks it APPROVED.
type ProviderPaymentApprover interface {
	ApproveProviderPayment(ctx context.Context, payment domain.ProviderPayment) (*SettlementResult, error)
}

// ReferenceStatusReader exposes what the adapters recorded.
type ReferenceStatusReader interface {
	GetReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error)
	GetBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error)
}

// EventAdapterFacade combines all event adapters.
type EventAdapterFacade interface {
	BookingPaymentApprover
	VoucherProcessor
	AgentDepositHandler
	ProviderPaymentApprover
	ReferenceStatusReader
}

// SettlementPublisher announces committed settlements to other systems.
type SettlementPublisher interface {
	PublishSettlement(ctx context.Context, notification domain.SettlementNotification) error
}
