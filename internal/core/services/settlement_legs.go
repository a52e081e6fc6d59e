package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/SscSPs/travel_settlement/internal/utils"
	"github.com/SscSPs/travel_settlement/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var kindReferenceTypes = map[domain.EventKind]domain.ReferenceType{
	domain.EventBookingPayment:  domain.RefBooking,
	domain.EventVoucher:         domain.RefVoucher,
	domain.EventAgentDeposit:    domain.RefAgentDeposit,
	domain.EventProviderPayment: domain.RefProviderPayment,
}

func (s *settlementService) validateEvent(event domain.SettlementEvent) error {
	if err := s.validate.Struct(event); err != nil {
		return fmt.Errorf("invalid settlement event: %v: %w", err, apperrors.ErrValidation)
	}
	if kindReferenceTypes[event.Kind] != event.ReferenceType {
		return fmt.Errorf("%s events settle %s references, got %s: %w",
			event.Kind, kindReferenceTypes[event.Kind], event.ReferenceType, apperrors.ErrValidation)
	}

	switch event.Kind {
	case domain.EventVoucher:
		if event.VoucherType == "" {
			return fmt.Errorf("voucher type is required: %w", apperrors.ErrValidation)
		}
		if event.FromAccountID == "" || event.ToAccountID == "" {
			return fmt.Errorf("voucher requires both from and to accounts: %w", apperrors.ErrValidation)
		}
		if event.FromAccountID == event.ToAccountID {
			return fmt.Errorf("voucher cannot move money within account %s: %w", event.FromAccountID, apperrors.ErrValidation)
		}
		if event.Beneficiary != nil && !event.Beneficiary.Type.IsValid() {
			return fmt.Errorf("unknown beneficiary type %q: %w", event.Beneficiary.Type, apperrors.ErrValidation)
		}
		return requirePositive("voucher amount", event.Amount)
	case domain.EventAgentDeposit:
		if !event.IsAgentSourced() {
			return fmt.Errorf("deposit requires an agent reference: %w", apperrors.ErrValidation)
		}
		return requirePositive("deposit amount", event.Amount)
	case domain.EventProviderPayment:
		if event.IsAgentSourced() || event.AgentRule != nil {
			return fmt.Errorf("provider payments are not agent sourced: %w", apperrors.ErrValidation)
		}
	}
	return nil
}

func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%s %s must be positive: %w", field, amount, apperrors.ErrInvalidAmount)
	}
	if err := accounting.CheckPrecision(amount); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// eventFingerprint identifies the payload of an event independent of who sent it.
func eventFingerprint(event domain.SettlementEvent) (string, error) {
	event.RequestedBy = ""
	return utils.Fingerprint(event)
}

// buildEntry resolves accounts, computes the split and produces a validated entry.
func (s *settlementService) buildEntry(ctx context.Context, event domain.SettlementEvent, fingerprint string) (*domain.SettlementEntry, error) {
	var (
		legs      []domain.Leg
		breakdown *domain.CommissionBreakdown
		err       error
	)

	switch event.Kind {
	case domain.EventBookingPayment, domain.EventProviderPayment:
		legs, breakdown, err = s.bookingLegs(ctx, event)
	case domain.EventVoucher:
		legs = voucherLegs(event)
	case domain.EventAgentDeposit:
		legs, err = s.depositLegs(ctx, event)
	default:
		err = fmt.Errorf("unsupported event kind %q: %w", event.Kind, apperrors.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	if err := s.checkLegs(ctx, legs); err != nil {
		return nil, err
	}

	return &domain.SettlementEntry{
		SettlementID:   uuid.NewString(),
		ReferenceType:  event.ReferenceType,
		ReferenceID:    event.ReferenceID,
		IdempotencyKey: domain.IdempotencyKey(event.ReferenceType, event.ReferenceID),
		Fingerprint:    fingerprint,
		Legs:           legs,
		TotalAmount:    accounting.TotalAmount(legs),
		IsBalanced:     true,
		Status:         domain.StatusPending,
		Breakdown:      breakdown,
		CreatedBy:      event.RequestedBy,
	}, nil
}

func (s *settlementService) buildReversal(ctx context.Context, settlementID, fingerprint, requestedBy string) (*domain.SettlementEntry, error) {
	original, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if original.IsReversed() {
		return nil, fmt.Errorf("settlement %s is already reversed: %w", settlementID, apperrors.ErrConflict)
	}

	legs := accounting.ReverseLegs(original.Legs)
	if err := s.checkLegs(ctx, legs); err != nil {
		return nil, err
	}

	reverses := original.SettlementID
	return &domain.SettlementEntry{
		SettlementID:         uuid.NewString(),
		ReferenceType:        domain.RefReversal,
		ReferenceID:          settlementID,
		IdempotencyKey:       domain.IdempotencyKey(domain.RefReversal, settlementID),
		Fingerprint:          fingerprint,
		Legs:                 legs,
		TotalAmount:          accounting.TotalAmount(legs),
		IsBalanced:           true,
		Status:               domain.StatusPending,
		ReversesSettlementID: &reverses,
		CreatedBy:            requestedBy,
	}, nil
}

// checkLegs verifies balance and floors against a fresh read of every account.
func (s *settlementService) checkLegs(ctx context.Context, legs []domain.Leg) error {
	if err := accounting.ValidateLegBalance(legs); err != nil {
		return err
	}

	accounts, err := s.accounts.GetMany(ctx, legAccountIDs(legs))
	if err != nil {
		return err
	}
	return accounting.CheckFloors(accounts, legs)
}

// bookingLegs builds the canonical booking leg set:
//  1. payer -> sales clearing, customer total
//  2. sales clearing -> provider, provider earning
//  3. sales clearing -> commission revenue, system commission
//  4. commission revenue -> agent, agent commission (agent-sourced only)
//
// Pairs with a zero amount are omitted. An agent-sourced booking is paid from
// the agent's account unless a payer is given explicitly.
func (s *settlementService) bookingLegs(ctx context.Context, event domain.SettlementEvent) ([]domain.Leg, *domain.CommissionBreakdown, error) {
	breakdown, err := accounting.CalculateCommission(event.BaseAmount, event.CommissionRule, event.AgentRule)
	if err != nil {
		return nil, nil, err
	}

	providerAccountID, err := s.resolveOwnedAccount(ctx, event.ProviderAccountID, domain.OwnerProvider, event.ProviderID)
	if err != nil {
		return nil, nil, err
	}

	payer := event.PayerAccountID
	agentAccountID := ""
	if event.IsAgentSourced() {
		agentAccountID, err = s.resolveOwnedAccount(ctx, event.AgentAccountID, domain.OwnerAgent, event.AgentID)
		if err != nil {
			return nil, nil, err
		}
		if payer == "" {
			payer = agentAccountID
		}
	}
	if payer == "" {
		payer = s.system.WalletAccountID
	}

	clearing := s.system.SalesClearingAccountID
	commission := s.system.CommissionAccountID

	legs := appendPair(nil, payer, clearing, breakdown.CustomerTotal, "customer total")
	legs = appendPair(legs, clearing, providerAccountID, breakdown.ProviderEarning, "provider earning")
	legs = appendPair(legs, clearing, commission, breakdown.SystemCommission, "system commission")
	if agentAccountID != "" {
		legs = appendPair(legs, commission, agentAccountID, breakdown.AgentCommission, "agent commission")
	}
	return legs, &breakdown, nil
}

func voucherLegs(event domain.SettlementEvent) []domain.Leg {
	return appendPair(nil, event.FromAccountID, event.ToAccountID, event.Amount, "voucher "+string(event.VoucherType))
}

func (s *settlementService) depositLegs(ctx context.Context, event domain.SettlementEvent) ([]domain.Leg, error) {
	agentAccountID, err := s.resolveOwnedAccount(ctx, event.AgentAccountID, domain.OwnerAgent, event.AgentID)
	if err != nil {
		return nil, err
	}
	return appendPair(nil, s.system.DepositAccountID, agentAccountID, event.Amount, "agent deposit"), nil
}

// resolveOwnedAccount resolves a provider or agent account by explicit id or
// by owner id and checks that it really belongs to that kind of owner.
func (s *settlementService) resolveOwnedAccount(ctx context.Context, accountID string, ownerType domain.OwnerType, ownerID string) (string, error) {
	var (
		account *domain.Account
		err     error
	)
	switch {
	case accountID != "":
		account, err = s.accounts.Get(ctx, accountID)
	case ownerID != "":
		account, err = s.accounts.GetByOwner(ctx, ownerType, ownerID)
	default:
		return "", fmt.Errorf("a %s account or %s id is required: %w", ownerType, ownerType, apperrors.ErrValidation)
	}
	if err != nil {
		return "", err
	}

	if account.Owner == nil || account.Owner.Type != ownerType {
		return "", fmt.Errorf("account %s is not a %s account: %w", account.AccountID, ownerType, apperrors.ErrValidation)
	}
	if ownerID != "" && account.Owner.ID != ownerID {
		return "", fmt.Errorf("account %s does not belong to %s %s: %w", account.AccountID, ownerType, ownerID, apperrors.ErrValidation)
	}
	return account.AccountID, nil
}

// appendPair appends a balanced debit/credit pair unless amount is zero.
func appendPair(legs []domain.Leg, debitAccountID, creditAccountID string, amount decimal.Decimal, memo string) []domain.Leg {
	if amount.IsZero() {
		return legs
	}
	return append(legs,
		domain.Leg{AccountID: debitAccountID, Direction: domain.Debit, Amount: amount, Memo: memo},
		domain.Leg{AccountID: creditAccountID, Direction: domain.Credit, Amount: amount, Memo: memo},
	)
}

func legAccountIDs(legs []domain.Leg) []string {
	seen := make(map[string]struct{}, len(legs))
	ids := make([]string, 0, len(legs))
	for _, leg := range legs {
		if _, ok := seen[leg.AccountID]; ok {
			continue
		}
		seen[leg.AccountID] = struct{}{}
		ids = append(ids, leg.AccountID)
	}
	return ids
}
