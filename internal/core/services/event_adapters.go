package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
)

// eventAdapters translates business events into settlements and reflects the
// outcome on the originating entity. Balances are only ever read back from the
// account registry, never computed here.
type eventAdapters struct {
	BaseService
	engine   portssvc.SettlementEngineSvc
	accounts portssvc.AccountReaderSvc
	refs     portsrepo.ReferenceStatusRepository
}

// NewEventAdapters creates the reference event adapters.
func NewEventAdapters(engine portssvc.SettlementEngineSvc, accounts portssvc.AccountReaderSvc, refs portsrepo.ReferenceStatusRepository) portssvc.EventAdapterFacade {
	return &eventAdapters{
		engine:   engine,
		accounts: accounts,
		refs:     refs,
	}
}

var _ portssvc.EventAdapterFacade = (*eventAdapters)(nil)

func (a *eventAdapters) ApproveBookingPayment(ctx context.Context, payment domain.BookingPayment) (*portssvc.SettlementResult, error) {
	return a.settleAndRecord(ctx, payment.ToSettlementEvent(), domain.ReferencePaid, nil)
}

func (a *eventAdapters) ProcessVoucher(ctx context.Context, voucher domain.Voucher) (*portssvc.SettlementResult, error) {
	return a.settleAndRecord(ctx, voucher.ToSettlementEvent(), domain.ReferenceApproved, voucher.Beneficiary)
}

func (a *eventAdapters) RecordAgentDeposit(ctx context.Context, deposit domain.AgentDeposit) (*portssvc.SettlementResult, error) {
	return a.settleAndRecord(ctx, deposit.ToSettlementEvent(), domain.ReferenceConfirmed, nil)
}

func (a *eventAdapters) ApproveProviderPayment(ctx context.Context, payment domain.ProviderPayment) (*portssvc.SettlementResult, error) {
	return a.settleAndRecord(ctx, payment.ToSettlementEvent(), domain.ReferenceApproved, nil)
}

func (a *eventAdapters) GetReferenceStatus(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.ReferenceStatus, error) {
	status, err := a.refs.FindReferenceStatus(ctx, refType, refID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no status recorded for " + domain.IdempotencyKey(refType, refID))
		}
		return nil, err
	}
	return status, nil
}

func (a *eventAdapters) GetBalanceMirror(ctx context.Context, owner domain.OwnerRef) (*domain.BalanceMirror, error) {
	mirror, err := a.refs.FindBalanceMirror(ctx, owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no balance mirror for %s %s", owner.Type, owner.ID))
		}
		return nil, err
	}
	return mirror, nil
}

func (a *eventAdapters) settleAndRecord(ctx context.Context, event domain.SettlementEvent, settled domain.ReferenceState, beneficiary *domain.OwnerRef) (*portssvc.SettlementResult, error) {
	logger := a.GetLogger(ctx).With(
		slog.String("reference_type", string(event.ReferenceType)),
		slog.String("reference_id", event.ReferenceID),
	)

	result, err := a.engine.Settle(ctx, event)
	if err != nil {
		a.recordFailure(ctx, event, err)
		return result, err
	}

	status := domain.ReferenceStatus{
		ReferenceType: event.ReferenceType,
		ReferenceID:   event.ReferenceID,
		State:         settled,
		SettlementID:  result.Entry.SettlementID,
		UpdatedAt:     a.now(),
		UpdatedBy:     event.RequestedBy,
	}
	if err := a.refs.SaveReferenceStatus(ctx, status); err != nil {
		// The settlement is committed; replaying the event records the status.
		logger.Error("Settlement posted but reference status was not saved", slog.String("error", err.Error()))
		return result, fmt.Errorf("failed to record %s status: %w: %w", settled, apperrors.ErrStatusNotRecorded, err)
	}

	a.refreshMirrors(ctx, result.Entry, beneficiary)
	logger.Info("Reference settled", slog.String("state", string(settled)), slog.Bool("replayed", result.Replayed))
	return result, nil
}

// recordFailure marks the reference FAILED unless it was already settled by
// an earlier request.
func (a *eventAdapters) recordFailure(ctx context.Context, event domain.SettlementEvent, cause error) {
	if event.ReferenceType == "" || event.ReferenceID == "" {
		return
	}
	current, err := a.refs.FindReferenceStatus(ctx, event.ReferenceType, event.ReferenceID)
	if err == nil && current.State.IsSettled() {
		return
	}

	status := domain.ReferenceStatus{
		ReferenceType: event.ReferenceType,
		ReferenceID:   event.ReferenceID,
		State:         domain.ReferenceFailed,
		LastError:     string(apperrors.CodeOf(cause)) + ": " + cause.Error(),
		UpdatedAt:     a.now(),
		UpdatedBy:     event.RequestedBy,
	}
	if err := a.refs.SaveReferenceStatus(ctx, status); err != nil {
		a.LogError(ctx, err, "Failed to record settlement failure",
			slog.String("reference_id", event.ReferenceID))
	}
}

// refreshMirrors copies the registry balance of every provider or agent
// touched by entry, plus the named beneficiary, into its mirror.
func (a *eventAdapters) refreshMirrors(ctx context.Context, entry *domain.SettlementEntry, beneficiary *domain.OwnerRef) {
	if entry == nil {
		return
	}

	owners := make(map[domain.OwnerRef]string)
	for _, accountID := range legAccountIDs(entry.Legs) {
		account, err := a.accounts.Get(ctx, accountID)
		if err != nil {
			a.LogError(ctx, err, "Failed to read account for balance mirror", slog.String("account_id", accountID))
			continue
		}
		if account.Owner != nil {
			owners[*account.Owner] = account.AccountID
		}
	}
	if beneficiary != nil {
		if _, seen := owners[*beneficiary]; !seen {
			account, err := a.accounts.GetByOwner(ctx, beneficiary.Type, beneficiary.ID)
			switch {
			case err == nil:
				owners[*beneficiary] = account.AccountID
			case errors.Is(err, apperrors.ErrNotFound):
				a.LogDebug(ctx, "Beneficiary has no account, skipping mirror",
					slog.String("owner_type", string(beneficiary.Type)), slog.String("owner_id", beneficiary.ID))
			default:
				a.LogError(ctx, err, "Failed to resolve beneficiary account")
			}
		}
	}

	for owner, accountID := range owners {
		balance, err := a.accounts.GetAccountBalance(ctx, accountID)
		if err != nil {
			a.LogError(ctx, err, "Failed to read balance for mirror", slog.String("account_id", accountID))
			continue
		}
		mirror := domain.BalanceMirror{
			Owner:     owner,
			AccountID: accountID,
			Balance:   balance.Balance,
			Version:   balance.Version,
			UpdatedAt: a.now(),
		}
		if err := a.refs.SaveBalanceMirror(ctx, mirror); err != nil {
			a.LogError(ctx, err, "Failed to save balance mirror", slog.String("account_id", accountID))
		}
	}
}
