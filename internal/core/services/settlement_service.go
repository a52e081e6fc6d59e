package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/utils"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultMaxAttempts    = 3
	defaultPublishTimeout = 2 * time.Second
)

// settlementService is the settlement engine.
type settlementService struct {
	BaseService
	accounts    portssvc.AccountReaderSvc
	ledger      portssvc.LedgerWriterSvc
	settlements portsrepo.SettlementReader
	publisher   portssvc.SettlementPublisher
	publishWait time.Duration
	validate    *validator.Validate
	system      domain.SystemAccounts
	maxAttempts int
}

// SettlementServiceOption is a functional option for configuring the settlement engine
type SettlementServiceOption func(*settlementService)

// WithPublisher announces committed settlements through publisher.
func WithPublisher(publisher portssvc.SettlementPublisher) SettlementServiceOption {
	return func(s *settlementService) {
		s.publisher = publisher
	}
}

// WithPublishTimeout bounds how long a committed settlement waits on its
// notification before the response is returned.
func WithPublishTimeout(timeout time.Duration) SettlementServiceOption {
	return func(s *settlementService) {
		if timeout > 0 {
			s.publishWait = timeout
		}
	}
}

// WithMaxAttempts bounds how many times a settlement is rebuilt and re-posted
// after a version conflict.
func WithMaxAttempts(attempts int) SettlementServiceOption {
	return func(s *settlementService) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// NewSettlementService creates a settlement engine.
func NewSettlementService(
	accounts portssvc.AccountReaderSvc,
	ledger portssvc.LedgerWriterSvc,
	settlements portsrepo.SettlementReader,
	system domain.SystemAccounts,
	options ...SettlementServiceOption,
) portssvc.SettlementSvcFacade {
	svc := &settlementService{
		accounts:    accounts,
		ledger:      ledger,
		settlements: settlements,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		system:      system,
		maxAttempts: defaultMaxAttempts,
		publishWait: defaultPublishTimeout,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) Settle(ctx context.Context, event domain.SettlementEvent) (*portssvc.SettlementResult, error) {
	ctx, span := tracer.Start(ctx, "settlement.Settle", trace.WithAttributes(
		attribute.String("settlement.kind", string(event.Kind)),
		attribute.String("settlement.reference_type", string(event.ReferenceType)),
		attribute.String("settlement.reference_id", event.ReferenceID),
	))
	defer span.End()

	ctx = s.withSettlementLogger(ctx, event.ReferenceType, event.ReferenceID)
	result := &portssvc.SettlementResult{State: domain.StateRequested, Status: domain.StatusPending}

	if err := s.validateEvent(event); err != nil {
		return s.reject(ctx, span, result, err)
	}

	fingerprint, err := eventFingerprint(event)
	if err != nil {
		return s.reject(ctx, span, result, fmt.Errorf("%w: %v", apperrors.ErrSettlementFailed, err))
	}

	if replayed, err := s.replay(ctx, result, event.ReferenceType, event.ReferenceID, fingerprint); replayed || err != nil {
		return s.finish(ctx, span, result, err)
	}

	return s.postWithRetry(ctx, span, result, func(ctx context.Context) (*domain.SettlementEntry, error) {
		return s.buildEntry(ctx, event, fingerprint)
	})
}

func (s *settlementService) Reverse(ctx context.Context, settlementID string, requestedBy string) (*portssvc.SettlementResult, error) {
	ctx, span := tracer.Start(ctx, "settlement.Reverse", trace.WithAttributes(
		attribute.String("settlement.reverses", settlementID),
	))
	defer span.End()

	ctx = s.withSettlementLogger(ctx, domain.RefReversal, settlementID)
	result := &portssvc.SettlementResult{State: domain.StateRequested, Status: domain.StatusPending}

	original, err := s.GetSettlement(ctx, settlementID)
	if err != nil {
		return s.reject(ctx, span, result, err)
	}
	if original.IsReversal() {
		return s.reject(ctx, span, result, fmt.Errorf("settlement %s is itself a reversal: %w", settlementID, apperrors.ErrConflict))
	}

	fingerprint, err := utils.Fingerprint(struct {
		ReversesSettlementID string `json:"reversesSettlementID"`
	}{settlementID})
	if err != nil {
		return s.reject(ctx, span, result, fmt.Errorf("%w: %v", apperrors.ErrSettlementFailed, err))
	}

	if replayed, err := s.replay(ctx, result, domain.RefReversal, settlementID, fingerprint); replayed || err != nil {
		return s.finish(ctx, span, result, err)
	}

	return s.postWithRetry(ctx, span, result, func(ctx context.Context) (*domain.SettlementEntry, error) {
		return s.buildReversal(ctx, settlementID, fingerprint, requestedBy)
	})
}

// postWithRetry runs build and post until the settlement posts, fails for a
// reason other than a version conflict, or runs out of attempts. Every
// attempt rebuilds the entry from fresh reads.
func (s *settlementService) postWithRetry(
	ctx context.Context,
	span trace.Span,
	result *portssvc.SettlementResult,
	build func(ctx context.Context) (*domain.SettlementEntry, error),
) (*portssvc.SettlementResult, error) {
	logger := s.GetLogger(ctx)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt
		result.State = domain.StateRequested

		entry, err := build(ctx)
		if err != nil {
			return s.reject(ctx, span, result, err)
		}
		s.advance(ctx, result, domain.StateValidated)
		s.advance(ctx, result, domain.StatePosting)

		posted, err := s.ledger.PostLegs(ctx, *entry)
		if err == nil {
			s.advance(ctx, result, domain.StatePosted)
			result.Entry = posted
			result.Code = apperrors.CodeOK
			s.publish(ctx, posted)
			logger.Info("Settlement posted",
				slog.String("settlement_id", posted.SettlementID),
				slog.Int("attempt", attempt))
			return result, nil
		}
		s.advance(ctx, result, domain.StateRolledBack)

		switch {
		case errors.Is(err, apperrors.ErrVersionConflict):
			logger.Warn("Settlement hit a version conflict, retrying",
				slog.Int("attempt", attempt), slog.String("error", err.Error()))
			continue
		case errors.Is(err, apperrors.ErrDuplicate):
			// Another request settled the same reference first.
			if replayed, rerr := s.replay(ctx, result, entry.ReferenceType, entry.ReferenceID, entry.Fingerprint); replayed || rerr != nil {
				return s.finish(ctx, span, result, rerr)
			}
			return s.fail(ctx, span, result, err)
		default:
			return s.fail(ctx, span, result, err)
		}
	}

	return s.fail(ctx, span, result, fmt.Errorf("gave up after %d attempts: %w", s.maxAttempts, apperrors.ErrConcurrentModification))
}

// replay fills result from an existing settlement for the reference, if any.
func (s *settlementService) replay(ctx context.Context, result *portssvc.SettlementResult, refType domain.ReferenceType, refID, fingerprint string) (bool, error) {
	existing, err := s.settlements.FindSettlementByReference(ctx, refType, refID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to look up settlement by reference")
		return false, fmt.Errorf("%w: %v", apperrors.ErrSettlementFailed, err)
	}

	if existing.Fingerprint != fingerprint {
		return false, fmt.Errorf("reference %s: %w", existing.IdempotencyKey, apperrors.ErrIdempotencyMismatch)
	}

	s.LogInfo(ctx, "Settlement already recorded, replaying", slog.String("settlement_id", existing.SettlementID))
	result.State = domain.StatePosted
	result.Status = existing.Status
	result.Code = apperrors.CodeOK
	result.Entry = existing
	result.Replayed = true
	return true, nil
}

// finish completes a replay: a nil error is a successful replay, anything
// else rejects the request before posting.
func (s *settlementService) finish(ctx context.Context, span trace.Span, result *portssvc.SettlementResult, err error) (*portssvc.SettlementResult, error) {
	if err == nil {
		return result, nil
	}
	if result.State == domain.StateRolledBack {
		return s.fail(ctx, span, result, err)
	}
	return s.reject(ctx, span, result, err)
}

func (s *settlementService) reject(ctx context.Context, span trace.Span, result *portssvc.SettlementResult, err error) (*portssvc.SettlementResult, error) {
	s.advance(ctx, result, domain.StateRejected)
	result.Code = apperrors.CodeOf(err)
	result.Status = domain.StatusFailed
	span.SetStatus(codes.Error, string(result.Code))
	s.LogInfo(ctx, "Settlement rejected", slog.String("code", string(result.Code)), slog.String("error", err.Error()))
	return result, err
}

func (s *settlementService) fail(ctx context.Context, span trace.Span, result *portssvc.SettlementResult, err error) (*portssvc.SettlementResult, error) {
	s.advance(ctx, result, domain.StateFailed)
	result.Code = apperrors.CodeOf(err)
	result.Status = domain.StatusFailed
	span.RecordError(err)
	span.SetStatus(codes.Error, string(result.Code))
	s.LogError(ctx, err, "Settlement failed", slog.String("code", string(result.Code)), slog.Int("attempts", result.Attempts))
	return result, err
}

func (s *settlementService) advance(ctx context.Context, result *portssvc.SettlementResult, next domain.SettlementState) {
	if !result.State.CanTransition(next) {
		s.GetLogger(ctx).Error("Illegal settlement state transition",
			slog.String("from", string(result.State)), slog.String("to", string(next)))
	}
	result.State = next
	result.Status = next.Status()
}

func (s *settlementService) publish(ctx context.Context, entry *domain.SettlementEntry) {
	if s.publisher == nil {
		return
	}
	notification := domain.NewSettlementNotification(*entry, s.now())

	// Runs after commit: detached from request cancellation, bounded by publishWait.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishWait)
	defer cancel()
	if err := s.publisher.PublishSettlement(publishCtx, notification); err != nil {
		s.GetLogger(ctx).Warn("Failed to publish settlement notification",
			slog.String("settlement_id", entry.SettlementID), slog.String("error", err.Error()))
	}
}

func (s *settlementService) withSettlementLogger(ctx context.Context, refType domain.ReferenceType, refID string) context.Context {
	logger := s.GetLogger(ctx).With(
		slog.String("reference_type", string(refType)),
		slog.String("reference_id", refID),
	)
	return middleware.WithLogger(ctx, logger)
}

func (s *settlementService) GetSettlement(ctx context.Context, settlementID string) (*domain.SettlementEntry, error) {
	entry, err := s.settlements.FindSettlementByID(ctx, settlementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("settlement %s: %w", settlementID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find settlement", slog.String("settlement_id", settlementID))
		return nil, err
	}
	return entry, nil
}

func (s *settlementService) FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error) {
	entry, err := s.settlements.FindSettlementByReference(ctx, refType, refID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("settlement for %s: %w", domain.IdempotencyKey(refType, refID), apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find settlement by reference")
		return nil, err
	}
	return entry, nil
}
