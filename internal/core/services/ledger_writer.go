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
	"github.com/SscSPs/travel_settlement/internal/utils/accounting"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultApplyRetries = 2

// ledgerWriter posts leg sets inside one unit of work.
type ledgerWriter struct {
	BaseService
	store        portsrepo.LedgerStore
	accounts     portssvc.BalanceMutatorSvc
	applyRetries int
}

// NewLedgerWriter creates a ledger writer. applyRetries bounds how many times
// a single leg is re-read and re-applied after a version conflict.
func NewLedgerWriter(store portsrepo.LedgerStore, accounts portssvc.BalanceMutatorSvc, applyRetries int) portssvc.LedgerWriterSvc {
	if applyRetries < 0 {
		applyRetries = defaultApplyRetries
	}
	return &ledgerWriter{
		store:        store,
		accounts:     accounts,
		applyRetries: applyRetries,
	}
}

var _ portssvc.LedgerWriterSvc = (*ledgerWriter)(nil)

func (w *ledgerWriter) PostLegs(ctx context.Context, entry domain.SettlementEntry) (*domain.SettlementEntry, error) {
	ctx, span := tracer.Start(ctx, "ledger.PostLegs", trace.WithAttributes(
		attribute.String("settlement.id", entry.SettlementID),
		attribute.String("settlement.reference", entry.IdempotencyKey),
		attribute.Int("settlement.legs", len(entry.Legs)),
	))
	defer span.End()

	logger := w.GetLogger(ctx).With(slog.String("settlement_id", entry.SettlementID))

	if err := accounting.ValidateLegBalance(entry.Legs); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tx, err := w.store.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, classifyPostingError(fmt.Errorf("failed to begin ledger unit of work: %w", err))
	}

	now := w.now()
	txns := make([]domain.LedgerTransaction, 0, len(entry.Legs))
	for i, leg := range entry.Legs {
		txn, err := w.applyLeg(ctx, tx, entry, i, leg, now)
		if err != nil {
			w.rollback(ctx, tx, logger, len(txns), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "leg failed")
			return nil, classifyPostingError(fmt.Errorf("leg %d on account %s: %w", i, leg.AccountID, err))
		}
		txns = append(txns, txn)
	}

	entry.TotalAmount = accounting.TotalAmount(entry.Legs)
	entry.IsBalanced = true
	entry.Status = domain.StatusPosted
	entry.CreatedAt = now

	if err := w.record(ctx, tx, entry, txns); err != nil {
		w.rollback(ctx, tx, logger, len(txns), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "record failed")
		return nil, classifyPostingError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		w.rollback(ctx, tx, logger, len(txns), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return nil, classifyPostingError(fmt.Errorf("failed to commit settlement: %w", err))
	}

	entry.Transactions = txns
	logger.Info("Settlement legs posted",
		slog.Int("legs", len(txns)),
		slog.String("total_amount", entry.TotalAmount.String()))
	return &entry, nil
}

// applyLeg re-reads the account on every attempt so a retry never reuses a stale version.
func (w *ledgerWriter) applyLeg(ctx context.Context, tx portsrepo.LedgerTx, entry domain.SettlementEntry, index int, leg domain.Leg, now time.Time) (domain.LedgerTransaction, error) {
	signed := accounting.CalculateSignedAmount(leg.Direction, leg.Amount)

	for attempt := 0; ; attempt++ {
		account, err := tx.FindAccountByID(ctx, leg.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrAccountNotFound) {
				err = fmt.Errorf("account %s: %w", leg.AccountID, apperrors.ErrAccountNotFound)
			}
			return domain.LedgerTransaction{}, err
		}
		if !account.CanAbsorb(signed) {
			return domain.LedgerTransaction{}, fmt.Errorf("account %s balance %s cannot cover %s: %w",
				account.AccountID, account.Balance, leg.Amount, apperrors.ErrInsufficientFunds)
		}

		balance, version, err := w.accounts.ApplyDelta(ctx, tx, account.AccountID, signed, account.Version)
		if errors.Is(err, apperrors.ErrVersionConflict) && attempt < w.applyRetries {
			w.LogDebug(ctx, "Version conflict applying leg, re-reading account",
				slog.String("account_id", account.AccountID), slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return domain.LedgerTransaction{}, err
		}

		return domain.LedgerTransaction{
			TransactionID: uuid.NewString(),
			SettlementID:  entry.SettlementID,
			AccountID:     account.AccountID,
			LegIndex:      index,
			Direction:     leg.Direction,
			Amount:        leg.Amount,
			ReferenceType: entry.ReferenceType,
			ReferenceID:   entry.ReferenceID,
			BalanceBefore: account.Balance,
			BalanceAfter:  balance,
			VersionAfter:  version,
			CreatedAt:     now,
		}, nil
	}
}

func (w *ledgerWriter) record(ctx context.Context, tx portsrepo.LedgerTx, entry domain.SettlementEntry, txns []domain.LedgerTransaction) error {
	if err := tx.InsertTransactions(ctx, txns); err != nil {
		return fmt.Errorf("failed to insert ledger transactions: %w", err)
	}
	if err := tx.SaveSettlement(ctx, entry); err != nil {
		return fmt.Errorf("failed to save settlement: %w", err)
	}
	if entry.ReversesSettlementID != nil {
		if err := tx.MarkSettlementReversed(ctx, *entry.ReversesSettlementID, entry.SettlementID); err != nil {
			return fmt.Errorf("failed to mark settlement %s reversed: %w", *entry.ReversesSettlementID, err)
		}
	}
	return nil
}

func (w *ledgerWriter) rollback(ctx context.Context, tx portsrepo.LedgerTx, logger *slog.Logger, applied int, cause error) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		logger.Error("Failed to roll back settlement", slog.String("error", err.Error()), slog.String("cause", cause.Error()))
		return
	}
	logger.Warn("Settlement rolled back", slog.Int("applied_legs", applied), slog.String("cause", cause.Error()))
}

// classifyPostingError keeps known business and concurrency errors intact and
// turns anything else into ErrSettlementFailed.
func classifyPostingError(err error) error {
	for _, known := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrValidation,
		apperrors.ErrConflict,
		apperrors.ErrDuplicate,
		apperrors.ErrInsufficientFunds,
		apperrors.ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", apperrors.ErrSettlementFailed, err)
}
