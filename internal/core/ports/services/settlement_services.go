package services

import (
	"context"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
)

// SettlementResult is what every settlement request returns, on success and on failure.
type SettlementResult struct {
	Code     apperrors.ResultCode    `json:"code"`
	Status   domain.SettlementStatus `json:"status"`
	State    domain.SettlementState  `json:"state"`
	Entry    *domain.SettlementEntry `json:"entry,omitempty"`
	Replayed bool                    `json:"replayed"`
	Attempts int                     `json:"attempts"`
}

// LedgerWriterSvc posts balanced leg sets.
type LedgerWriterSvc interface {
	// PostLegs applies every leg of entry in one unit of work and records the
	// settlement. On any failure nothing is applied.
	PostLegs(ctx context.Context, entry domain.SettlementEntry) (*domain.SettlementEntry, error)
}

// SettlementEngineSvc turns monetary events into posted settlements.
type SettlementEngineSvc interface {
	// Settle settles one event. Replaying an already settled reference
	// returns the original entry without posting again.
	Settle(ctx context.Context, event domain.SettlementEvent) (*SettlementResult, error)

	// Reverse posts a settlement that flips every leg of settlementID.
	Reverse(ctx context.Context, settlementID string, requestedBy string) (*SettlementResult, error)
}

// SettlementReaderSvc defines read operations for settlements
type SettlementReaderSvc interface {
	// GetSettlement retrieves a settlement with its transactions.
	GetSettlement(ctx context.Context, settlementID string) (*domain.SettlementEntry, error)

	// FindSettlementByReference retrieves the settlement recorded for a business reference.
	FindSettlementByReference(ctx context.Context, refType domain.ReferenceType, refID string) (*domain.SettlementEntry, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces
type SettlementSvcFacade interface {
	SettlementEngineSvc
	SettlementReaderSvc
}
