package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/SscSPs/travel_settlement/internal/models"
)

// ToModelLedgerTransaction converts a domain LedgerTransaction to a model LedgerTransaction
func ToModelLedgerTransaction(d domain.LedgerTransaction) models.LedgerTransaction {
	return models.LedgerTransaction{
		TransactionID: d.TransactionID,
		SettlementID:  d.SettlementID,
		AccountID:     d.AccountID,
		LegIndex:      d.LegIndex,
		Direction:     string(d.Direction),
		Amount:        d.Amount,
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		BalanceBefore: d.BalanceBefore,
		BalanceAfter:  d.BalanceAfter,
		VersionAfter:  d.VersionAfter,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainLedgerTransaction converts a model LedgerTransaction to a domain LedgerTransaction
func ToDomainLedgerTransaction(m models.LedgerTransaction) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID: m.TransactionID,
		SettlementID:  m.SettlementID,
		AccountID:     m.AccountID,
		LegIndex:      m.LegIndex,
		Direction:     domain.Direction(m.Direction),
		Amount:        m.Amount,
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		VersionAfter:  m.VersionAfter,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainLedgerTransactionSlice converts a slice of model LedgerTransactions to domain LedgerTransactions
func ToDomainLedgerTransactionSlice(ms []models.LedgerTransaction) []domain.LedgerTransaction {
	ds := make([]domain.LedgerTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerTransaction(m)
	}
	return ds
}

// ToModelSettlement converts a domain SettlementEntry to a model Settlement.
// Transactions are stored separately.
func ToModelSettlement(d domain.SettlementEntry) (models.Settlement, error) {
	legs, err := json.Marshal(d.Legs)
	if err != nil {
		return models.Settlement{}, fmt.Errorf("failed to encode legs: %w", err)
	}
	var breakdown []byte
	if d.Breakdown != nil {
		if breakdown, err = json.Marshal(d.Breakdown); err != nil {
			return models.Settlement{}, fmt.Errorf("failed to encode breakdown: %w", err)
		}
	}
	return models.Settlement{
		SettlementID:           d.SettlementID,
		ReferenceType:          string(d.ReferenceType),
		ReferenceID:            d.ReferenceID,
		IdempotencyKey:         d.IdempotencyKey,
		Fingerprint:            d.Fingerprint,
		Legs:                   legs,
		Breakdown:              breakdown,
		TotalAmount:            d.TotalAmount,
		Status:                 string(d.Status),
		ReversesSettlementID:   d.ReversesSettlementID,
		ReversedBySettlementID: d.ReversedBySettlementID,
		CreatedAt:              d.CreatedAt,
		CreatedBy:              d.CreatedBy,
	}, nil
}

// ToDomainSettlement converts a model Settlement to a domain SettlementEntry.
func ToDomainSettlement(m models.Settlement) (domain.SettlementEntry, error) {
	var legs []domain.Leg
	if err := json.Unmarshal(m.Legs, &legs); err != nil {
		return domain.SettlementEntry{}, fmt.Errorf("failed to decode legs of settlement %s: %w", m.SettlementID, err)
	}
	var breakdown *domain.CommissionBreakdown
	if len(m.Breakdown) > 0 {
		breakdown = &domain.CommissionBreakdown{}
		if err := json.Unmarshal(m.Breakdown, breakdown); err != nil {
			return domain.SettlementEntry{}, fmt.Errorf("failed to decode breakdown of settlement %s: %w", m.SettlementID, err)
		}
	}
	return domain.SettlementEntry{
		SettlementID:           m.SettlementID,
		ReferenceType:          domain.ReferenceType(m.ReferenceType),
		ReferenceID:            m.ReferenceID,
		IdempotencyKey:         m.IdempotencyKey,
		Fingerprint:            m.Fingerprint,
		Legs:                   legs,
		TotalAmount:            m.TotalAmount,
		IsBalanced:             true,
		Status:                 domain.SettlementStatus(m.Status),
		Breakdown:              breakdown,
		ReversesSettlementID:   m.ReversesSettlementID,
		ReversedBySettlementID: m.ReversedBySettlementID,
		CreatedAt:              m.CreatedAt,
		CreatedBy:              m.CreatedBy,
	}, nil
}
