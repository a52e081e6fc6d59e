package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountOwnerMapping(t *testing.T) {
	system := ToModelAccount(domain.Account{AccountID: "w", Category: domain.CategoryWallet})
	assert.Nil(t, system.OwnerType)
	assert.Nil(t, ToDomainAccount(system).Owner)

	agent := ToModelAccount(domain.Account{
		AccountID: "a",
		Category:  domain.CategoryAgent,
		Owner:     &domain.OwnerRef{Type: domain.OwnerAgent, ID: "agent-1"},
	})
	require.NotNil(t, agent.OwnerType)
	assert.Equal(t, "AGENT", *agent.OwnerType)
	assert.Equal(t, &domain.OwnerRef{Type: domain.OwnerAgent, ID: "agent-1"}, ToDomainAccount(agent).Owner)
}

func TestSettlementMappingKeepsLegsAndBreakdown(t *testing.T) {
	reverses := "stl-0"
	entry := domain.SettlementEntry{
		SettlementID:   "stl-1",
		ReferenceType:  domain.RefReversal,
		ReferenceID:    "stl-0",
		IdempotencyKey: "REVERSAL:stl-0",
		Fingerprint:    "abc",
		Legs: []domain.Leg{
			{AccountID: "a", Direction: domain.Debit, Amount: decimal.RequireFromString("1.50"), Memo: "m"},
			{AccountID: "b", Direction: domain.Credit, Amount: decimal.RequireFromString("1.50"), Memo: "m"},
		},
		Breakdown:            &domain.CommissionBreakdown{BaseAmount: decimal.RequireFromString("10")},
		TotalAmount:          decimal.RequireFromString("1.50"),
		Status:               domain.StatusPosted,
		ReversesSettlementID: &reverses,
		CreatedAt:            time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	model, err := ToModelSettlement(entry)
	require.NoError(t, err)
	back, err := ToDomainSettlement(model)
	require.NoError(t, err)

	assert.Equal(t, "abc", back.Fingerprint)
	require.Len(t, back.Legs, 2)
	assert.True(t, back.Legs[0].Amount.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, domain.Credit, back.Legs[1].Direction)
	require.NotNil(t, back.Breakdown)
	assert.True(t, back.Breakdown.BaseAmount.Equal(decimal.RequireFromString("10")))
	assert.True(t, back.IsReversal())

	model.Breakdown = nil
	back, err = ToDomainSettlement(model)
	require.NoError(t, err)
	assert.Nil(t, back.Breakdown)
}

func TestReferenceStatusMappingUsesNulls(t *testing.T) {
	m := ToModelReferenceStatus(domain.ReferenceStatus{ReferenceType: domain.RefBooking, ReferenceID: "B", State: domain.ReferencePaid, SettlementID: "stl"})
	assert.Nil(t, m.LastError)
	require.NotNil(t, m.SettlementID)
	assert.Equal(t, "stl", ToDomainReferenceStatus(m).SettlementID)
}
