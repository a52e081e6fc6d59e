package domain_test

import (
	"testing"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSettlementState_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.SettlementState
		to   domain.SettlementState
		want bool
	}{
		{"requested to validated", domain.StateRequested, domain.StateValidated, true},
		{"requested to rejected", domain.StateRequested, domain.StateRejected, true},
		{"validated to posting", domain.StateValidated, domain.StatePosting, true},
		{"posting to posted", domain.StatePosting, domain.StatePosted, true},
		{"posting to rolled back", domain.StatePosting, domain.StateRolledBack, true},
		{"rolled back to failed", domain.StateRolledBack, domain.StateFailed, true},
		{"requested straight to posted", domain.StateRequested, domain.StatePosted, false},
		{"posted is terminal", domain.StatePosted, domain.StateRolledBack, false},
		{"rejected is terminal", domain.StateRejected, domain.StateValidated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestSettlementState_Status(t *testing.T) {
	assert.Equal(t, domain.StatusPosted, domain.StatePosted.Status())
	assert.Equal(t, domain.StatusFailed, domain.StateRejected.Status())
	assert.Equal(t, domain.StatusFailed, domain.StateFailed.Status())
	assert.Equal(t, domain.StatusPending, domain.StatePosting.Status())
	assert.True(t, domain.StateFailed.IsTerminal())
	assert.False(t, domain.StateValidated.IsTerminal())
}

func TestAccount_CanAbsorb(t *testing.T) {
	agent := domain.Account{
		Category:    domain.CategoryAgent,
		Balance:     decimal.NewFromInt(100),
		CreditLimit: decimal.NewFromInt(50),
	}

	assert.True(t, agent.CanAbsorb(decimal.NewFromInt(-150)), "may reach the credit limit exactly")
	assert.False(t, agent.CanAbsorb(decimal.NewFromInt(-151)))
	assert.True(t, agent.CanAbsorb(decimal.NewFromInt(1000)))

	wallet := domain.Account{Category: domain.CategoryWallet, Balance: decimal.Zero}
	assert.True(t, wallet.CanAbsorb(decimal.NewFromInt(-1000)), "system accounts have no floor")
}

func TestAccountCategory_Defaults(t *testing.T) {
	assert.Equal(t, domain.Asset, domain.CategoryWallet.DefaultKind())
	assert.Equal(t, domain.Revenue, domain.CategoryCommissionRevenue.DefaultKind())
	assert.False(t, domain.AccountCategory("SAVINGS").IsValid())

	owner, ok := domain.CategoryAgent.OwnerType()
	assert.True(t, ok)
	assert.Equal(t, domain.OwnerAgent, owner)

	_, ok = domain.CategorySalesClearing.OwnerType()
	assert.False(t, ok)
}

func TestIdempotencyKey(t *testing.T) {
	assert.Equal(t, "BOOKING:bk-1", domain.IdempotencyKey(domain.RefBooking, "bk-1"))
}

func TestNewSettlementNotification(t *testing.T) {
	origID := "stl-1"
	entry := domain.SettlementEntry{SettlementID: "stl-2", ReversesSettlementID: &origID}
	n := domain.NewSettlementNotification(entry, entry.CreatedAt)
	assert.Equal(t, domain.NotificationReversed, n.Kind)

	n = domain.NewSettlementNotification(domain.SettlementEntry{SettlementID: "stl-3"}, entry.CreatedAt)
	assert.Equal(t, domain.NotificationPosted, n.Kind)
}

func TestSystemAccounts_Validate(t *testing.T) {
	valid := domain.SystemAccounts{
		WalletAccountID:        "w",
		SalesClearingAccountID: "c",
		CommissionAccountID:    "r",
		DepositAccountID:       "d",
	}
	assert.NoError(t, valid.Validate())

	defs := valid.Definitions()
	assert.Len(t, defs, 4)
	assert.Equal(t, domain.SystemAccountDefinition{ID: "w", Category: domain.CategoryWallet}, defs[0])
	assert.Equal(t, domain.SystemAccountDefinition{ID: "d", Category: domain.CategoryDepositEquity}, defs[3])

	shared := valid
	shared.CommissionAccountID = "w"
	err := shared.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), `"w"`)
	}

	empty := valid
	empty.DepositAccountID = ""
	assert.Error(t, empty.Validate())
}
