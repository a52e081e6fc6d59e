package dto

import (
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountID    string                 `json:"accountID" binding:"omitempty,max=64"` // Optional stable id, generated when empty
	Name         string                 `json:"name" binding:"required,max=255"`
	Category     domain.AccountCategory `json:"category" binding:"required,oneof=WALLET SALES_CLEARING PROVIDER AGENT COMMISSION_REVENUE DEPOSIT_EQUITY"`
	Kind         domain.AccountKind     `json:"kind" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE"` // Defaults from category
	OwnerType    domain.OwnerType       `json:"ownerType" binding:"omitempty,oneof=PROVIDER AGENT"`
	OwnerID      string                 `json:"ownerID" binding:"omitempty,max=128"`
	CurrencyCode string                 `json:"currencyCode" binding:"omitempty,len=3"`
	CreditLimit  decimal.Decimal        `json:"creditLimit"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string                 `json:"accountID"`
	Name             string                 `json:"name"`
	Kind             domain.AccountKind     `json:"kind"`
	Category         domain.AccountCategory `json:"category"`
	OwnerType        domain.OwnerType       `json:"ownerType,omitempty"`
	OwnerID          string                 `json:"ownerID,omitempty"`
	CurrencyCode     string                 `json:"currencyCode"`
	CreditLimit      decimal.Decimal        `json:"creditLimit"`
	Balance          decimal.Decimal        `json:"balance"`
	FormattedBalance string                 `json:"formattedBalance"`
	Version          int64                  `json:"version"`
	CreatedAt        time.Time              `json:"createdAt"`
	CreatedBy        string                 `json:"createdBy"`
	LastUpdatedAt    time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy    string                 `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account, formatted string) AccountResponse {
	res := AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		Kind:             acc.Kind,
		Category:         acc.Category,
		CurrencyCode:     acc.CurrencyCode,
		CreditLimit:      acc.CreditLimit,
		Balance:          acc.Balance,
		FormattedBalance: formatted,
		Version:          acc.Version,
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
	if acc.Owner != nil {
		res.OwnerType = acc.Owner.Type
		res.OwnerID = acc.Owner.ID
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID        string          `json:"accountID"`
	CurrencyCode     string          `json:"currencyCode"`
	Balance          decimal.Decimal `json:"balance"`
	FormattedBalance string          `json:"formattedBalance"`
	Version          int64           `json:"version"`
}
