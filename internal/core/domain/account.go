package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind defines the fundamental accounting type of an account.
type AccountKind string

const (
	Asset     AccountKind = "ASSET"
	Liability AccountKind = "LIABILITY"
	Equity    AccountKind = "EQUITY"
	Revenue   AccountKind = "REVENUE"
)

// IsValid reports whether k is a known account kind.
func (k AccountKind) IsValid() bool {
	switch k {
	case Asset, Liability, Equity, Revenue:
		return true
	}
	return false
}

// AccountCategory is the business role an account plays in settlements.
type AccountCategory string

const (
	CategoryWallet            AccountCategory = "WALLET"
	CategorySalesClearing     AccountCategory = "SALES_CLEARING"
	CategoryProvider          AccountCategory = "PROVIDER"
	CategoryAgent             AccountCategory = "AGENT"
	CategoryCommissionRevenue AccountCategory = "COMMISSION_REVENUE"
	CategoryDepositEquity     AccountCategory = "DEPOSIT_EQUITY"
)

// IsValid reports whether c is a known account category.
func (c AccountCategory) IsValid() bool {
	_, ok := categoryKinds[c]
	return ok
}

// DefaultKind returns the accounting kind an account of this category carries.
func (c AccountCategory) DefaultKind() AccountKind {
	return categoryKinds[c]
}

// OwnerType returns the owner type an account of this category must carry.
// System categories have no owner.
func (c AccountCategory) OwnerType() (OwnerType, bool) {
	switch c {
	case CategoryProvider:
		return OwnerProvider, true
	case CategoryAgent:
		return OwnerAgent, true
	}
	return "", false
}

var categoryKinds = map[AccountCategory]AccountKind{
	CategoryWallet:            Asset,
	CategorySalesClearing:     Liability,
	CategoryProvider:          Liability,
	CategoryAgent:             Liability,
	CategoryCommissionRevenue: Revenue,
	CategoryDepositEquity:     Equity,
}

// OwnerType identifies the kind of business entity that owns an account.
type OwnerType string

const (
	OwnerProvider OwnerType = "PROVIDER"
	OwnerAgent    OwnerType = "AGENT"
)

// IsValid reports whether t is a known owner type.
func (t OwnerType) IsValid() bool {
	return t == OwnerProvider || t == OwnerAgent
}

// OwnerRef is a stable reference to the entity that owns an account.
type OwnerRef struct {
	Type OwnerType `json:"type"`
	ID   string    `json:"id"`
}

// Account represents a ledger account holding a running balance.
// Balance and Version only change through a ledger unit of work.
type Account struct {
	AccountID    string          `json:"accountID"`
	Name         string          `json:"name"`
	Kind         AccountKind     `json:"kind"`
	Category     AccountCategory `json:"category"`
	Owner        *OwnerRef       `json:"owner,omitempty"` // nil for system accounts
	CurrencyCode string          `json:"currencyCode"`
	CreditLimit  decimal.Decimal `json:"creditLimit"` // only meaningful for agent accounts
	Balance      decimal.Decimal `json:"balance"`
	Version      int64           `json:"version"`
	AuditFields
}

// HasBalanceFloor reports whether the account may not go below -CreditLimit.
func (a Account) HasBalanceFloor() bool {
	return a.Category == CategoryAgent
}

// BalanceFloor returns the lowest balance the account may reach.
func (a Account) BalanceFloor() decimal.Decimal {
	return a.CreditLimit.Neg()
}

// CanAbsorb reports whether applying signedAmount keeps the account at or
// above its floor. Credits and accounts without a floor always pass.
func (a Account) CanAbsorb(signedAmount decimal.Decimal) bool {
	if !a.HasBalanceFloor() || !signedAmount.IsNegative() {
		return true
	}
	return a.Balance.Add(signedAmount).GreaterThanOrEqual(a.BalanceFloor())
}

// AccountBalance is a point-in-time view of an account's balance.
type AccountBalance struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	Version      int64           `json:"version"`
}

// SystemAccounts holds the stable ids of the platform's own accounts.
type SystemAccounts struct {
	WalletAccountID        string
	SalesClearingAccountID string
	CommissionAccountID    string
	DepositAccountID       string
}

// SystemAccountDefinition pairs a configured system account id with its category.
type SystemAccountDefinition struct {
	ID       string
	Category AccountCategory
}

// Definitions lists the system accounts in a fixed order.
func (s SystemAccounts) Definitions() []SystemAccountDefinition {
	return []SystemAccountDefinition{
		{ID: s.WalletAccountID, Category: CategoryWallet},
		{ID: s.SalesClearingAccountID, Category: CategorySalesClearing},
		{ID: s.CommissionAccountID, Category: CategoryCommissionRevenue},
		{ID: s.DepositAccountID, Category: CategoryDepositEquity},
	}
}

// Validate rejects empty ids and ids shared between two system accounts.
func (s SystemAccounts) Validate() error {
	seen := make(map[string]AccountCategory, 4)
	for _, def := range s.Definitions() {
		if def.ID == "" {
			return fmt.Errorf("system %s account id is empty", def.Category)
		}
		if other, ok := seen[def.ID]; ok {
			return fmt.Errorf("system account id %q is used by both %s and %s", def.ID, other, def.Category)
		}
		seen[def.ID] = def.Category
	}
	return nil
}
