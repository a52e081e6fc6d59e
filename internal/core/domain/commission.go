package domain

import "github.com/shopspring/decimal"

// CommissionRuleType selects how a commission value is interpreted.
type CommissionRuleType string

const (
	CommissionFixed      CommissionRuleType = "FIXED"
	CommissionPercentage CommissionRuleType = "PERCENTAGE"
)

// CommissionRule is either a fixed amount or a percentage of a base.
type CommissionRule struct {
	Type  CommissionRuleType `json:"type"`
	Value decimal.Decimal    `json:"value"`
}

// CommissionBreakdown is the derived split of a booking's money.
type CommissionBreakdown struct {
	BaseAmount       decimal.Decimal `json:"baseAmount"`
	SystemCommission decimal.Decimal `json:"systemCommission"`
	ProviderEarning  decimal.Decimal `json:"providerEarning"`
	AgentCommission  decimal.Decimal `json:"agentCommission"`
	CustomerTotal    decimal.Decimal `json:"customerTotal"`
}
