package accounting

import (
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money amounts carry.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half-up to MoneyPlaces. Amounts here are never negative,
// so decimal's half-away-from-zero rounding is half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// CheckPrecision rejects amounts with more than MoneyPlaces decimal places.
func CheckPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyPlaces)) {
		return fmt.Errorf("amount %s has more than %d decimal places: %w", amount, MoneyPlaces, apperrors.ErrInvalidAmount)
	}
	return nil
}

// ResolveCommission applies a rule to a base amount. A nil rule yields zero.
func ResolveCommission(base decimal.Decimal, rule *domain.CommissionRule) (decimal.Decimal, error) {
	if rule == nil {
		return decimal.Zero, nil
	}
	if rule.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("commission value %s is negative: %w", rule.Value, apperrors.ErrInvalidAmount)
	}

	switch rule.Type {
	case domain.CommissionFixed:
		if err := CheckPrecision(rule.Value); err != nil {
			return decimal.Zero, fmt.Errorf("fixed commission: %w", err)
		}
		return rule.Value, nil
	case domain.CommissionPercentage:
		return RoundMoney(base.Mul(rule.Value).Div(hundred)), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown commission rule type %q: %w", rule.Type, apperrors.ErrValidation)
	}
}

// CalculateCommission splits a provider price into the amounts each party receives.
// The agent share is carved out of the system commission and never exceeds it.
func CalculateCommission(base decimal.Decimal, rule, agentRule *domain.CommissionRule) (domain.CommissionBreakdown, error) {
	if !base.IsPositive() {
		return domain.CommissionBreakdown{}, fmt.Errorf("base amount %s must be positive: %w", base, apperrors.ErrInvalidAmount)
	}
	if err := CheckPrecision(base); err != nil {
		return domain.CommissionBreakdown{}, fmt.Errorf("base amount: %w", err)
	}

	systemCommission, err := ResolveCommission(base, rule)
	if err != nil {
		return domain.CommissionBreakdown{}, fmt.Errorf("system commission: %w", err)
	}

	agentCommission, err := ResolveCommission(systemCommission, agentRule)
	if err != nil {
		return domain.CommissionBreakdown{}, fmt.Errorf("agent commission: %w", err)
	}
	if agentCommission.GreaterThan(systemCommission) {
		if agentRule.Type == domain.CommissionPercentage {
			return domain.CommissionBreakdown{}, fmt.Errorf("agent percentage %s exceeds 100: %w", agentRule.Value, apperrors.ErrInvalidAmount)
		}
		agentCommission = systemCommission
	}

	return domain.CommissionBreakdown{
		BaseAmount:       base,
		SystemCommission: systemCommission,
		ProviderEarning:  base,
		AgentCommission:  agentCommission,
		CustomerTotal:    base.Add(systemCommission),
	}, nil
}
