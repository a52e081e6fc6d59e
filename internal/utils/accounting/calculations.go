package accounting

import (
	"fmt"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the ledger sign convention to a leg amount.
// Every account uses the same convention so that an account's balance equals
// the sum of its credits minus the sum of its debits:
// CREDIT -> Positive (+)
// DEBIT  -> Negative (-)
func CalculateSignedAmount(direction domain.Direction, amount decimal.Decimal) decimal.Decimal {
	if direction == domain.Debit {
		return amount.Neg()
	}
	return amount
}

// ValidateLegBalance checks that a leg set is well formed and that its debits
// equal its credits exactly.
func ValidateLegBalance(legs []domain.Leg) error {
	if len(legs) < 2 {
		return fmt.Errorf("settlement must have at least two legs: %w", apperrors.ErrUnbalancedEntry)
	}

	debits, credits := decimal.Zero, decimal.Zero
	for i, leg := range legs {
		if leg.AccountID == "" {
			return fmt.Errorf("leg %d has no account: %w", i, apperrors.ErrValidation)
		}
		if !leg.Direction.IsValid() {
			return fmt.Errorf("leg %d has invalid direction %q: %w", i, leg.Direction, apperrors.ErrValidation)
		}
		if !leg.Amount.IsPositive() {
			return fmt.Errorf("leg %d amount %s must be positive: %w", i, leg.Amount, apperrors.ErrInvalidAmount)
		}
		if err := CheckPrecision(leg.Amount); err != nil {
			return fmt.Errorf("leg %d: %w", i, err)
		}

		if leg.Direction == domain.Debit {
			debits = debits.Add(leg.Amount)
		} else {
			credits = credits.Add(leg.Amount)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("debits %s != credits %s: %w", debits, credits, apperrors.ErrUnbalancedEntry)
	}
	return nil
}

// TotalAmount returns the debit side total of a leg set.
func TotalAmount(legs []domain.Leg) decimal.Decimal {
	total := decimal.Zero
	for _, leg := range legs {
		if leg.Direction == domain.Debit {
			total = total.Add(leg.Amount)
		}
	}
	return total
}

// CheckFloors walks the legs in posting order against the given account
// snapshot and fails with ErrInsufficientFunds as soon as an account with a
// balance floor would drop below it.
func CheckFloors(accounts map[string]domain.Account, legs []domain.Leg) error {
	running := make(map[string]decimal.Decimal, len(accounts))
	for _, leg := range legs {
		acc, ok := accounts[leg.AccountID]
		if !ok {
			return fmt.Errorf("account %s: %w", leg.AccountID, apperrors.ErrAccountNotFound)
		}
		if bal, seen := running[leg.AccountID]; seen {
			acc.Balance = bal
		}

		signed := CalculateSignedAmount(leg.Direction, leg.Amount)
		if !acc.CanAbsorb(signed) {
			return fmt.Errorf("account %s balance %s cannot cover %s (credit limit %s): %w",
				acc.AccountID, acc.Balance, leg.Amount, acc.CreditLimit, apperrors.ErrInsufficientFunds)
		}
		running[leg.AccountID] = acc.Balance.Add(signed)
	}
	return nil
}

// ReverseLegs returns the legs with every direction flipped.
func ReverseLegs(legs []domain.Leg) []domain.Leg {
	reversed := make([]domain.Leg, len(legs))
	for i, leg := range legs {
		reversed[i] = domain.Leg{
			AccountID: leg.AccountID,
			Direction: leg.Direction.Opposite(),
			Amount:    leg.Amount,
			Memo:      "reversal: " + leg.Memo,
		}
	}
	return reversed
}
