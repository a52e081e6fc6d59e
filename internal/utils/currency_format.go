package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders an amount for display using the currency's minor unit
// and symbol, e.g. 703.5 USD -> "$703.50". Unknown currencies fall back to a
// plain two-place rendering.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return money.New(minor, currency.Code).Display()
}
