// Package money formats decimal amounts for display.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Default is used when no currency is configured.
var Default = currency.USD

// ParseCurrency accepts an ISO 4217 code such as "USD" or "EUR".
func ParseCurrency(code string) (currency.Unit, error) {
	if code == "" {
		return Default, nil
	}
	u, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency %q: %w", code, err)
	}
	return u, nil
}

// Format renders an amount with two decimals followed by the ISO code, e.g. "129.99 USD".
func Format(amount decimal.Decimal, unit currency.Unit) string {
	return amount.StringFixed(2) + " " + unit.String()
}
