package ledger

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code selecting the display symbol of a ledger.
type Currency string

// DefaultCurrency is used for ledgers that never chose one.
const DefaultCurrency Currency = "USD"

// Currencies lists the supported codes in display order.
var Currencies = []Currency{"USD", "EUR", "GBP", "INR", "JPY", "CNY", "AUD", "CAD", "CHF", "SEK"}

var symbols = map[Currency]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "Fr",
	"SEK": "kr",
}

// ParseCurrency normalizes code and checks it is supported.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := symbols[c]; !ok {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrInvalidInput, code)
	}
	return c, nil
}

// Symbol returns the display symbol, or "" for an unknown code.
func (c Currency) Symbol() string { return symbols[c] }

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Format renders the magnitude of amount with the currency symbol and two
// decimals, without thousands separators. The sign is dropped; callers colour
// negative values instead. Amounts beyond int64 cents are printed by decimal
// directly.
func (c Currency) Format(amount decimal.Decimal) string {
	cents := amount.Abs().Shift(2).Round(0)
	if cents.GreaterThan(maxCents) {
		return c.Symbol() + amount.Abs().StringFixed(2)
	}
	return money.NewFormatter(2, ".", "", c.Symbol(), "$1").Format(cents.IntPart())
}
