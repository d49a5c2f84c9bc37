package ledger

import (
	"errors"
	"fmt"
	"strings"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput reports user-supplied values the ledger refuses to store.
var ErrInvalidInput = errors.New("invalid input")

// ParseAmount parses a decimal amount typed by a user. A decimal comma is
// accepted. Blank or non-numeric text is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, s)
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date typed by a user. Blank text yields the
// zero date.
func ParseDate(s string) (models.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return d, nil
}
