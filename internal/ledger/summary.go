package ledger

import (
	"cmp"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// TotalSpent returns the sum of all expense amounts.
func (l *Ledger) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Remaining returns the budget minus the total spent. A negative value means
// the budget is overspent; expenses are accepted regardless.
func (l *Ledger) Remaining() decimal.Decimal {
	return l.budget.Sub(l.TotalSpent())
}

// Overspent reports whether Remaining is below zero.
func (l *Ledger) Overspent() bool {
	return l.Remaining().IsNegative()
}

// GroupByCategory returns the summed amount per category. Categories without
// expenses are absent.
func (l *Ledger) GroupByCategory() map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range l.expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// CategoryShare is one slice of the category breakdown.
type CategoryShare struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// Capitalize upper-cases the first letter of a category for display.
func Capitalize(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}

// Breakdown returns the category totals ordered by amount, largest first,
// with each category's share of the total spent. Shares are zero when
// nothing has been spent.
func (l *Ledger) Breakdown() []CategoryShare {
	counts := make(map[string]int)
	for _, e := range l.expenses {
		counts[e.Category]++
	}

	total := l.TotalSpent()
	shares := make([]CategoryShare, 0, len(counts))
	for category, sum := range l.GroupByCategory() {
		percentage := 0.0
		if total.IsPositive() {
			percentage = sum.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		shares = append(shares, CategoryShare{
			Category:   category,
			Total:      sum,
			Count:      counts[category],
			Percentage: percentage,
		})
	}

	slices.SortFunc(shares, func(a, b CategoryShare) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return shares
}
