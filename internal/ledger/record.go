package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Key returns the store key holding the ledger of userID.
func Key(userID string) string { return "ledger_" + userID }

// Keys of the older three-value layout, still read when Key(userID) is absent.
func legacyExpensesKey(userID string) string { return "expenses_" + userID }
func legacyBudgetKey(userID string) string   { return "budget_" + userID }
func legacyCurrencyKey(userID string) string { return "currency_" + userID }

// record is the persisted shape. Amounts are JSON numbers.
type record struct {
	Expenses []expenseRecord `json:"expenses"`
	Budget   json.Number     `json:"budget"`
	Currency string          `json:"currency"`
}

type expenseRecord struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// state is the decoded content of a record.
type state struct {
	expenses []models.Expense
	budget   decimal.Decimal
	currency Currency
}

func encodeRecord(s state) ([]byte, error) {
	rec := record{
		Expenses: make([]expenseRecord, 0, len(s.expenses)),
		Budget:   json.Number(s.budget.String()),
		Currency: string(s.currency),
	}
	for _, e := range s.expenses {
		rec.Expenses = append(rec.Expenses, expenseRecord{
			ID:          e.ID,
			Description: e.Description,
			Amount:      json.Number(e.Amount.String()),
			Category:    e.Category,
			Date:        e.Date.String(),
		})
	}
	return json.Marshal(rec)
}

// decodeRecord rejects the whole record if any field does not have the
// expected shape; partial ledgers are never returned.
func decodeRecord(data []byte) (state, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return state{}, fmt.Errorf("decode ledger record: %w", err)
	}

	expenses, _, err := decodeExpenses(rec.Expenses, false)
	if err != nil {
		return state{}, err
	}

	budget := decimal.Zero
	if rec.Budget != "" {
		budget, err = decimal.NewFromString(rec.Budget.String())
		if err != nil {
			return state{}, fmt.Errorf("decode budget %q: %w", rec.Budget, err)
		}
	}

	cur := DefaultCurrency
	if rec.Currency != "" {
		cur, err = ParseCurrency(rec.Currency)
		if err != nil {
			return state{}, err
		}
	}

	return state{expenses: expenses, budget: budget, currency: cur}, nil
}

// decodeExpenses converts stored expenses. With zeroMissing, an absent or
// null amount decodes as zero and is counted in the second result instead of
// failing the whole list.
func decodeExpenses(recs []expenseRecord, zeroMissing bool) ([]models.Expense, int, error) {
	expenses := make([]models.Expense, 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))
	zeroed := 0
	for i, r := range recs {
		amount := decimal.Zero
		if r.Amount == "" && zeroMissing {
			zeroed++
		} else {
			var err error
			amount, err = decimal.NewFromString(r.Amount.String())
			if err != nil {
				return nil, 0, fmt.Errorf("decode expense %d amount %q: %w", i, r.Amount, err)
			}
		}
		date, err := models.ParseDate(r.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("decode expense %d: %w", i, err)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, 0, fmt.Errorf("decode expense %d: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		expenses = append(expenses, models.Expense{
			ID:          r.ID,
			Description: r.Description,
			Amount:      amount,
			Category:    r.Category,
			Date:        date,
		})
	}
	return expenses, zeroed, nil
}

// decodeLegacy assembles a state from the three-value layout. Budget text is
// whatever was written by the old front end, so it is parsed leniently. The
// old front end stored unparseable amounts as null; those expenses are kept
// with a zero amount and counted in the second result.
func decodeLegacy(expensesData, budgetData, currencyData []byte) (state, int, error) {
	s := state{budget: decimal.Zero, currency: DefaultCurrency, expenses: []models.Expense{}}
	zeroed := 0

	if len(expensesData) > 0 {
		var recs []expenseRecord
		if err := json.Unmarshal(expensesData, &recs); err != nil {
			return state{}, 0, fmt.Errorf("decode legacy expenses: %w", err)
		}
		expenses, n, err := decodeExpenses(recs, true)
		if err != nil {
			return state{}, 0, err
		}
		s.expenses = expenses
		zeroed = n
	}

	if b := strings.TrimSpace(string(budgetData)); b != "" {
		budget, err := decimal.NewFromString(b)
		if err != nil {
			return state{}, 0, fmt.Errorf("decode legacy budget %q: %w", b, err)
		}
		s.budget = budget
	}

	if c := strings.TrimSpace(string(currencyData)); c != "" {
		cur, err := ParseCurrency(c)
		if err != nil {
			return state{}, 0, err
		}
		s.currency = cur
	}

	return s, zeroed, nil
}
