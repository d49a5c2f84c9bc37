package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expense-ledger/internal/ledger"
	"expense-ledger/internal/models"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// CategoryDef defines the properties of a category.
type CategoryDef struct {
	ID    string
	Name  string
	Icon  string
	Color string
}

var categories = []CategoryDef{
	{"food", "Food", "🍽️", "#60a5fa"},
	{"transport", "Transport", "🚌", "#a78bfa"},
	{"entertainment", "Entertainment", "🎮", "#f472b6"},
	{"utilities", "Utilities", "💡", "#fbbf24"},
	{"housing", "Housing", "🏠", "#818cf8"},
	{"gifts", "Gifts", "🎁", "#fb7185"},
	{"other", "Other", "📦", "#94a3b8"},
}

// chartPalette colours breakdown slices in order.
var chartPalette = []string{"#f59e0b", "#3b82f6", "#ec4899", "#10b981", "#ef4444", "#8b5cf6", "#6b7280"}

// CategoryStyle defines the visual style for a category.
type CategoryStyle struct {
	Icon  string
	Color string
}

func getCategoryStyle(category string) CategoryStyle {
	catLower := strings.ToLower(category)
	for _, c := range categories {
		if c.ID == catLower {
			return CategoryStyle{Icon: c.Icon, Color: c.Color}
		}
	}
	return CategoryStyle{Icon: "📦", Color: "#94a3b8"}
}

// ExpenseItem represents an expense in the list view.
type ExpenseItem struct {
	models.Expense
	AmountText    string
	DateText      string
	CategoryStyle CategoryStyle
}

// BreakdownItem is one bar of the category chart.
type BreakdownItem struct {
	Category   string
	Label      string
	AmountText string
	Percentage float64
	Color      string
}

// CurrencyOption is an entry of the currency selector.
type CurrencyOption struct {
	Code     string
	Symbol   string
	Selected bool
}

// ExpenseForm echoes a rejected submission back into the form.
type ExpenseForm struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// DashboardViewModel is the data passed to the dashboard template.
type DashboardViewModel struct {
	Username      string
	Expenses      []ExpenseItem
	TotalText     string
	BudgetText    string
	RemainingText string
	Overspent     bool
	Currencies    []CurrencyOption
	Categories    []CategoryDef
	Breakdown     []BreakdownItem
	Form          ExpenseForm
	Error         string
}

// ledgerFor loads the ledger of the signed-in user. When the store cannot be
// read it answers 500 and returns false.
func (h *Handlers) ledgerFor(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, bool) {
	user := GetUserFromContext(r)
	l := ledger.Load(h.db, user.Username,
		ledger.WithLogger(h.logger),
		ledger.WithDefaultCurrency(h.defaultCurrency),
	)
	if err := l.Err(); err != nil {
		h.internalError(w, "load ledger", l, err)
		return nil, false
	}
	return l, true
}

// Dashboard renders expenses, totals, budget and the category breakdown.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	h.renderDashboard(w, r, l, http.StatusOK, ExpenseForm{}, "")
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, l *ledger.Ledger, status int, form ExpenseForm, errMsg string) {
	cur := l.Currency()

	expenses := l.Expenses()
	items := make([]ExpenseItem, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, ExpenseItem{
			Expense:       e,
			AmountText:    cur.Format(e.Amount),
			DateText:      e.Date.Format("Jan 02, 2006"),
			CategoryStyle: getCategoryStyle(e.Category),
		})
	}

	shares := l.Breakdown()
	breakdown := make([]BreakdownItem, 0, len(shares))
	for i, s := range shares {
		breakdown = append(breakdown, BreakdownItem{
			Category:   s.Category,
			Label:      ledger.Capitalize(s.Category),
			AmountText: cur.Format(s.Total),
			Percentage: s.Percentage,
			Color:      chartPalette[i%len(chartPalette)],
		})
	}

	currencies := make([]CurrencyOption, 0, len(ledger.Currencies))
	for _, c := range ledger.Currencies {
		currencies = append(currencies, CurrencyOption{Code: string(c), Symbol: c.Symbol(), Selected: c == cur})
	}

	if form.Date == "" {
		form.Date = time.Now().Format(models.DateLayout)
	}
	if form.Category == "" {
		form.Category = "food"
	}

	h.render(w, status, "dashboard.html", DashboardViewModel{
		Username:      GetUserFromContext(r).Username,
		Expenses:      items,
		TotalText:     cur.Format(l.TotalSpent()),
		BudgetText:    cur.Format(l.Budget()),
		RemainingText: cur.Format(l.Remaining()),
		Overspent:     l.Overspent(),
		Currencies:    currencies,
		Categories:    categories,
		Breakdown:     breakdown,
		Form:          form,
		Error:         errMsg,
	})
}

// CreateExpense handles the creation of a new expense.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, l, http.StatusBadRequest, ExpenseForm{}, "Invalid form submission")
		return
	}

	form := ExpenseForm{
		Description: strings.TrimSpace(r.FormValue("description")),
		Amount:      r.FormValue("amount"),
		Category:    strings.ToLower(strings.TrimSpace(r.FormValue("category"))),
		Date:        r.FormValue("date"),
	}
	if form.Category == "" {
		form.Category = "other"
	}

	amount, err := ledger.ParseAmount(form.Amount)
	if err != nil {
		h.renderDashboard(w, r, l, http.StatusUnprocessableEntity, form, err.Error())
		return
	}
	date, err := ledger.ParseDate(form.Date)
	if err != nil {
		h.renderDashboard(w, r, l, http.StatusUnprocessableEntity, form, err.Error())
		return
	}

	e, err := l.AddExpense(form.Description, amount, form.Category, date)
	if err != nil {
		h.internalError(w, "add expense", l, err)
		return
	}
	h.logger.Info("expense added", "user", l.UserID(), "id", e.ID, "category", e.Category, "amount", e.Amount.String())
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// DeleteExpense removes an expense. Unknown ids are ignored.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid expense id", http.StatusBadRequest)
		return
	}

	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	if err := l.DeleteExpense(id); err != nil {
		h.internalError(w, "delete expense", l, err)
		return
	}
	h.logger.Info("expense deleted", "user", l.UserID(), "id", id)
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// SetBudget replaces the budget.
func (h *Handlers) SetBudget(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, l, http.StatusBadRequest, ExpenseForm{}, "Invalid form submission")
		return
	}

	amount, err := ledger.ParseAmount(r.FormValue("budget"))
	if err == nil {
		err = l.SetBudget(amount)
	}
	if errors.Is(err, ledger.ErrInvalidInput) {
		h.renderDashboard(w, r, l, http.StatusUnprocessableEntity, ExpenseForm{}, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, "set budget", l, err)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// SetCurrency replaces the display currency.
func (h *Handlers) SetCurrency(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, l, http.StatusBadRequest, ExpenseForm{}, "Invalid form submission")
		return
	}

	err := l.SetCurrency(r.FormValue("currency"))
	if errors.Is(err, ledger.ErrInvalidInput) {
		h.renderDashboard(w, r, l, http.StatusUnprocessableEntity, ExpenseForm{}, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, "set currency", l, err)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

// BreakdownResponse is the JSON body served to chart widgets.
type BreakdownResponse struct {
	Currency   string                 `json:"currency"`
	Total      decimal.Decimal        `json:"total"`
	Budget     decimal.Decimal        `json:"budget"`
	Remaining  decimal.Decimal        `json:"remaining"`
	Overspent  bool                   `json:"overspent"`
	Categories []ledger.CategoryShare `json:"categories"`
}

// Breakdown serves the category totals as JSON.
func (h *Handlers) Breakdown(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ledgerFor(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(BreakdownResponse{
		Currency:   string(l.Currency()),
		Total:      l.TotalSpent(),
		Budget:     l.Budget(),
		Remaining:  l.Remaining(),
		Overspent:  l.Overspent(),
		Categories: l.Breakdown(),
	}); err != nil {
		h.logger.Error("encode breakdown", "user", l.UserID(), "error", err)
	}
}

func (h *Handlers) internalError(w http.ResponseWriter, op string, l *ledger.Ledger, err error) {
	h.logger.Error(op+" failed", "user", l.UserID(), "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
