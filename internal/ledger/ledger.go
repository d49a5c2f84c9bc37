// Package ledger holds one user's expenses, budget and display currency, and
// the summaries derived from them. A Ledger is loaded from a Store for a
// single user, mutated by one caller at a time, and written back after every
// change.
package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"expense-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Store is the key-value medium a Ledger persists to.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// has never been set.
	Get(key string) (value []byte, found bool, err error)
	// Set replaces the value stored under key.
	Set(key string, value []byte) error
}

// Ledger is the expense list, budget and currency of one user.
// It is not safe for concurrent use.
type Ledger struct {
	store  Store
	userID string
	logger *slog.Logger
	now    func() time.Time

	expenses []models.Expense // newest first
	budget   decimal.Decimal
	currency Currency

	// loadErr is set when the store could not be read. Save refuses to
	// write while it is set so the stored record is never replaced by an
	// empty ledger.
	loadErr error
}

// Option configures Load.
type Option func(*Ledger)

// WithLogger sets the logger used to report discarded records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithClock overrides the time source used to assign expense ids.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithDefaultCurrency sets the currency of a ledger that has none stored.
func WithDefaultCurrency(c Currency) Option {
	return func(l *Ledger) { l.currency = c }
}

// Load reads the ledger of userID from store. It never fails: a missing or
// malformed record yields an empty ledger. When the store itself cannot be
// read the ledger is also empty, Err reports the read error and Save refuses
// to write.
func Load(store Store, userID string, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		userID:   userID,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		expenses: []models.Expense{},
		budget:   decimal.Zero,
		currency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(l)
	}

	s, ok := l.read()
	if !ok {
		return l
	}
	l.expenses = s.expenses
	l.budget = s.budget
	l.currency = s.currency
	return l
}

func (l *Ledger) read() (state, bool) {
	log := l.logger.With("user", l.userID)

	data, found, err := l.store.Get(Key(l.userID))
	if err != nil {
		log.Warn("ledger unreadable, starting empty", "error", err)
		l.loadErr = fmt.Errorf("read ledger for %s: %w", l.userID, err)
		return state{}, false
	}
	if found {
		s, err := decodeRecord(data)
		if err != nil {
			log.Warn("ledger record malformed, starting empty", "error", err)
			return state{}, false
		}
		return s, true
	}

	return l.readLegacy()
}

func (l *Ledger) readLegacy() (state, bool) {
	log := l.logger.With("user", l.userID)

	var values [3][]byte
	foundAny := false
	for i, key := range []string{
		legacyExpensesKey(l.userID),
		legacyBudgetKey(l.userID),
		legacyCurrencyKey(l.userID),
	} {
		data, found, err := l.store.Get(key)
		if err != nil {
			log.Warn("legacy ledger unreadable, starting empty", "key", key, "error", err)
			l.loadErr = fmt.Errorf("read ledger for %s: %w", l.userID, err)
			return state{}, false
		}
		if found {
			values[i] = data
			foundAny = true
		}
	}
	if !foundAny {
		return state{}, false
	}

	s, zeroed, err := decodeLegacy(values[0], values[1], values[2])
	if err != nil {
		log.Warn("legacy ledger malformed, starting empty", "error", err)
		return state{}, false
	}
	if zeroed > 0 {
		log.Warn("legacy expenses without amount set to zero", "count", zeroed)
	}
	log.Info("loaded legacy ledger", "expenses", len(s.expenses))
	return s, true
}

// Save writes the ledger back under its user's key. It fails without
// writing when the ledger could not be read at Load.
func (l *Ledger) Save() error {
	if l.loadErr != nil {
		return fmt.Errorf("refusing to overwrite unread ledger: %w", l.loadErr)
	}
	data, err := encodeRecord(state{expenses: l.expenses, budget: l.budget, currency: l.currency})
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Set(Key(l.userID), data); err != nil {
		return fmt.Errorf("save ledger for %s: %w", l.userID, err)
	}
	return nil
}

// Err returns the store error met by Load, or nil.
func (l *Ledger) Err() error { return l.loadErr }

// UserID returns the identity the ledger belongs to.
func (l *Ledger) UserID() string { return l.userID }

// Expenses returns a copy of the expenses, newest first.
func (l *Ledger) Expenses() []models.Expense { return slices.Clone(l.expenses) }

// Budget returns the declared spending limit.
func (l *Ledger) Budget() decimal.Decimal { return l.budget }

// Currency returns the display currency.
func (l *Ledger) Currency() Currency { return l.currency }

// AddExpense records a new expense ahead of the existing ones and saves the
// ledger. The returned expense carries its assigned id. When saving fails the
// expense stays in memory and the error is returned alongside it.
func (l *Ledger) AddExpense(description string, amount decimal.Decimal, category string, date models.Date) (models.Expense, error) {
	e := models.Expense{
		ID:          l.nextID(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	l.expenses = slices.Insert(l.expenses, 0, e)
	return e, l.Save()
}

// nextID is the creation time in milliseconds, moved past any id already in
// use so that ids stay unique when two expenses land in the same millisecond.
func (l *Ledger) nextID() int64 {
	id := l.now().UnixMilli()
	for _, e := range l.expenses {
		if e.ID >= id {
			id = e.ID + 1
		}
	}
	return id
}

// DeleteExpense removes the expense with the given id and saves the ledger.
// An unknown id leaves the expenses untouched.
func (l *Ledger) DeleteExpense(id int64) error {
	l.expenses = slices.DeleteFunc(l.expenses, func(e models.Expense) bool { return e.ID == id })
	return l.Save()
}

// SetBudget replaces the budget and saves the ledger.
func (l *Ledger) SetBudget(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget cannot be negative", ErrInvalidInput)
	}
	l.budget = amount
	return l.Save()
}

// SetCurrency replaces the display currency and saves the ledger.
func (l *Ledger) SetCurrency(code string) error {
	c, err := ParseCurrency(code)
	if err != nil {
		return err
	}
	l.currency = c
	return l.Save()
}
